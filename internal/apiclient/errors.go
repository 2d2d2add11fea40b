package apiclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindUnauthorized
	KindValidation
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ErrSessionExpired matches errors for which the session was torn down
// because a protected endpoint rejected the bearer token.
var ErrSessionExpired = errors.New("session expired")

// Error is returned for every failed backend call.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	// SessionCleared is set when the failure triggered a session teardown.
	SessionCleared bool
	Err            error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: %s (%d): %s", e.Method, e.Path, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrSessionExpired && e.SessionCleared
}

// KindOf reports the kind of err, or 0 when err did not come from the client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// StatusOf reports the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the backend supplied message when there is one, otherwise fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
