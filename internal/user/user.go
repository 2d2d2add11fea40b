package user

import (
	"errors"
	"strings"
)

var (
	ErrInvalidResponse  = errors.New("invalid response from server")
	ErrMissingFields    = errors.New("missing required fields")
	ErrNotAuthenticated = errors.New("not signed in")
)

const (
	MsgLoginFailed    = "Invalid email or password. Please try again."
	MsgRegisterFailed = "Registration failed. The email might already be in use."
)

// AuthResponse is the backend's answer to login and registration.
type AuthResponse struct {
	Token     string `json:"token"`
	ID        int64  `json:"id,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (c Credentials) isMissingRequiredFields() bool {
	return strings.TrimSpace(c.Email) == "" || c.Password == ""
}

// Registration is the sign-up form.
type Registration struct {
	Firstname string `json:"firstname" form:"firstname"`
	Lastname  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

func (r Registration) isMissingRequiredFields() bool {
	return strings.TrimSpace(r.Firstname) == "" || strings.TrimSpace(r.Lastname) == "" ||
		strings.TrimSpace(r.Email) == "" || r.Password == ""
}
