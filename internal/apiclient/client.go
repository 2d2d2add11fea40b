package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// the backend binds money fields as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// ProtectedPrefixes lists the paths for which an authorization failure tears
// down the whole session.
var ProtectedPrefixes = []string{"/cart", "/orders", "/payment"}

// TokenSource yields the bearer token to attach, or "" when there is none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// API is the set of calls services make against the backend.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	GetPublic(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, query url.Values, body, out any) error
	Put(ctx context.Context, path string, query url.Values, body, out any) error
	Delete(ctx context.Context, path string, query url.Values, out any) error
}

var _ API = (*Client)(nil)

// Client talks to the storefront REST backend under a fixed base URL.
type Client struct {
	baseURL        string
	tokens         TokenSource
	timeout        time.Duration
	logger         *zap.Logger
	onUnauthorized func(path string)
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUnauthorizedHandler registers the hook run when a protected endpoint
// answers 401 or 403.
func WithUnauthorizedHandler(fn func(path string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = TokenFunc(func() string { return "" })
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		timeout: 15 * time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	public bool
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: fiber.MethodGet, path: path, query: query, out: out})
}

// GetPublic issues a GET without the bearer token.
func (c *Client) GetPublic(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: fiber.MethodGet, path: path, query: query, out: out, public: true})
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, request{method: fiber.MethodPost, path: path, query: query, body: body, out: out})
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, request{method: fiber.MethodPut, path: path, query: query, body: body, out: out})
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: fiber.MethodDelete, path: path, query: query, out: out})
}

func (c *Client) do(ctx context.Context, r request) error {
	fail := func(kind Kind, status int, msg string, err error) *Error {
		return &Error{Kind: kind, Method: r.method, Path: r.path, Status: status, Message: msg, Err: err}
	}

	timeout, err := c.timeoutFor(ctx)
	if err != nil {
		return fail(KindTransport, 0, "", err)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var payload []byte
	if r.body != nil {
		payload, err = json.Marshal(r.body)
		if err != nil {
			return fail(KindUnexpected, 0, "", fmt.Errorf("encode request body: %w", err))
		}
	}

	requestID := uuid.NewString()
	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(r.method)
	req.SetRequestURI(target)
	agent.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Set(fiber.HeaderXRequestID, requestID)
	if !r.public {
		if tok := c.tokens.Token(); tok != "" {
			agent.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	if payload != nil {
		agent.Body(payload)
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fail(KindTransport, 0, "", err)
	}

	start := time.Now()
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.logger.Warn("backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("requestId", requestID),
			zap.Error(err))
		return fail(KindTransport, 0, "", err)
	}

	c.logger.Debug("backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", status),
		zap.Duration("took", time.Since(start)),
		zap.String("requestId", requestID))

	switch {
	case status >= 200 && status < 300:
		if r.out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, r.out); err != nil {
			return fail(KindUnexpected, status, "malformed response", err)
		}
		return nil
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		e := fail(KindUnauthorized, status, messageFrom(body), nil)
		if !r.public && IsProtected(r.path) && c.onUnauthorized != nil {
			c.logger.Warn("authentication required, clearing session",
				zap.String("path", r.path),
				zap.Int("status", status))
			c.onUnauthorized(r.path)
			e.SessionCleared = true
		}
		return e
	case status >= 400 && status < 500:
		return fail(KindValidation, status, messageFrom(body), nil)
	default:
		return fail(KindUnexpected, status, messageFrom(body), nil)
	}
}

func (c *Client) timeoutFor(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout, nil
}

// IsProtected reports whether path falls under one of ProtectedPrefixes.
func IsProtected(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+"?") {
			return true
		}
	}
	return false
}

func messageFrom(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	if body[0] == '<' || len(body) > 200 {
		return ""
	}
	return string(body)
}
