// Package apitest runs a fiber app as a stand-in for the REST backend so that
// services can be exercised through the real HTTP client.
package apitest

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/wichananm65/storefront-console/internal/apiclient"
)

// Backend is a fake backend plus a record of the requests it served.
type Backend struct {
	App    *fiber.App
	Server *httptest.Server

	mu       sync.Mutex
	requests []Request
}

// Request is what the backend saw for one call.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          string
}

// NewBackend starts a backend whose routes are added by register.
func NewBackend(t testing.TB, register func(app *fiber.App)) *Backend {
	t.Helper()
	b := &Backend{App: fiber.New()}
	b.App.Use(func(c *fiber.Ctx) error {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        c.Method(),
			Path:          c.Path(),
			Query:         string(c.Request().URI().QueryString()),
			Authorization: c.Get(fiber.HeaderAuthorization),
			Body:          string(c.Body()),
		})
		b.mu.Unlock()
		return c.Next()
	})
	if register != nil {
		register(b.App)
	}
	b.Server = httptest.NewServer(adaptor.FiberApp(b.App))
	t.Cleanup(b.Server.Close)
	return b
}

// Client returns an API client pointed at the backend using a fixed token.
func (b *Backend) Client(token string, opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(b.Server.URL, apiclient.TokenFunc(func() string { return token }), opts...)
}

// Requests returns a copy of the requests served so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}
