package apiclient_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/apiclient/apitest"
)

type echo struct {
	Auth  string `json:"auth"`
	Query string `json:"query"`
}

func newBackend(t *testing.T) *apitest.Backend {
	return apitest.NewBackend(t, func(app *fiber.App) {
		app.Get("/categories", func(c *fiber.Ctx) error {
			return c.JSON(echo{Auth: c.Get(fiber.HeaderAuthorization), Query: c.Query("categoryId")})
		})
		app.Get("/cart", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token expired"})
		})
		app.Get("/products/1", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		})
		app.Post("/orders/place", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "address incomplete"})
		})
		app.Get("/orders/track/locked", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not found"})
		})
		app.Get("/orders/track/x", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		})
		app.Get("/broken", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString("{not json")
		})
		app.Get("/boom", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).SendString("database down")
		})
	})
}

func TestClient_InjectsBearerToken(t *testing.T) {
	backend := newBackend(t)

	var got echo
	if err := backend.Client("abc").Get(context.Background(), "/categories", url.Values{"categoryId": {"7"}}, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Auth != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got.Auth)
	}
	if got.Query != "7" {
		t.Fatalf("expected query to be forwarded, got %q", got.Query)
	}

	if err := backend.Client("").Get(context.Background(), "/categories", nil, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Auth != "" {
		t.Fatalf("expected no authorization header without token, got %q", got.Auth)
	}

	if err := backend.Client("abc").GetPublic(context.Background(), "/categories", nil, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Auth != "" {
		t.Fatalf("public call must not carry the token, got %q", got.Auth)
	}
}

func TestClient_UnauthorizedOnProtectedPathClearsSession(t *testing.T) {
	backend := newBackend(t)

	var cleared []string
	client := backend.Client("stale", apiclient.WithUnauthorizedHandler(func(path string) {
		cleared = append(cleared, path)
	}))

	err := client.Get(context.Background(), "/cart", nil, nil)
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if apiclient.KindOf(err) != apiclient.KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %v", apiclient.KindOf(err))
	}
	if len(cleared) != 1 || cleared[0] != "/cart" {
		t.Fatalf("expected one teardown for /cart, got %v", cleared)
	}
}

func TestClient_UnauthorizedElsewhereIsLocal(t *testing.T) {
	backend := newBackend(t)

	called := false
	client := backend.Client("tok", apiclient.WithUnauthorizedHandler(func(string) { called = true }))

	err := client.Get(context.Background(), "/products/1", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("non-protected path must not expire the session")
	}
	if called {
		t.Fatalf("unauthorized handler must not run for /products")
	}
	if apiclient.StatusOf(err) != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", apiclient.StatusOf(err))
	}
}

func TestClient_PublicCallNeverClearsSession(t *testing.T) {
	backend := newBackend(t)

	called := false
	client := backend.Client("tok", apiclient.WithUnauthorizedHandler(func(string) { called = true }))

	err := client.GetPublic(context.Background(), "/orders/track/locked", nil, nil)
	if apiclient.KindOf(err) != apiclient.KindUnauthorized {
		t.Fatalf("expected unauthorized kind, got %v", err)
	}
	if errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("public lookup must not expire the session")
	}
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.SessionCleared {
		t.Fatalf("expected SessionCleared to stay false, got %+v", apiErr)
	}
	if called {
		t.Fatalf("unauthorized handler must not run for a public call")
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	backend := newBackend(t)
	client := backend.Client("tok")
	ctx := context.Background()

	err := client.Post(ctx, "/orders/place", nil, map[string]string{"city": ""}, nil)
	if apiclient.KindOf(err) != apiclient.KindValidation {
		t.Fatalf("expected validation kind, got %v", err)
	}
	if apiclient.MessageOf(err, "fallback") != "address incomplete" {
		t.Fatalf("expected backend message, got %q", apiclient.MessageOf(err, "fallback"))
	}

	err = client.GetPublic(ctx, "/orders/track/x", nil, nil)
	if apiclient.MessageOf(err, "") != "order not found" {
		t.Fatalf("expected error field to be used as message, got %v", err)
	}

	var out map[string]any
	err = client.Get(ctx, "/broken", nil, &out)
	if apiclient.KindOf(err) != apiclient.KindUnexpected {
		t.Fatalf("expected unexpected kind for malformed body, got %v", err)
	}

	err = client.Get(ctx, "/boom", nil, nil)
	if apiclient.KindOf(err) != apiclient.KindUnexpected || apiclient.StatusOf(err) != 500 {
		t.Fatalf("expected unexpected 500, got %v", err)
	}
	if apiclient.MessageOf(err, "") != "database down" {
		t.Fatalf("expected plain text message, got %q", apiclient.MessageOf(err, ""))
	}
}

func TestClient_TransportFailures(t *testing.T) {
	backend := newBackend(t)
	client := backend.Client("tok", apiclient.WithTimeout(2*time.Second))
	backend.Server.Close()

	err := client.Get(context.Background(), "/categories", nil, nil)
	if apiclient.KindOf(err) != apiclient.KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = client.Get(ctx, "/categories", nil, nil)
	if apiclient.KindOf(err) != apiclient.KindTransport || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled transport error, got %v", err)
	}
}

func TestIsProtected(t *testing.T) {
	cases := map[string]bool{
		"/cart":                true,
		"/cart/update":         true,
		"/orders":              true,
		"/orders/track/ABC":    true,
		"/payment/verify":      true,
		"/categories":          false,
		"/products?categoryId": false,
		"/cartography":         false,
	}
	for path, want := range cases {
		if got := apiclient.IsProtected(path); got != want {
			t.Errorf("IsProtected(%q) = %v, want %v", path, got, want)
		}
	}
}
