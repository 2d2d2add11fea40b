package view

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/storefront-console/internal/apiclient"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.New("name is required"), fiber.StatusBadRequest},
		{&apiclient.Error{Kind: apiclient.KindTransport}, fiber.StatusBadGateway},
		{&apiclient.Error{Kind: apiclient.KindUnauthorized, Status: 403}, fiber.StatusUnauthorized},
		{&apiclient.Error{Kind: apiclient.KindValidation, Status: 409}, fiber.StatusConflict},
		{&apiclient.Error{Kind: apiclient.KindUnexpected, Status: 500}, fiber.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, got)
		}
	}
}

func TestMessage(t *testing.T) {
	if got := Message(errors.New("price is required"), "fallback"); got != "price is required" {
		t.Fatalf("unexpected local message %q", got)
	}
	apiErr := &apiclient.Error{Kind: apiclient.KindValidation, Status: 400, Message: "stock too low"}
	if got := Message(apiErr, "fallback"); got != "stock too low" {
		t.Fatalf("unexpected backend message %q", got)
	}
	if got := Message(&apiclient.Error{Kind: apiclient.KindTransport}, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestFail_SessionExpiredPointsToLogin(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Fail(c, &apiclient.Error{Kind: apiclient.KindUnauthorized, Status: 401, SessionCleared: true}, "Please log in")
	})
	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"redirect":"/login"`) {
		t.Fatalf("expected login redirect in body, got %s", b)
	}
}

func TestRupees(t *testing.T) {
	if got := Rupees(decimal.RequireFromString("249.5")); got != "₹249.50" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Rupees(decimal.Zero); got != "₹0.00" {
		t.Fatalf("unexpected %q", got)
	}
}
