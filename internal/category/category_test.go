package category

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/apiclient/apitest"
)

func TestForm_Payload(t *testing.T) {
	c, err := Form{Name: " Tea ", Description: "Leaves", LayoutType: "wide"}.Payload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Tea" || c.LayoutType != LayoutWide {
		t.Fatalf("unexpected payload %+v", c)
	}

	c, err = Form{Name: "Tea", Description: "Leaves"}.Payload()
	if err != nil || c.LayoutType != LayoutSquare {
		t.Fatalf("expected square default, got %+v (%v)", c, err)
	}

	cases := map[string]struct {
		form Form
		want error
	}{
		"missing name":        {Form{Description: "x"}, ErrNameRequired},
		"missing description": {Form{Name: "x"}, ErrDescriptionRequired},
		"bad layout":          {Form{Name: "x", Description: "y", LayoutType: "ROUND"}, ErrInvalidLayout},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := tc.form.Payload(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCategory_Layout(t *testing.T) {
	if (Category{LayoutType: "wide"}).Layout() != LayoutWide {
		t.Fatalf("expected case-insensitive WIDE")
	}
	if (Category{}).Layout() != LayoutSquare {
		t.Fatalf("expected square fallback")
	}
	if (Category{BannerImageURL: "  "}).HasBanner() {
		t.Fatalf("blank banner must not show")
	}
}

func newBackend(t *testing.T) *apitest.Backend {
	return apitest.NewBackend(t, func(app *fiber.App) {
		app.Get("/categories", func(c *fiber.Ctx) error {
			return c.JSON([]Category{{ID: 1, Name: "Tea", LayoutType: LayoutWide}, {ID: 2, Name: "Spices"}})
		})
		app.Get("/categories/:id", func(c *fiber.Ctx) error {
			if c.Params("id") != "1" {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Category not found"})
			}
			return c.JSON(Category{ID: 1, Name: "Tea", BannerImageURL: "banner.jpg"})
		})
		app.Post("/categories", func(c *fiber.Ctx) error {
			var in Category
			if err := c.BodyParser(&in); err != nil {
				return err
			}
			in.ID = 9
			return c.Status(fiber.StatusCreated).JSON(in)
		})
		app.Put("/categories/:id", func(c *fiber.Ctx) error {
			var in Category
			if err := c.BodyParser(&in); err != nil {
				return err
			}
			in.ID = 1
			return c.JSON(in)
		})
		app.Delete("/categories/:id", func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})
	})
}

func TestService_CRUD(t *testing.T) {
	backend := newBackend(t)
	svc := NewService(backend.Client("tok"))
	ctx := context.Background()

	items, err := svc.List(ctx)
	if err != nil || len(items) != 2 {
		t.Fatalf("unexpected list %v (%v)", items, err)
	}

	got, err := svc.Get(ctx, 1)
	if err != nil || !got.HasBanner() {
		t.Fatalf("unexpected category %+v (%v)", got, err)
	}
	if _, err := svc.Get(ctx, 3); err == nil || !strings.Contains(err.Error(), "Category not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := svc.Get(ctx, 0); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	created, err := svc.Create(ctx, Form{Name: "Honey", Description: "Raw"})
	if err != nil || created.ID != 9 || created.LayoutType != LayoutSquare {
		t.Fatalf("unexpected created %+v (%v)", created, err)
	}
	if _, err := svc.Create(ctx, Form{}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := backend.Count("POST", "/categories"); n != 1 {
		t.Fatalf("invalid form must not reach the backend, got %d posts", n)
	}

	if _, err := svc.Update(ctx, 1, Form{Name: "Tea", Description: "Green", LayoutType: "WIDE"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}

func TestHandler_Navigation(t *testing.T) {
	backend := newBackend(t)
	app := fiber.New()
	NewHandler(NewService(backend.Client(""))).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/categories", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	var nav []NavItem
	if err := json.Unmarshal(body, &nav); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(nav) != 2 || nav[0].Link != "/category/1" || nav[0].Layout != LayoutWide || nav[1].Layout != LayoutSquare {
		t.Fatalf("unexpected navigation %s", body)
	}
}
