package category

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/view"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/categories", h.getCategories)
}

// NavItem is one header link.
type NavItem struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Link   string     `json:"link"`
	Layout LayoutType `json:"layout"`
}

// getCategories returns the category navigation shown in the header.
func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Could not fetch categories."))
	}
	return c.JSON(NavItems(items))
}

// NavItems shapes categories into header links.
func NavItems(items []Category) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, it := range items {
		out = append(out, NavItem{
			ID:     it.ID,
			Name:   it.Name,
			Link:   "/category/" + strconv.FormatInt(it.ID, 10),
			Layout: it.Layout(),
		})
	}
	return out
}
