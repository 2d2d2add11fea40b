package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/view"
)

// Handler serves the customer order pages.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/orders", h.getMyOrders)
	app.Get("/track-order", h.trackOrder)
}

func (h *Handler) getMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListMine(c.UserContext())
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Failed to load orders."))
	}
	body := fiber.Map{"orders": Cards(orders)}
	if len(orders) == 0 {
		body["message"] = MsgNoOrders
	}
	return c.JSON(body)
}

type TrackView struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	AWB         string `json:"awb,omitempty"`
	TrackingURL string `json:"trackingUrl,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (h *Handler) trackOrder(c *fiber.Ctx) error {
	// no lookup until the form is submitted
	if !c.Context().QueryArgs().Has("orderNumber") {
		return c.JSON(fiber.Map{"orderNumber": ""})
	}

	t, err := h.service.Track(c.UserContext(), c.Query("orderNumber"))
	if err != nil {
		if errors.Is(err, ErrOrderNumberRequired) {
			return view.BadRequest(c, MsgOrderNumberRequired)
		}
		return view.Fail(c, err, view.Message(err, MsgTrackFailed))
	}

	v := TrackView{OrderNumber: string(t.OrderNumber), Status: t.Status}
	if t.TrackingURL != "" {
		v.AWB = t.AWB
		v.TrackingURL = t.TrackingURL
	} else {
		v.Message = t.Message
	}
	return c.JSON(v)
}
