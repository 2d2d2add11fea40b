package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/order"
	"github.com/wichananm65/storefront-console/internal/payment"
	"github.com/wichananm65/storefront-console/internal/view"
)

const (
	MsgOrderFailed        = "Failed to create order. Please try again."
	MsgPaymentOrderFailed = "Failed to create payment order."
	MsgVerificationFailed = "Payment verification failed."
	MsgPaymentFailed      = "Payment failed. Please try again."
	MsgSuccess            = "Your order has been placed and your shipment is being processed."
)

type Handler struct {
	flow *Flow
}

func NewHandler(flow *Flow) *Handler {
	return &Handler{flow: flow}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/checkout", h.getCheckout)
	app.Post("/checkout/address", h.submitAddress)
	app.Post("/checkout/back", h.back)
	app.Post("/checkout/pay", h.pay)
	app.Post("/checkout/payment/callback", h.paymentCallback)
	app.Post("/checkout/payment/failed", h.paymentFailed)
	app.Post("/checkout/reset", h.reset)
}

// View is the rendered checkout step.
type View struct {
	State       State         `json:"state"`
	Step        int           `json:"step"`
	Processing  bool          `json:"processing"`
	Address     order.Address `json:"address"`
	OrderID     int64         `json:"orderId,omitempty"`
	Total       string        `json:"total,omitempty"`
	Message     string        `json:"message,omitempty"`
	TrackingURL string        `json:"trackingUrl,omitempty"`
	Alert       string        `json:"alert,omitempty"`
}

var steps = map[State]int{
	StateAddressEntry:      1,
	StateOrderConfirm:      2,
	StatePaymentProcessing: 2,
	StateSuccess:           3,
}

// NewView renders a snapshot.
func NewView(s Snapshot) View {
	v := View{
		State:      s.State,
		Step:       steps[s.State],
		Processing: s.Busy || s.State == StatePaymentProcessing,
		Address:    s.Address,
	}
	if s.Order != nil {
		v.OrderID = s.Order.ID
		v.Total = view.Rupees(s.Order.TotalPrice)
	}
	if s.State == StateSuccess {
		v.Message = MsgSuccess
		if s.Verification != nil {
			v.TrackingURL = s.Verification.TrackingURL
		}
	}
	if s.LastFailure != nil && s.State == StateOrderConfirm {
		v.Alert = MsgPaymentFailed
	}
	return v
}

// getCheckout renders the current step. A finished checkout was already shown
// by the payment callback, so visiting again starts over at address entry.
func (h *Handler) getCheckout(c *fiber.Ctx) error {
	if h.flow.Snapshot().State == StateSuccess {
		h.flow.Restart()
	}
	return c.JSON(NewView(h.flow.Snapshot()))
}

func (h *Handler) submitAddress(c *fiber.Ctx) error {
	addr := new(order.Address)
	if err := c.BodyParser(addr); err != nil {
		return view.BadRequest(c, err.Error())
	}
	if _, err := h.flow.SubmitAddress(c.UserContext(), *addr); err != nil {
		return h.fail(c, err, MsgOrderFailed)
	}
	return c.JSON(NewView(h.flow.Snapshot()))
}

func (h *Handler) back(c *fiber.Ctx) error {
	if err := h.flow.Back(); err != nil {
		return h.fail(c, err, "")
	}
	return c.JSON(NewView(h.flow.Snapshot()))
}

func (h *Handler) pay(c *fiber.Ctx) error {
	opts, err := h.flow.Pay(c.UserContext())
	if err != nil {
		return h.fail(c, err, MsgPaymentOrderFailed)
	}
	return c.JSON(fiber.Map{
		"checkout": NewView(h.flow.Snapshot()),
		"widget":   opts,
	})
}

func (h *Handler) paymentCallback(c *fiber.Ctx) error {
	completion := new(payment.Completion)
	if err := c.BodyParser(completion); err != nil {
		return view.BadRequest(c, err.Error())
	}
	if _, err := h.flow.Complete(c.UserContext(), *completion); err != nil {
		return h.fail(c, err, MsgVerificationFailed)
	}
	return c.JSON(NewView(h.flow.Snapshot()))
}

func (h *Handler) paymentFailed(c *fiber.Ctx) error {
	failure := new(payment.Failure)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(failure); err != nil {
			return view.BadRequest(c, err.Error())
		}
	}
	if err := h.flow.Fail(*failure); err != nil {
		return h.fail(c, err, "")
	}
	return c.Status(fiber.StatusOK).JSON(NewView(h.flow.Snapshot()))
}

func (h *Handler) reset(c *fiber.Ctx) error {
	if err := h.flow.Reset(); err != nil {
		return h.fail(c, err, "")
	}
	return c.JSON(NewView(h.flow.Snapshot()))
}

// fail reports a step error. Flow errors are conflicts with the current
// step; backend failures carry the step's alert.
func (h *Handler) fail(c *fiber.Ctx, err error, alert string) error {
	switch {
	case errors.Is(err, ErrBusy), errors.Is(err, ErrIllegalTransition),
		errors.Is(err, ErrNoPendingPayment), errors.Is(err, ErrPaymentMismatch),
		errors.Is(err, ErrRestarted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":  err.Error(),
			"checkout": NewView(h.flow.Snapshot()),
		})
	case errors.Is(err, order.ErrAddressIncomplete), errors.Is(err, payment.ErrIncompleteCallback):
		return view.BadRequest(c, err.Error())
	}
	if alert == "" {
		alert = view.Message(err, "Checkout failed.")
	}
	return view.Fail(c, err, alert)
}
