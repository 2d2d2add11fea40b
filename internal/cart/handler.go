package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/view"
)

// Handler serves the cart page. Mutations replace the shown cart with the
// one returned by the backend.
type Handler struct {
	service  *Service
	tokens   apiclient.TokenSource
	starter  CheckoutStarter
}

// CheckoutStarter is told when the cart is handed over to checkout.
type CheckoutStarter interface {
	Restart() bool
}

func NewHandler(s *Service, tokens apiclient.TokenSource) *Handler {
	return &Handler{service: s, tokens: tokens}
}

// WithCheckout makes "proceed to checkout" start a fresh checkout.
func (h *Handler) WithCheckout(c CheckoutStarter) *Handler {
	h.starter = c
	return h
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/cart", h.getCart)
	app.Put("/cart/items/:productId", h.updateItem)
	app.Delete("/cart/items/:productId", h.removeItem)
	app.Post("/cart/checkout", h.checkout)
}

type ItemView struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type View struct {
	Items   []ItemView `json:"items"`
	Total   string     `json:"total"`
	Empty   bool       `json:"empty"`
	Message string     `json:"message,omitempty"`
}

// NewView shapes a cart for display.
func NewView(c Cart) View {
	v := View{Items: make([]ItemView, 0, len(c.Items)), Total: view.Rupees(c.TotalPrice), Empty: c.Empty()}
	for _, it := range c.Items {
		v.Items = append(v.Items, ItemView{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     view.Rupees(it.Price),
			Quantity:  it.Quantity,
			LineTotal: view.Rupees(it.LineTotal()),
		})
	}
	if v.Empty {
		v.Message = MsgEmptyView
	}
	return v
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	if h.tokens.Token() == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": MsgLoginRequired})
	}
	cart, err := h.service.Get(c.UserContext())
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Failed to load cart."))
	}
	return c.JSON(NewView(cart))
}

type quantityRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil {
		return view.BadRequest(c, ErrInvalidProduct.Error())
	}
	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return view.BadRequest(c, err.Error())
	}

	cart, err := h.service.UpdateQuantity(c.UserContext(), productID, payload.Quantity)
	if err != nil {
		return itemFailure(c, err, productID, "Failed to update quantity.")
	}
	return c.JSON(NewView(cart))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil {
		return view.BadRequest(c, ErrInvalidProduct.Error())
	}
	cart, err := h.service.Remove(c.UserContext(), productID)
	if err != nil {
		return itemFailure(c, err, productID, "Failed to remove item.")
	}
	return c.JSON(NewView(cart))
}

// itemFailure reports an error against a single cart line.
func itemFailure(c *fiber.Ctx, err error, productID int64, fallback string) error {
	return c.Status(view.Status(err)).JSON(fiber.Map{
		"message":   view.Message(err, fallback),
		"productId": productID,
	})
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	if h.tokens.Token() == "" {
		return view.Redirect(c, "/login")
	}
	cart, err := h.service.Get(c.UserContext())
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Failed to load cart."))
	}
	if cart.Empty() {
		return view.BadRequest(c, MsgEmpty)
	}
	if h.starter != nil {
		h.starter.Restart()
	}
	return view.Redirect(c, "/checkout")
}
