package product

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/cart"
	"github.com/wichananm65/storefront-console/internal/category"
	"github.com/wichananm65/storefront-console/internal/view"
)

const placeholderImage = "https://placehold.co/600x600/f0f0f0/333?text=No+Image"

// Handler serves the catalog pages.
type Handler struct {
	products   *Service
	categories *category.Service
	cart       *cart.Service
	tokens     apiclient.TokenSource
}

func NewHandler(products *Service, categories *category.Service, carts *cart.Service, tokens apiclient.TokenSource) *Handler {
	return &Handler{products: products, categories: categories, cart: carts, tokens: tokens}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/category/:categoryId", h.getCategoryPage)
	app.Get("/product/:productId", h.getProduct)
	app.Post("/product/:productId/cart", h.addToCart)
}

type Card struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
}

func cardOf(p Product) Card {
	return Card{
		ID:       p.ID,
		Name:     p.Name,
		Price:    view.Rupees(p.Price),
		ImageURL: imageOf(p),
		Link:     "/product/" + strconv.FormatInt(p.ID, 10),
	}
}

type CategoryPage struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Banner      string `json:"banner,omitempty"`
	Products    []Card `json:"products"`
}

// getCategoryPage loads the category and its products together and renders
// only when both arrive.
func (h *Handler) getCategoryPage(c *fiber.Ctx) error {
	categoryID, err := strconv.ParseInt(c.Params("categoryId"), 10, 64)
	if err != nil || categoryID <= 0 {
		return view.BadRequest(c, category.ErrInvalidID.Error())
	}

	var (
		cat   category.Category
		items []Product
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		var err error
		cat, err = h.categories.Get(ctx, categoryID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = h.products.ListByCategory(ctx, categoryID)
		return err
	})
	if err := g.Wait(); err != nil {
		return view.Fail(c, err, view.Message(err, "Failed to load products."))
	}

	page := CategoryPage{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Products:    make([]Card, 0, len(items)),
	}
	if cat.HasBanner() {
		page.Banner = cat.BannerImageURL
	}
	for _, p := range items {
		page.Products = append(page.Products, cardOf(p))
	}
	return c.JSON(page)
}

type Detail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
	InStock     bool   `json:"inStock"`
	Quantity    int    `json:"quantity"`
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil {
		return view.BadRequest(c, ErrInvalidID.Error())
	}
	p, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Product not found."))
	}
	return c.JSON(Detail{
		ID:          p.ID,
		Name:        p.Name,
		Price:       view.Rupees(p.Price),
		Description: p.Description,
		ImageURL:    imageOf(p),
		Stock:       p.Stock,
		InStock:     p.InStock(),
		Quantity:    1,
	})
}

type addToCartRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	if h.tokens.Token() == "" {
		return view.Redirect(c, "/login")
	}
	id, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	if err != nil {
		return view.BadRequest(c, ErrInvalidID.Error())
	}
	payload := new(addToCartRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return view.BadRequest(c, err.Error())
		}
	}
	qty := cart.ClampQuantity(payload.Quantity)

	p, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Product not found."))
	}
	updated, err := h.cart.Add(c.UserContext(), p.ID, qty)
	if err != nil {
		return view.Fail(c, err, view.Message(err, "Failed to add to cart."))
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%d x %s added to cart!", qty, p.Name),
		"cart":    cart.NewView(updated),
	})
}

func imageOf(p Product) string {
	if p.ImageURL == "" {
		return placeholderImage
	}
	return p.ImageURL
}
