// Package router assembles the console: every page's routes, the admin guard
// and the request logging middleware.
package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/admin"
	"github.com/wichananm65/storefront-console/internal/apiclient"
	"github.com/wichananm65/storefront-console/internal/cart"
	"github.com/wichananm65/storefront-console/internal/category"
	"github.com/wichananm65/storefront-console/internal/checkout"
	"github.com/wichananm65/storefront-console/internal/order"
	"github.com/wichananm65/storefront-console/internal/payment"
	"github.com/wichananm65/storefront-console/internal/product"
	"github.com/wichananm65/storefront-console/internal/session"
	"github.com/wichananm65/storefront-console/internal/shipment"
	"github.com/wichananm65/storefront-console/internal/user"
)

// Deps is everything the console needs from main.
type Deps struct {
	API          apiclient.API
	Sessions     *session.Manager
	Checkout     checkout.Config
	AllowOrigins string
	Logger       *zap.Logger
}

const HeaderRequestID = "X-Request-ID"

func New(d Deps) *fiber.App {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(d.AllowOrigins),
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	categories := category.NewService(d.API)
	products := product.NewService(d.API)
	carts := cart.NewService(d.API)
	orders := order.NewService(d.API)
	payments := payment.NewService(d.API)
	shipments := shipment.NewService(d.API)

	user.NewHandler(user.NewService(d.API, d.Sessions, logger), categories, logger).RegisterPublicRoutes(app)
	category.NewHandler(categories).RegisterPublicRoutes(app)
	product.NewHandler(products, categories, carts, d.Sessions).RegisterPublicRoutes(app)
	flow := checkout.NewFlow(orders, payments, d.Checkout, logger)
	d.Sessions.OnChange(flow.Abandon)
	cart.NewHandler(carts, d.Sessions).WithCheckout(flow).RegisterRoutes(app)
	order.NewHandler(orders).RegisterRoutes(app)
	checkout.NewHandler(flow).RegisterRoutes(app)

	app.Use(Guard(d.Sessions, logger))
	admin.NewHandler(orders, shipments, categories, products, logger).RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Redirect("/", fiber.StatusFound)
	})
	return app
}

// Guard sends visitors without an admin token away from the admin pages.
// Other paths pass through; the backend still authorizes every call.
func Guard(tokens apiclient.TokenSource, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !strings.HasPrefix(c.Path(), admin.Prefix) {
			return c.Next()
		}
		d := session.Authorize(tokens.Token(), session.RoleAdmin)
		if d == session.Allow {
			return c.Next()
		}
		logger.Info("admin page refused",
			zap.String("path", c.Path()),
			zap.String("redirect", d.Target()),
		)
		return c.Redirect(d.Target(), fiber.StatusFound)
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)

		err := c.Next()
		logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}

func allowOrigins(v string) string {
	if strings.TrimSpace(v) == "" {
		return "*"
	}
	return v
}
