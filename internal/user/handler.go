package user

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/storefront-console/internal/category"
	"github.com/wichananm65/storefront-console/internal/session"
	"github.com/wichananm65/storefront-console/internal/view"
)

// CategoryLister feeds the home page and header navigation.
type CategoryLister interface {
	List(ctx context.Context) ([]category.Category, error)
}

type Handler struct {
	service    *Service
	categories CategoryLister
	logger     *zap.Logger
}

func NewHandler(service *Service, categories CategoryLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, categories: categories, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/", h.home)
	app.Get("/login", h.loginForm)
	app.Post("/login", h.login)
	app.Get("/register", h.registerForm)
	app.Post("/register", h.register)
	app.Post("/logout", h.logout)
}

// Header is the signed-in state shown on every page.
type Header struct {
	SignedIn    bool   `json:"signedIn"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

// HeaderOf derives the header from the current session.
func HeaderOf(s session.Session) Header {
	h := Header{SignedIn: s.SignedIn(), DisplayName: "User", IsAdmin: s.Role == session.RoleAdmin}
	if s.Profile != nil && s.Profile.Firstname != "" {
		h.DisplayName = s.Profile.DisplayName()
	} else if s.DisplayName != "" {
		h.DisplayName = s.DisplayName
	}
	return h
}

type homeView struct {
	Header     Header             `json:"header"`
	Categories []category.NavItem `json:"categories"`
}

func (h *Handler) home(c *fiber.Ctx) error {
	items, err := h.categories.List(c.UserContext())
	if err != nil {
		h.logger.Warn("loading categories for home page failed", zap.Error(err))
		items = nil
	}
	return c.JSON(homeView{
		Header:     HeaderOf(h.service.sessions.Current()),
		Categories: category.NavItems(items),
	})
}

func (h *Handler) loginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": "login", "fields": []string{"email", "password"}})
}

func (h *Handler) registerForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"form": "register", "fields": []string{"firstname", "lastname", "email", "password"}})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(Credentials)
	if err := c.BodyParser(payload); err != nil {
		return view.BadRequest(c, err.Error())
	}

	resp, err := h.service.Login(c.UserContext(), *payload)
	if err != nil {
		h.logger.Info("login failed", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": MsgLoginFailed})
	}
	return view.Redirect(c, LandingPath(resp, h.service.sessions.Current().Role))
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(Registration)
	if err := c.BodyParser(payload); err != nil {
		return view.BadRequest(c, err.Error())
	}

	if _, err := h.service.Register(c.UserContext(), *payload); err != nil {
		h.logger.Info("registration failed", zap.Error(err))
		return view.BadRequest(c, MsgRegisterFailed)
	}
	return view.Redirect(c, "/")
}

func (h *Handler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "logout failed"})
	}
	return view.Redirect(c, "/login")
}
