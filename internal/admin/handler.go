package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/storefront-console/internal/category"
	"github.com/wichananm65/storefront-console/internal/order"
	"github.com/wichananm65/storefront-console/internal/product"
	"github.com/wichananm65/storefront-console/internal/shipment"
	"github.com/wichananm65/storefront-console/internal/view"
)

const (
	MsgConfirmDeleteCategory = "Are you sure you want to delete this category?"
	MsgConfirmDeleteProduct  = "Are you sure you want to delete this product?"
	MsgOrdersFailed          = "Failed to load orders."
	MsgShipmentsFailed       = "Failed to load shipments."
	MsgSaveFailed            = "Failed to save."
	MsgDeleteFailed          = "Failed to delete."
)

type Handler struct {
	orders     *order.Service
	shipments  *shipment.Service
	categories *Manager[category.Category, category.Form]
	products   *Manager[product.Product, product.Form]
	logger     *zap.Logger
}

func NewHandler(orders *order.Service, shipments *shipment.Service, categories *category.Service, products *product.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orders:     orders,
		shipments:  shipments,
		categories: NewManager[category.Category, category.Form](categories),
		products:   NewManager[product.Product, product.Form](products),
		logger:     logger,
	}
}

// Prefix is the path every admin route lives under.
const Prefix = "/admin-dashboard"

func (h *Handler) RegisterRoutes(app *fiber.App) {
	g := app.Group(Prefix)
	g.Get("/", h.dashboard)
	g.Get("/orders", h.listOrders)
	g.Get("/orders/export", h.exportOrders)
	g.Get("/shipments", h.listShipments)

	g.Get("/categories", h.listCategories)
	g.Post("/categories", h.createCategory)
	g.Put("/categories/:id", h.updateCategory)
	g.Delete("/categories/:id", h.deleteCategory)

	g.Get("/products", h.listProducts)
	g.Post("/products", h.createProduct)
	g.Put("/products/:id", h.updateProduct)
	g.Delete("/products/:id", h.deleteProduct)
}

func (h *Handler) dashboard(c *fiber.Ctx) error {
	switch ParseTab(c.Query("tab")) {
	case TabProducts:
		return h.listProducts(c)
	case TabCategories:
		return h.listCategories(c)
	case TabShipments:
		return h.listShipments(c)
	default:
		return h.listOrders(c)
	}
}

// OrdersView is the orders tab.
type OrdersView struct {
	Tab      Tab            `json:"tab"`
	Tabs     []Tab          `json:"tabs"`
	Query    string         `json:"q"`
	Status   order.Status   `json:"status"`
	Statuses []order.Status `json:"statuses"`
	Rows     []order.Row    `json:"rows"`
	Total    int            `json:"total"`
}

var statuses = []order.Status{
	order.StatusAll, order.StatusPending, order.StatusPaid,
	order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
}

func filterOf(c *fiber.Ctx) order.Filter {
	status := order.Status(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	if status == "" {
		status = order.StatusAll
	}
	return order.Filter{Status: status, Query: c.Query("q")}
}

func (h *Handler) filteredOrders(c *fiber.Ctx) (order.Filter, []order.Order, int, error) {
	f := filterOf(c)
	all, err := h.orders.ListAll(c.UserContext())
	if err != nil {
		return f, nil, 0, err
	}
	return f, f.Apply(all), len(all), nil
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	f, orders, total, err := h.filteredOrders(c)
	if err != nil {
		h.logger.Warn("loading orders failed", zap.Error(err))
		return view.Fail(c, err, MsgOrdersFailed)
	}
	return c.JSON(OrdersView{
		Tab:      TabOrders,
		Tabs:     Tabs,
		Query:    f.Query,
		Status:   f.Status,
		Statuses: statuses,
		Rows:     order.Rows(orders),
		Total:    total,
	})
}

var exportHeaders = []string{"#", "Order ID", "Customer", "Phone", "Address", "Items", "Total", "Status", "Date"}

func (h *Handler) exportOrders(c *fiber.Ctx) error {
	_, orders, _, err := h.filteredOrders(c)
	if err != nil {
		h.logger.Warn("loading orders for export failed", zap.Error(err))
		return view.Fail(c, err, MsgOrdersFailed)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create Excel sheet"})
	}
	header := sheet.AddRow()
	for _, name := range exportHeaders {
		header.AddCell().SetValue(name)
	}
	for _, r := range order.Rows(orders) {
		row := sheet.AddRow()
		row.AddCell().SetValue(r.Index)
		row.AddCell().SetValue(r.ID)
		row.AddCell().SetValue(r.Customer)
		row.AddCell().SetValue(r.Phone)
		row.AddCell().SetValue(r.Address)
		row.AddCell().SetValue(r.Items)
		row.AddCell().SetValue(r.Total)
		row.AddCell().SetValue(string(r.Status))
		row.AddCell().SetValue(r.Date)
	}

	c.Set(fiber.HeaderContentDisposition, "attachment; filename=orders.xlsx")
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Response().BodyWriter()); err != nil {
		h.logger.Error("writing orders export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to write Excel file"})
	}
	return nil
}

func (h *Handler) listShipments(c *fiber.Ctx) error {
	items, err := h.shipments.List(c.UserContext())
	if err != nil {
		h.logger.Warn("loading shipments failed", zap.Error(err))
		return view.Fail(c, err, MsgShipmentsFailed)
	}
	return c.JSON(fiber.Map{"tab": TabShipments, "tabs": Tabs, "shipments": shipment.Cards(items)})
}

// CategoriesView is the categories tab.
type CategoriesView struct {
	Tab        Tab                 `json:"tab"`
	Tabs       []Tab               `json:"tabs"`
	Categories []category.Category `json:"categories"`
	Form       category.Form       `json:"form"`
}

func categoriesView(items []category.Category) CategoriesView {
	return CategoriesView{
		Tab:        TabCategories,
		Tabs:       Tabs,
		Categories: items,
		Form:       category.Form{LayoutType: string(category.LayoutSquare)},
	}
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	items, err := h.categories.Load(c.UserContext())
	if err != nil {
		return view.Fail(c, err, "Failed to load categories.")
	}
	return c.JSON(categoriesView(items))
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	return h.saveCategory(c, 0)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return view.BadRequest(c, category.ErrInvalidID.Error())
	}
	return h.saveCategory(c, id)
}

func (h *Handler) saveCategory(c *fiber.Ctx, id int64) error {
	form := new(category.Form)
	if err := c.BodyParser(form); err != nil {
		return view.BadRequest(c, err.Error())
	}
	items, err := h.categories.Save(c.UserContext(), id, *form)
	if err != nil {
		h.logger.Info("saving category failed", zap.Int64("id", id), zap.Error(err))
		return view.Fail(c, err, MsgSaveFailed)
	}
	return c.Status(savedStatus(id)).JSON(categoriesView(items))
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return view.BadRequest(c, category.ErrInvalidID.Error())
	}
	items, err := h.categories.Delete(c.UserContext(), id, c.QueryBool("confirm"))
	if errors.Is(err, ErrConfirmationRequired) {
		return confirm(c, MsgConfirmDeleteCategory)
	}
	if err != nil {
		h.logger.Info("deleting category failed", zap.Int64("id", id), zap.Error(err))
		return view.Fail(c, err, MsgDeleteFailed)
	}
	return c.JSON(categoriesView(items))
}

// ProductsView is the products tab.
type ProductsView struct {
	Tab        Tab                 `json:"tab"`
	Tabs       []Tab               `json:"tabs"`
	Products   []product.Product   `json:"products"`
	Categories []category.Category `json:"categories"`
	Form       product.Form        `json:"form"`
}

// productsView loads products and categories together. The editor's category
// defaults to the first category.
func (h *Handler) productsView(c *fiber.Ctx, products []product.Product) (ProductsView, error) {
	var categories []category.Category
	g, ctx := errgroup.WithContext(c.UserContext())
	if products == nil {
		g.Go(func() error {
			var err error
			products, err = h.products.Load(ctx)
			return err
		})
	}
	g.Go(func() error {
		var err error
		categories, err = h.categories.Load(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ProductsView{}, err
	}

	v := ProductsView{Tab: TabProducts, Tabs: Tabs, Products: products, Categories: categories}
	if len(categories) > 0 {
		v.Form.CategoryID = strconv.FormatInt(categories[0].ID, 10)
	}
	return v, nil
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	v, err := h.productsView(c, nil)
	if err != nil {
		return view.Fail(c, err, "Failed to load products.")
	}
	return c.JSON(v)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	return h.saveProduct(c, 0)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return view.BadRequest(c, product.ErrInvalidID.Error())
	}
	return h.saveProduct(c, id)
}

func (h *Handler) saveProduct(c *fiber.Ctx, id int64) error {
	form := new(product.Form)
	if err := c.BodyParser(form); err != nil {
		return view.BadRequest(c, err.Error())
	}
	items, err := h.products.Save(c.UserContext(), id, *form)
	if err != nil {
		var fe product.FieldErrors
		if errors.As(err, &fe) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fe})
		}
		h.logger.Info("saving product failed", zap.Int64("id", id), zap.Error(err))
		return view.Fail(c, err, MsgSaveFailed)
	}
	v, err := h.productsView(c, items)
	if err != nil {
		return view.Fail(c, err, "Failed to load products.")
	}
	return c.Status(savedStatus(id)).JSON(v)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return view.BadRequest(c, product.ErrInvalidID.Error())
	}
	items, err := h.products.Delete(c.UserContext(), id, c.QueryBool("confirm"))
	if errors.Is(err, ErrConfirmationRequired) {
		return confirm(c, MsgConfirmDeleteProduct)
	}
	if err != nil {
		h.logger.Info("deleting product failed", zap.Int64("id", id), zap.Error(err))
		return view.Fail(c, err, MsgDeleteFailed)
	}
	v, err := h.productsView(c, items)
	if err != nil {
		return view.Fail(c, err, "Failed to load products.")
	}
	return c.JSON(v)
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func savedStatus(id int64) int {
	if id == 0 {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}

func confirm(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusPreconditionRequired).JSON(fiber.Map{"message": msg, "confirm": true})
}
