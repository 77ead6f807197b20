package dashboard

import (
	"bytes"
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/media"
)

// Controller exposes the dashboard services as a JSON API. Every route it
// mounts is expected to sit behind the protected-route guard.
type Controller struct {
	Logger       Logger
	Products     *Products
	Orders       *Orders
	Payments     *Payments
	Customers    *Customers
	Uploader     media.Uploader
	ErrorHandler router.ErrorHandler
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(l Logger) ControllerOption {
	return func(c *Controller) *Controller {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithUploader(u media.Uploader) ControllerOption {
	return func(c *Controller) *Controller {
		c.Uploader = u
		return c
	}
}

func WithErrorHandler(h router.ErrorHandler) ControllerOption {
	return func(c *Controller) *Controller {
		if h != nil {
			c.ErrorHandler = h
		}
		return c
	}
}

func NewController(products *Products, orders *Orders, payments *Payments, customers *Customers, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:    noopLogger{},
		Products:  products,
		Orders:    orders,
		Payments:  payments,
		Customers: customers,
		ErrorHandler: func(ctx router.Context, err error) error {
			return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		},
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return c
}

// RegisterRoutes mounts the dashboard endpoints.
func RegisterRoutes[T any](app router.Router[T], c *Controller) {
	app.Get("/products", c.ProductList).SetName("products.list")
	app.Get("/products/:id", c.ProductGet).SetName("products.get")
	app.Post("/products", c.ProductCreate).SetName("products.create")
	app.Put("/products/:id", c.ProductUpdate).SetName("products.update")
	app.Delete("/products/:id", c.ProductDelete).SetName("products.delete")

	app.Get("/orders", c.OrderList).SetName("orders.list")
	app.Get("/orders/:id", c.OrderGet).SetName("orders.get")
	app.Put("/orders/:id", c.OrderUpdate).SetName("orders.update")

	app.Get("/payments", c.PaymentList).SetName("payments.list")
	app.Get("/payments/:id", c.PaymentGet).SetName("payments.get")
	app.Put("/payments/:id", c.PaymentUpdate).SetName("payments.update")

	app.Get("/customers", c.CustomerList).SetName("customers.list")
	app.Get("/customers/:id", c.CustomerGet).SetName("customers.get")
	app.Put("/customers/:id", c.CustomerUpdate).SetName("customers.update")
	app.Delete("/customers/:id", c.CustomerDelete).SetName("customers.delete")

	if c.Uploader != nil {
		app.Post("/uploads", c.Upload).SetName("uploads.create")
	}
}

// Upload pushes the raw request body to the asset host and returns the
// hosted URL. The filename rides in the query string; the host derives the
// format from the content.
func (c *Controller) Upload(ctx router.Context) error {
	body := ctx.Body()
	if len(body) == 0 {
		return c.fail(ctx, errors.New("empty upload body", errors.CategoryBadInput).
			WithTextCode("EMPTY_UPLOAD"))
	}

	result, err := c.Uploader.Upload(ctx.Context(), media.Upload{
		Filename: ctx.Query("filename", "upload"),
		Body:     bytes.NewReader(body),
	})
	if err != nil {
		c.Logger.Error("upload failed: %v", err)
		return c.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{"upload": result})
}

func (c *Controller) fail(ctx router.Context, err error) error {
	if docstore.IsNotFound(err) {
		err = errors.Wrap(err, errors.CategoryNotFound, "record not found").
			WithTextCode("NOT_FOUND")
	}
	return c.ErrorHandler(ctx, err)
}

func (c *Controller) ProductList(ctx router.Context) error {
	out, err := c.Products.List(ctx.Context(), ctx.Query("search", ""))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"products": out})
}

func (c *Controller) ProductGet(ctx router.Context) error {
	out, err := c.Products.Get(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"product": out})
}

func (c *Controller) ProductCreate(ctx router.Context) error {
	payload := new(ProductInput)
	if err := ctx.Bind(payload); err != nil {
		return c.fail(ctx, err)
	}

	out, err := c.Products.Create(ctx.Context(), *payload)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]any{"product": out})
}

func (c *Controller) ProductUpdate(ctx router.Context) error {
	payload := new(ProductInput)
	if err := ctx.Bind(payload); err != nil {
		return c.fail(ctx, err)
	}

	out, err := c.Products.Update(ctx.Context(), ctx.Param("id"), *payload)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"product": out})
}

func (c *Controller) ProductDelete(ctx router.Context) error {
	if err := c.Products.Delete(ctx.Context(), ctx.Param("id")); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (c *Controller) OrderList(ctx router.Context) error {
	out, err := c.Orders.List(ctx.Context(), ctx.Query("tab", TabAll), ctx.Query("search", ""))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"orders": out})
}

func (c *Controller) OrderGet(ctx router.Context) error {
	out, err := c.Orders.Get(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"order": out})
}

func (c *Controller) OrderUpdate(ctx router.Context) error {
	payload := new(OrderUpdate)
	if err := ctx.Bind(payload); err != nil {
		return c.fail(ctx, err)
	}

	out, err := c.Orders.Update(ctx.Context(), ctx.Param("id"), *payload)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"order": out})
}

func (c *Controller) PaymentList(ctx router.Context) error {
	out, err := c.Payments.List(ctx.Context(), ctx.Query("tab", TabAll), ctx.Query("search", ""))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"payments": out})
}

func (c *Controller) PaymentGet(ctx router.Context) error {
	out, err := c.Payments.Get(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"payment": out})
}

func (c *Controller) PaymentUpdate(ctx router.Context) error {
	payload := new(PaymentUpdate)
	if err := ctx.Bind(payload); err != nil {
		return c.fail(ctx, err)
	}

	out, err := c.Payments.Update(ctx.Context(), ctx.Param("id"), *payload)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"payment": out})
}

func (c *Controller) CustomerList(ctx router.Context) error {
	out, err := c.Customers.List(ctx.Context(), ctx.Query("tab", TabAll), ctx.Query("search", ""))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"customers": out})
}

func (c *Controller) CustomerGet(ctx router.Context) error {
	out, err := c.Customers.Get(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"customer": out})
}

func (c *Controller) CustomerUpdate(ctx router.Context) error {
	payload := new(CustomerUpdate)
	if err := ctx.Bind(payload); err != nil {
		return c.fail(ctx, err)
	}

	out, err := c.Customers.Update(ctx.Context(), ctx.Param("id"), *payload)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{"customer": out})
}

func (c *Controller) CustomerDelete(ctx router.Context) error {
	if err := c.Customers.Delete(ctx.Context(), ctx.Param("id")); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
