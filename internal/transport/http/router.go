package http

import (
	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/handler"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	User     *handler.UserHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public storefront.
	app.Get("/products", h.Catalog.ListProducts)
	app.Get("/products/:slug", h.Catalog.GetProductBySlug)
	app.Get("/categories", h.Catalog.ListCategories)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.Refresh)

	// Provider server-to-server callback, authenticated by signature.
	app.Post("/payment/callback", h.Checkout.Callback)

	api := app.Group("/api", middleware.NewAuthMiddleware())
	api.Get("/me", h.Auth.GetMe)

	cart := api.Group("/cart")
	cart.Get("", h.Cart.GetCart)
	cart.Post("/items", h.Cart.AddLine)
	cart.Put("/items/:key", h.Cart.SetQuantity)
	cart.Delete("/items/:key", h.Cart.RemoveLine)
	cart.Delete("", h.Cart.Clear)

	api.Post("/checkout", h.Checkout.Checkout)

	orders := api.Group("/orders")
	orders.Get("", h.Order.ListMyOrders)
	orders.Get("/:id", h.Order.GetMyOrder)

	admin := api.Group("/admin", middleware.NewRequireRole(domain.RoleAdmin))

	adminProducts := admin.Group("/products")
	adminProducts.Get("", h.Catalog.AdminListProducts)
	adminProducts.Post("", h.Catalog.CreateProduct)
	adminProducts.Put("/:id", h.Catalog.UpdateProduct)
	adminProducts.Put("/:id/stock", h.Catalog.SetStock)
	adminProducts.Delete("/:id", h.Catalog.DeleteProduct)

	adminCategories := admin.Group("/categories")
	adminCategories.Post("", h.Catalog.CreateCategory)
	adminCategories.Put("/:id", h.Catalog.UpdateCategory)
	adminCategories.Delete("/:id", h.Catalog.DeleteCategory)

	adminOrders := admin.Group("/orders")
	adminOrders.Get("", h.Order.AdminListOrders)
	adminOrders.Get("/:id", h.Order.AdminGetOrder)
	adminOrders.Put("/:id/status", h.Order.AdminUpdateStatus)

	adminUsers := admin.Group("/users")
	adminUsers.Get("", h.User.List)
	adminUsers.Put("/:id/roles", h.User.UpdateRoles)
	adminUsers.Put("/:id/active", h.User.SetActive)
}
