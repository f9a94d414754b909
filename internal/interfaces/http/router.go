package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *usecase.OrderUseCase
	AuthUC     *auth.AuthUseCase
	Pagination listing.Pagination
	AppName    string
}

// Router registra las rutas de la API. Con StrictRouting desactivado (default de
// Fiber) cada ruta responde con y sin barra final.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/users/", authHandler.Register)
	app.Post("/token/", authHandler.ObtainToken)
	app.Post("/token/refresh/", authHandler.RefreshToken)

	// Categories: lectura y alta públicas, borrado protegido
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Pagination)
	categories := app.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id/", categoryHandler.GetByID)
	categories.Delete("/:id/", requireAuth, categoryHandler.Delete)

	// Products (protegido)
	productHandler := NewProductHandler(deps.ProductUC, deps.Pagination)
	products := app.Group("/products", requireAuth)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id/", productHandler.GetByID)
	products.Put("/:id/", productHandler.Update)
	products.Patch("/:id/", productHandler.Patch)
	products.Delete("/:id/", productHandler.Delete)

	// Orders (protegido)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Pagination)
	app.Post("/order/", requireAuth, orderHandler.Create)
	app.Get("/orders/history/", requireAuth, orderHandler.History)
}
