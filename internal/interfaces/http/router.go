package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/application/store"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store        *store.Store
	Orchestrator Reprober
	Demo         *demo.Controller
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Estado de la integración y re-sondeo manual
	statusHandler := NewStatusHandler(deps.Orchestrator, deps.Demo)
	api.Get("/status", statusHandler.Get)
	api.Post("/status/reprobe", statusHandler.Reprobe)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Store)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Sales
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.Store)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Post("/:id/cancel", saleHandler.Cancel)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Store)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Delete("/:id", categoryHandler.Delete)

	// Goals (upsert por mes y año)
	goals := api.Group("/goals")
	goalHandler := NewGoalHandler(deps.Store)
	goals.Put("/", goalHandler.Upsert)
	goals.Get("/", goalHandler.List)

	// Cash movements
	cash := api.Group("/cash-movements")
	cashHandler := NewCashHandler(deps.Store)
	cash.Post("/", cashHandler.Create)
	cash.Get("/", cashHandler.List)

	// Working capital
	capital := api.Group("/working-capital")
	capitalHandler := NewCapitalHandler(deps.Store)
	capital.Get("/", capitalHandler.Get)
	capital.Put("/", capitalHandler.Configure)

	// Reports
	reportHandler := NewReportHandler(deps.Store)
	api.Get("/reports/summary", reportHandler.Summary)
}
