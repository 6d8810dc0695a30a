package routes

import (
	"github.com/gofiber/fiber/v2"

	productController "github.com/kkarimsherif/iron-forge/controllers/products"
)

func ProductRoutes(app *fiber.App, ctl *productController.Controller, protect, adminOnly fiber.Handler) {
	products := app.Group("/api/products")

	products.Get("/", ctl.List)
	products.Get("/:id", ctl.Get)

	products.Post("/", protect, adminOnly, ctl.Create)
	products.Patch("/:id", protect, adminOnly, ctl.Update)
	products.Delete("/:id", protect, adminOnly, ctl.Delete)
}
