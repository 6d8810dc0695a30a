package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "github.com/kkarimsherif/iron-forge/controllers/orders"
)

func OrderRoutes(app *fiber.App, ctl *orderController.Controller, protect, adminOnly fiber.Handler) {
	orders := app.Group("/api/orders", protect)

	orders.Post("/", ctl.Create)
	orders.Get("/", adminOnly, ctl.List)
	orders.Get("/my", ctl.ListMine)
	orders.Get("/:id", ctl.Get)
	orders.Patch("/:id/status", adminOnly, ctl.UpdateStatus)
	orders.Patch("/:id/payment", adminOnly, ctl.UpdatePayment)
	orders.Post("/:id/cancel", ctl.Cancel)
}
