package routes

import (
	"github.com/gofiber/fiber/v2"

	cartController "github.com/kkarimsherif/iron-forge/controllers/cart"
)

func CartRoutes(app *fiber.App, ctl *cartController.Controller, protect fiber.Handler) {
	cart := app.Group("/api/cart", protect)

	cart.Get("/", ctl.Get)
	cart.Post("/items", ctl.AddItem)
	cart.Patch("/items/:productId", ctl.UpdateItem)
	cart.Delete("/items/:productId", ctl.RemoveItem)
	cart.Delete("/clear", ctl.Clear)
}
