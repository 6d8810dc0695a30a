package routes

import (
	"github.com/gofiber/fiber/v2"

	userController "github.com/kkarimsherif/iron-forge/controllers/user"
)

func UserRoutes(app *fiber.App, ctl *userController.Controller, protect fiber.Handler) {
	app.Post("/api/auth/signup", ctl.Signup)
	app.Post("/api/auth/login", ctl.Login)

	users := app.Group("/api/users", protect)
	users.Get("/me", ctl.Me)
	users.Patch("/me", ctl.UpdateMe)
}
