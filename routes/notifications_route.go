package routes

import (
	"github.com/gofiber/fiber/v2"

	notificationController "github.com/kkarimsherif/iron-forge/controllers/notifications"
)

func NotificationRoutes(app *fiber.App, ctl *notificationController.Controller, protect, adminOnly fiber.Handler) {
	notifications := app.Group("/api/notifications", protect)

	notifications.Get("/", ctl.List)
	notifications.Get("/unread-count", ctl.UnreadCount)
	notifications.Patch("/mark-all-read", ctl.MarkAllAsRead)
	notifications.Patch("/:id/read", ctl.MarkAsRead)
	notifications.Delete("/read", ctl.DeleteRead)
	notifications.Delete("/:id", ctl.Delete)

	notifications.Post("/broadcast", adminOnly, ctl.Broadcast)
	notifications.Post("/cleanup", adminOnly, ctl.Cleanup)
}
