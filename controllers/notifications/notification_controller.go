package notificationController

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

type Controller struct {
	notifications *services.NotificationService
	users         *services.UserService
}

func NewController(notifications *services.NotificationService, users *services.UserService) *Controller {
	return &Controller{notifications: notifications, users: users}
}

// BroadcastRequest holds a notification template sent to every user, or to
// every user with a given role.
type BroadcastRequest struct {
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	Priority      string `json:"priority"`
	Role          string `json:"role"`
	ExpiresInDays int    `json:"expiresInDays"`
}

func (r *BroadcastRequest) Validate() error {
	if r.Title == "" || r.Message == "" {
		return services.Validationf("title and message are required")
	}
	if r.Type == "" {
		r.Type = models.NotificationSystem
	}
	if !models.ValidNotificationType(r.Type) {
		return services.Validationf("unknown notification type %q", r.Type)
	}
	if r.Priority != "" && !models.ValidPriority(r.Priority) {
		return services.Validationf("unknown priority %q", r.Priority)
	}
	return nil
}

// CleanupRequest holds the criteria for deleting old notifications
type CleanupRequest struct {
	OlderThanDays int    `json:"olderThanDays"`
	ReadOnly      bool   `json:"readOnly"`
	Type          string `json:"type"`
}

// List handles GET /api/notifications
func (ctl *Controller) List(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	filter := services.NotificationFilter{
		Type:           c.Query("type"),
		Priority:       c.Query("priority"),
		IncludeExpired: c.Query("includeExpired") == "true",
	}
	if v := c.Query("read"); v == "true" || v == "false" {
		read := v == "true"
		filter.Read = &read
	}
	filter.Page, _ = strconv.ParseInt(c.Query("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	page, err := ctl.notifications.List(c.Context(), user.Id, filter)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(page))
}

// UnreadCount handles GET /api/notifications/unread-count
func (ctl *Controller) UnreadCount(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	count, err := ctl.notifications.UnreadCount(c.Context(), user.Id)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"unreadCount": count}))
}

// MarkAsRead handles PATCH /api/notifications/:id/read
func (ctl *Controller) MarkAsRead(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid notification id"))
	}

	notification, err := ctl.notifications.MarkAsRead(c.Context(), id, user)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"notification": notification}))
}

// MarkAllAsRead handles PATCH /api/notifications/mark-all-read
func (ctl *Controller) MarkAllAsRead(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	modified, err := ctl.notifications.MarkAllAsRead(c.Context(), user.Id, c.Query("type"))
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage(
		"Marked "+strconv.FormatInt(modified, 10)+" notifications as read",
		fiber.Map{"modifiedCount": modified}))
}

// Delete handles DELETE /api/notifications/:id
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid notification id"))
	}

	if err := ctl.notifications.Delete(c.Context(), id, user); err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage("Notification deleted", nil))
}

// DeleteRead handles DELETE /api/notifications/read
func (ctl *Controller) DeleteRead(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	deleted, err := ctl.notifications.DeleteRead(c.Context(), user.Id, c.Query("type"))
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage(
		"Deleted "+strconv.FormatInt(deleted, 10)+" read notifications",
		fiber.Map{"deletedCount": deleted}))
}

// Broadcast handles POST /api/notifications/broadcast (admin)
func (ctl *Controller) Broadcast(c *fiber.Ctx) error {
	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	userIDs, err := ctl.users.ListIDs(c.Context(), req.Role)
	if err != nil {
		return responses.Error(c, err)
	}
	if len(userIDs) == 0 {
		return responses.Error(c, services.ErrUserNotFound)
	}

	input := services.NotificationInput{
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Priority: req.Priority,
	}
	if req.ExpiresInDays > 0 {
		expiresAt := time.Now().AddDate(0, 0, req.ExpiresInDays)
		input.ExpiresAt = &expiresAt
	}

	created, err := ctl.notifications.SendBulk(c.Context(), userIDs, input)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.OKMessage(
		"Successfully created "+strconv.Itoa(created)+" notifications",
		fiber.Map{"count": created}))
}

// Cleanup handles POST /api/notifications/cleanup (admin)
func (ctl *Controller) Cleanup(c *fiber.Ctx) error {
	var req CleanupRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}

	deleted, err := ctl.notifications.Cleanup(c.Context(), req.OlderThanDays, req.ReadOnly, req.Type)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage(
		"Deleted "+strconv.FormatInt(deleted, 10)+" old notifications",
		fiber.Map{"deletedCount": deleted}))
}
