package responses

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kkarimsherif/iron-forge/services"
)

// Error translates a service error into the envelope with the right HTTP
// status. Unknown errors are logged and returned as a generic 500.
func Error(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case services.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(Fail(err.Error()))
	case errors.As(err, &verr),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusBadRequest).JSON(Fail(err.Error()))
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(Fail(err.Error()))
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(Fail(err.Error()))
	default:
		zap.L().Error("unhandled service error",
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(Fail("Something went wrong"))
	}
}
