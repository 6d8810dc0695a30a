package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

// CurrentUserKey is the Locals key under which Protect stores the acting user
const CurrentUserKey = "currentUser"

// Protect validates the bearer token and loads the acting user into Locals.
// Every protected route sees a fully-populated *models.User.
func Protect(users *services.UserService, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("No auth token, access denied"))
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Invalid authorization header format"))
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Token verification failed, access denied"))
		}

		userId, ok := claims["id"].(string)
		if !ok || userId == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("User ID not found in token"))
		}

		userObjectID, err := primitive.ObjectIDFromHex(userId)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("Invalid user ID format"))
		}

		user, err := users.GetByID(c.Context(), userObjectID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.Fail("User no longer exists"))
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// AdminOnly rejects requests from non-admin users. Must run after Protect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(responses.Fail("Admin access required"))
		}
		return c.Next()
	}
}

// CurrentUser returns the acting user stored by Protect, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}
