package cartController

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/models"
)

func TestUpdateItemRequestValidate(t *testing.T) {
	var req UpdateItemRequest
	assert.Error(t, req.Validate(), "absent quantity must be rejected")

	// zero is a valid value and removes the line
	zero := 0
	req.Quantity = &zero
	assert.NoError(t, req.Validate())
}

func TestUpdateItemRejectsBodyWithoutQuantity(t *testing.T) {
	ctl := NewController(nil)
	app := fiber.New()
	app.Patch("/api/cart/items/:productId", func(c *fiber.Ctx) error {
		c.Locals(middlewares.CurrentUserKey, &models.User{Id: primitive.NewObjectID()})
		return ctl.UpdateItem(c)
	})

	req := httptest.NewRequest(fiber.MethodPatch,
		"/api/cart/items/"+primitive.NewObjectID().Hex(), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddItemRequestValidate(t *testing.T) {
	req := AddItemRequest{ProductID: primitive.NewObjectID().Hex(), Quantity: 1}
	assert.NoError(t, req.Validate())

	req.Quantity = 0
	assert.Error(t, req.Validate())

	req = AddItemRequest{Quantity: 2}
	assert.Error(t, req.Validate())
}
