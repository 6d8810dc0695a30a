package cartController

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

type Controller struct {
	carts *services.CartService
}

func NewController(carts *services.CartService) *Controller {
	return &Controller{carts: carts}
}

// AddItemRequest holds the data to add a product to the cart
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (r *AddItemRequest) Validate() error {
	if r.ProductID == "" {
		return services.Validationf("product ID is required")
	}
	if r.Quantity < 1 {
		return services.Validationf("quantity must be at least 1")
	}
	return nil
}

// UpdateItemRequest holds the replacement quantity for a cart line. Quantity
// is a pointer so a body that omits the field is rejected instead of being
// read as a zero that would delete the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (r *UpdateItemRequest) Validate() error {
	if r.Quantity == nil {
		return services.Validationf("quantity is required")
	}
	return nil
}

// cartPayload is the cart plus its priced totals, the shape every cart
// endpoint responds with.
func (ctl *Controller) cartPayload(c *fiber.Ctx, cart *models.Cart, user *models.User) (fiber.Map, error) {
	totals, err := ctl.carts.Totals(c.Context(), cart, user.MembershipTier())
	if err != nil {
		return nil, err
	}
	return fiber.Map{"cart": cart, "totals": totals}, nil
}

// Get handles GET /api/cart
func (ctl *Controller) Get(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	cart, err := ctl.carts.GetOrCreate(c.Context(), user.Id)
	if err != nil {
		return responses.Error(c, err)
	}

	payload, err := ctl.cartPayload(c, cart, user)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(responses.OK(payload))
}

// AddItem handles POST /api/cart/items
func (ctl *Controller) AddItem(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	cart, err := ctl.carts.AddItem(c.Context(), user.Id, productID, req.Quantity)
	if err != nil {
		return responses.Error(c, err)
	}

	payload, err := ctl.cartPayload(c, cart, user)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(responses.OKMessage("Successfully added to cart", payload))
}

// UpdateItem handles PATCH /api/cart/items/:productId
func (ctl *Controller) UpdateItem(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	cart, err := ctl.carts.SetQuantity(c.Context(), user.Id, productID, *req.Quantity)
	if err != nil {
		return responses.Error(c, err)
	}

	payload, err := ctl.cartPayload(c, cart, user)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(responses.OK(payload))
}

// RemoveItem handles DELETE /api/cart/items/:productId
func (ctl *Controller) RemoveItem(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	productID, err := primitive.ObjectIDFromHex(c.Params("productId"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid product id"))
	}

	cart, err := ctl.carts.RemoveItem(c.Context(), user.Id, productID)
	if err != nil {
		return responses.Error(c, err)
	}

	payload, err := ctl.cartPayload(c, cart, user)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(responses.OKMessage("Successfully removed from cart", payload))
}

// Clear handles DELETE /api/cart/clear
func (ctl *Controller) Clear(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	cart, err := ctl.carts.Clear(c.Context(), user.Id)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"cart": cart}))
}
