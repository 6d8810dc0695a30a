package orderController

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/middlewares"
	"github.com/kkarimsherif/iron-forge/models"
	"github.com/kkarimsherif/iron-forge/responses"
	"github.com/kkarimsherif/iron-forge/services"
)

type Controller struct {
	orders *services.OrderService
}

func NewController(orders *services.OrderService) *Controller {
	return &Controller{orders: orders}
}

// OrderItemRequest is one (product, quantity) pair in a create request
type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest holds the data required to create an order
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	Notes           string                 `json:"notes"`
}

func (r *CreateOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return services.ErrEmptyOrder
	}
	for _, item := range r.Items {
		if item.Product == "" {
			return services.Validationf("order item must have a product")
		}
		if item.Quantity < 1 {
			return services.Validationf("order item quantity must be at least 1")
		}
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = models.PaymentCreditCard
	}
	if !models.ValidPaymentMethod(r.PaymentMethod) {
		return services.Validationf("unknown payment method %q", r.PaymentMethod)
	}
	return nil
}

// UpdateStatusRequest carries the target order status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentRequest carries the target payment status
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// Create handles POST /api/orders
func (ctl *Controller) Create(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return responses.Error(c, err)
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return responses.Error(c, services.Validationf("invalid product id %q", item.Product))
		}
		items = append(items, services.OrderItemInput{Product: productID, Quantity: item.Quantity})
	}

	order, err := ctl.orders.Create(c.Context(), user, items, req.ShippingAddress, req.PaymentMethod, req.Notes)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.OK(fiber.Map{"order": order}))
}

// List handles GET /api/orders (admin)
func (ctl *Controller) List(c *fiber.Ctx) error {
	filter := services.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
	}
	if v := c.Query("user"); v != "" {
		userID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return responses.Error(c, services.Validationf("invalid user id"))
		}
		filter.User = &userID
	}
	filter.Page, _ = strconv.ParseInt(c.Query("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	orders, total, err := ctl.orders.List(c.Context(), filter)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{
		"orders": orders,
		"total":  total,
	}))
}

// ListMine handles GET /api/orders/my
func (ctl *Controller) ListMine(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	orders, err := ctl.orders.ListMine(c.Context(), user.Id)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"orders": orders}))
}

// Get handles GET /api/orders/:id
func (ctl *Controller) Get(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid order id"))
	}

	order, err := ctl.orders.GetByID(c.Context(), id, user)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"order": order}))
}

// UpdateStatus handles PATCH /api/orders/:id/status (admin)
func (ctl *Controller) UpdateStatus(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid order id"))
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if req.Status == "" {
		return responses.Error(c, services.Validationf("please provide a status"))
	}

	order, err := ctl.orders.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"order": order}))
}

// UpdatePayment handles PATCH /api/orders/:id/payment (admin)
func (ctl *Controller) UpdatePayment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid order id"))
	}

	var req UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, services.Validationf("invalid request body"))
	}
	if req.PaymentStatus == "" {
		return responses.Error(c, services.Validationf("please provide a payment status"))
	}

	order, err := ctl.orders.UpdatePaymentStatus(c.Context(), id, req.PaymentStatus)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OK(fiber.Map{"order": order}))
}

// Cancel handles POST /api/orders/:id/cancel
func (ctl *Controller) Cancel(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return responses.Error(c, services.Validationf("invalid order id"))
	}

	order, err := ctl.orders.Cancel(c.Context(), id, user)
	if err != nil {
		return responses.Error(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.OKMessage("Order cancelled", fiber.Map{"order": order}))
}
