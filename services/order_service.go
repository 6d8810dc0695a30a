package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kkarimsherif/iron-forge/models"
)

// OrderItemInput is one requested (product, quantity) pair for a new order
type OrderItemInput struct {
	Product  primitive.ObjectID
	Quantity int
}

// OrderFilter enumerates the supported order list filters for admins
type OrderFilter struct {
	Status        string
	PaymentStatus string
	User          *primitive.ObjectID
	Page          int64
	Limit         int64
}

// ProductCatalog is the slice of the catalog the order lifecycle needs:
// product lookup plus stock reservation and release.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ReserveStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	ReleaseStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// OrderService owns the order lifecycle: creation from a validated item
// list, status and payment transitions, and cancellation with stock restore.
type OrderService struct {
	orders        *mongo.Collection
	catalog       ProductCatalog
	notifications *NotificationService
	log           *zap.Logger
}

func NewOrderService(orders *mongo.Collection, catalog ProductCatalog, notifications *NotificationService, log *zap.Logger) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, notifications: notifications, log: log}
}

// Create builds an order from the requested items: validates each product and
// its stock, prices lines for the buyer's membership tier, snapshots product
// display fields, reserves stock, persists the order and notifies the buyer.
// If a later item fails after earlier reservations succeeded, the earlier
// reservations are released before the error is returned.
func (s *OrderService) Create(ctx context.Context, user *models.User, items []OrderItemInput, address models.ShippingAddress, paymentMethod, notes string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	tier := user.MembershipTier()
	orderItems := make([]models.OrderItem, 0, len(items))
	reserved := make([]models.OrderItem, 0, len(items))
	membershipDiscount := false

	release := func() {
		for _, item := range reserved {
			if err := s.catalog.ReleaseStock(ctx, item.Product, item.Quantity); err != nil {
				s.log.Error("failed to release reserved stock",
					zap.String("product", item.Product.Hex()),
					zap.Int("quantity", item.Quantity),
					zap.Error(err))
			}
		}
	}

	for _, input := range items {
		if input.Quantity < 1 {
			release()
			return nil, Validationf("item quantity must be at least 1")
		}

		product, err := s.catalog.GetProduct(ctx, input.Product)
		if err != nil {
			release()
			return nil, err
		}
		if !product.HasStock(input.Quantity) {
			release()
			return nil, ErrOutOfStock
		}

		price := product.PriceFor(tier)
		if product.MembershipDiscount.AppliesTo(tier) {
			membershipDiscount = true
		}

		item := models.OrderItem{
			Product:  product.ID,
			Quantity: input.Quantity,
			Price:    price,
			ProductSnapshot: models.ProductSnapshot{
				Name:     product.Name,
				Category: product.Category,
				Image:    product.PrimaryImage,
			},
		}

		if err := s.catalog.ReserveStock(ctx, product.ID, input.Quantity); err != nil {
			release()
			return nil, err
		}
		reserved = append(reserved, item)
		orderItems = append(orderItems, item)
	}

	now := time.Now()
	order := models.Order{
		ID:                 primitive.NewObjectID(),
		User:               user.Id,
		Items:              orderItems,
		TotalAmount:        models.CalculateTotalAmount(orderItems),
		Status:             models.OrderPending,
		PaymentStatus:      models.PaymentPending,
		PaymentMethod:      paymentMethod,
		ShippingAddress:    address,
		MembershipDiscount: membershipDiscount,
		Notes:              notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := s.orders.InsertOne(ctx, &order); err != nil {
		release()
		return nil, err
	}

	s.notify(ctx, user.Id, NotificationInput{
		Title:    "Order Placed Successfully",
		Message:  fmt.Sprintf("Your order #%s has been received and is being processed.", order.Number()),
		Type:     models.NotificationOrder,
		Priority: models.PriorityNormal,
		Reference: &models.Reference{
			Kind: models.RefOrder,
			ID:   order.ID,
		},
		Action: &models.Action{
			URL:  "/orders/" + order.ID.Hex(),
			Text: "View Order",
		},
	})

	return &order, nil
}

// GetByID fetches an order visible to the acting user (owner or admin)
func (s *OrderService) GetByID(ctx context.Context, id primitive.ObjectID, actingUser *models.User) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.User != actingUser.Id && !actingUser.IsAdmin() {
		return nil, ErrForbidden
	}
	return &order, nil
}

// ListMine returns the user's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// List returns a filtered, paginated order page for admins
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["paymentStatus"] = filter.PaymentStatus
	}
	if filter.User != nil {
		query["user"] = *filter.User
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := s.orders.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.orders.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus transitions the order to newStatus unconditionally and sends a
// status-specific notification to the order owner.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, Validationf("invalid order status %q", newStatus)
	}

	order, err := s.setField(ctx, id, "status", newStatus)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, order.User, statusNotification(order, newStatus))
	return order, nil
}

// UpdatePaymentStatus transitions the payment state unconditionally. Moves to
// paid, failed or refunded notify the owner; repeating the current state does
// not.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (*models.Order, error) {
	if !models.ValidPaymentStatus(newStatus) {
		return nil, Validationf("invalid payment status %q", newStatus)
	}

	var previous models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&previous)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order, err := s.setField(ctx, id, "paymentStatus", newStatus)
	if err != nil {
		return nil, err
	}

	if newStatus != previous.PaymentStatus {
		if input, ok := paymentNotification(order, newStatus); ok {
			s.notify(ctx, order.User, input)
		}
	}
	return order, nil
}

// Cancel cancels the order and restores every line item's stock. Admins may
// cancel any order; the owner only while it is still pending. A second cancel
// is rejected so stock is not restored twice.
func (s *OrderService) Cancel(ctx context.Context, id primitive.ObjectID, actingUser *models.User) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderCancelled {
		return nil, Validationf("order is already cancelled")
	}
	if !order.CanBeCancelledBy(actingUser) {
		return nil, ErrForbidden
	}

	updated, err := s.setField(ctx, id, "status", models.OrderCancelled)
	if err != nil {
		return nil, err
	}

	for _, item := range updated.Items {
		if err := s.catalog.ReleaseStock(ctx, item.Product, item.Quantity); err != nil {
			// the product may have been deleted since purchase
			s.log.Warn("could not restore stock for cancelled order",
				zap.String("order", updated.ID.Hex()),
				zap.String("product", item.Product.Hex()),
				zap.Error(err))
		}
	}

	message := fmt.Sprintf("Your order #%s has been cancelled at your request.", updated.Number())
	if actingUser.IsAdmin() && updated.User != actingUser.Id {
		message = fmt.Sprintf("Your order #%s has been cancelled by an administrator. Please contact support for details.", updated.Number())
	}

	s.notify(ctx, updated.User, NotificationInput{
		Title:    "Order Cancelled",
		Message:  message,
		Type:     models.NotificationOrder,
		Priority: models.PriorityHigh,
		Reference: &models.Reference{
			Kind: models.RefOrder,
			ID:   updated.ID,
		},
	})

	return updated, nil
}

func (s *OrderService) setField(ctx context.Context, id primitive.ObjectID, field, value string) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.orders.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		field:       value,
		"updatedAt": time.Now(),
	}}, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// notify dispatches best-effort: a failed insert is logged, never surfaced to
// the caller's business operation.
func (s *OrderService) notify(ctx context.Context, userID primitive.ObjectID, input NotificationInput) {
	if _, err := s.notifications.Send(ctx, userID, input); err != nil {
		s.log.Error("failed to send order notification",
			zap.String("user", userID.Hex()),
			zap.String("title", input.Title),
			zap.Error(err))
	}
}

// statusNotification builds the owner-facing notification for an order
// status transition. Cancellations are high priority.
func statusNotification(order *models.Order, status string) NotificationInput {
	number := order.Number()
	var title, message string

	switch status {
	case models.OrderProcessing:
		title = "Order Update"
		message = fmt.Sprintf("Your order #%s is being processed. We'll notify you once it's shipped.", number)
	case models.OrderShipped:
		title = "Order Shipped"
		message = fmt.Sprintf("Good news! Your order #%s has been shipped.", number)
	case models.OrderDelivered:
		title = "Order Delivered"
		message = fmt.Sprintf("Your order #%s has been delivered. Enjoy your purchase!", number)
	case models.OrderCancelled:
		title = "Order Cancelled"
		message = fmt.Sprintf("Your order #%s has been cancelled. Please contact support if you have any questions.", number)
	default:
		title = "Order Status Updated"
		message = fmt.Sprintf("Your order #%s has been updated to: %s.", number, status)
	}

	priority := models.PriorityNormal
	if status == models.OrderCancelled {
		priority = models.PriorityHigh
	}

	return NotificationInput{
		Title:    title,
		Message:  message,
		Type:     models.NotificationOrder,
		Priority: priority,
		Reference: &models.Reference{
			Kind: models.RefOrder,
			ID:   order.ID,
		},
		Action: &models.Action{
			URL:  "/orders/" + order.ID.Hex(),
			Text: "View Order",
		},
	}
}

// paymentNotification builds the owner-facing notification for a payment
// state change. Only paid, failed and refunded notify.
func paymentNotification(order *models.Order, status string) (NotificationInput, bool) {
	number := order.Number()
	reference := &models.Reference{Kind: models.RefOrder, ID: order.ID}

	switch status {
	case models.PaymentPaid:
		return NotificationInput{
			Title:     "Payment Successful",
			Message:   fmt.Sprintf("Your payment for order #%s has been successfully processed.", number),
			Type:      models.NotificationPayment,
			Priority:  models.PriorityNormal,
			Reference: reference,
		}, true
	case models.PaymentFailed:
		return NotificationInput{
			Title:     "Payment Failed",
			Message:   fmt.Sprintf("We couldn't process your payment for order #%s. Please update your payment method.", number),
			Type:      models.NotificationPayment,
			Priority:  models.PriorityHigh,
			Reference: reference,
			Action: &models.Action{
				URL:  "/orders/" + order.ID.Hex() + "/payment",
				Text: "Update Payment",
			},
		}, true
	case models.PaymentRefunded:
		return NotificationInput{
			Title:     "Refund Processed",
			Message:   fmt.Sprintf("We've processed a refund for order #%s. It may take a few days to appear in your account.", number),
			Type:      models.NotificationPayment,
			Priority:  models.PriorityNormal,
			Reference: reference,
		}, true
	}
	return NotificationInput{}, false
}
