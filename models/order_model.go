package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment methods
const (
	PaymentCreditCard   = "credit-card"
	PaymentPaypal       = "paypal"
	PaymentCash         = "cash"
	PaymentBankTransfer = "bank-transfer"
	PaymentOther        = "other"
)

// ValidOrderStatus reports whether status is a known order status
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether status is a known payment status
func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether method is a known payment method
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCreditCard, PaymentPaypal, PaymentCash, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// ProductSnapshot captures display fields at purchase time so historical
// orders stay renderable after the product changes or is deleted.
type ProductSnapshot struct {
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Image    string `bson:"image" json:"image"`
}

// OrderItem is one immutable line of an order. Price is the unit price at
// time of purchase and is never recomputed from the live product.
type OrderItem struct {
	Product         primitive.ObjectID `bson:"product" json:"product"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Price           float64            `bson:"price" json:"price"`
	ProductSnapshot ProductSnapshot    `bson:"productSnapshot" json:"productSnapshot"`
}

// ShippingAddress is the destination captured on the order
type ShippingAddress struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User               primitive.ObjectID `bson:"user" json:"user"`
	Items              []OrderItem        `bson:"items" json:"items"`
	TotalAmount        float64            `bson:"totalAmount" json:"totalAmount"`
	Status             string             `bson:"status" json:"status"`
	PaymentStatus      string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      string             `bson:"paymentMethod" json:"paymentMethod"`
	ShippingAddress    ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	MembershipDiscount bool               `bson:"membershipDiscount" json:"membershipDiscount"`
	Notes              string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CalculateTotalAmount sums price x quantity over the captured line items,
// rounded to 2 decimal places.
func CalculateTotalAmount(items []OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// Number returns the short order number shown to customers
func (o *Order) Number() string {
	hex := o.ID.Hex()
	if len(hex) <= 6 {
		return hex
	}
	return hex[len(hex)-6:]
}

// CanBeCancelledBy reports whether the acting user may cancel the order:
// admins always, the owner only while the order is still pending.
func (o *Order) CanBeCancelledBy(user *User) bool {
	if user.IsAdmin() {
		return true
	}
	return o.User == user.Id && o.Status == OrderPending
}
