package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCalculateTotalAmount(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, Price: 72.0},
		{Quantity: 1, Price: 10.5},
	}

	assert.Equal(t, 154.5, CalculateTotalAmount(items))
	assert.Equal(t, 0.0, CalculateTotalAmount(nil))
}

func TestCalculateTotalAmountRounding(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3, Price: 33.333},
	}

	assert.Equal(t, 100.0, CalculateTotalAmount(items))
}

func TestOrderNumber(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f1a2b3c4d5e6f7a8b9c0d1")
	assert.NoError(t, err)

	order := &Order{ID: id}
	assert.Equal(t, "b9c0d1", order.Number())
}

func TestCanBeCancelledBy(t *testing.T) {
	ownerID := primitive.NewObjectID()
	owner := &User{Id: ownerID, Role: RoleUser}
	stranger := &User{Id: primitive.NewObjectID(), Role: RoleUser}
	admin := &User{Id: primitive.NewObjectID(), Role: RoleAdmin}

	pending := &Order{User: ownerID, Status: OrderPending}
	shipped := &Order{User: ownerID, Status: OrderShipped}

	assert.True(t, pending.CanBeCancelledBy(owner))
	assert.False(t, pending.CanBeCancelledBy(stranger))

	// owner loses the right once the order leaves pending
	assert.False(t, shipped.CanBeCancelledBy(owner))

	// admin may cancel regardless of status
	assert.True(t, pending.CanBeCancelledBy(admin))
	assert.True(t, shipped.CanBeCancelledBy(admin))
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderDelivered))
	assert.False(t, ValidOrderStatus("returned"))

	assert.True(t, ValidPaymentStatus(PaymentRefunded))
	assert.False(t, ValidPaymentStatus("completed"))

	assert.True(t, ValidPaymentMethod(PaymentPaypal))
	assert.False(t, ValidPaymentMethod("crypto"))
}
