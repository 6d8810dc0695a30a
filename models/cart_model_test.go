package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddProductMergesExistingLine(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()

	cart.AddProduct(productID, 1)
	cart.AddProduct(productID, 1)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddProductAppendsNewLine(t *testing.T) {
	cart := &Cart{}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	cart.AddProduct(first, 2)
	cart.AddProduct(second, 3)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.TotalItems())
}

func TestSetQuantity(t *testing.T) {
	cart := &Cart{}
	productID := primitive.NewObjectID()
	cart.AddProduct(productID, 2)

	ok := cart.SetQuantity(productID, 5)
	assert.True(t, ok)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// zero or negative removes the line
	ok = cart.SetQuantity(productID, 0)
	assert.True(t, ok)
	assert.Empty(t, cart.Items)

	// updating a missing line fails
	ok = cart.SetQuantity(productID, 3)
	assert.False(t, ok)
}

func TestRemoveProduct(t *testing.T) {
	cart := &Cart{}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	cart.AddProduct(first, 1)
	cart.AddProduct(second, 1)

	cart.RemoveProduct(first)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, second, cart.Items[0].Product)

	// removing an absent product is a no-op
	cart.RemoveProduct(first)
	assert.Len(t, cart.Items, 1)
}

func TestClear(t *testing.T) {
	cart := &Cart{}
	cart.AddProduct(primitive.NewObjectID(), 4)

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
}

func TestCalculateTotalsEmptyCart(t *testing.T) {
	cart := &Cart{}

	totals := cart.CalculateTotals(nil, MembershipPremium)

	assert.Equal(t, CartTotals{}, totals)
}

func TestCalculateTotals(t *testing.T) {
	protein := goldDiscountProduct()
	protein.ID = primitive.NewObjectID()

	shaker := &Product{
		ID:       primitive.NewObjectID(),
		Name:     "Shaker Bottle",
		Price:    10,
		Quantity: 50,
		InStock:  true,
	}

	cart := &Cart{}
	cart.AddProduct(protein.ID, 2)
	cart.AddProduct(shaker.ID, 1)

	products := map[primitive.ObjectID]*Product{
		protein.ID: protein,
		shaker.ID:  shaker,
	}

	totals := cart.CalculateTotals(products, MembershipPremium)

	// protein: 2 x 100 = 200, 20% discount = 40, member 10% of 160 = 16
	// shaker: 10, no discounts
	assert.Equal(t, 210.0, totals.Subtotal)
	assert.Equal(t, 40.0, totals.Discounts)
	assert.Equal(t, 16.0, totals.MembershipDiscount)
	assert.Equal(t, 154.0, totals.Total)
}

func TestCalculateTotalsNoMembership(t *testing.T) {
	protein := goldDiscountProduct()
	protein.ID = primitive.NewObjectID()

	cart := &Cart{}
	cart.AddProduct(protein.ID, 1)

	products := map[primitive.ObjectID]*Product{protein.ID: protein}
	totals := cart.CalculateTotals(products, MembershipNone)

	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.Discounts)
	assert.Equal(t, 0.0, totals.MembershipDiscount)
	assert.Equal(t, 80.0, totals.Total)
}

func TestCalculateTotalsSkipsDeletedProducts(t *testing.T) {
	known := goldDiscountProduct()
	known.ID = primitive.NewObjectID()

	cart := &Cart{}
	cart.AddProduct(known.ID, 1)
	cart.AddProduct(primitive.NewObjectID(), 3)

	products := map[primitive.ObjectID]*Product{known.ID: known}
	totals := cart.CalculateTotals(products, MembershipNone)

	assert.Equal(t, 100.0, totals.Subtotal)
}
