package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one product line in a cart. Quantity is always >= 1; a line
// that would drop to zero is removed instead.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is a per-user mutable collection of product lines. Each user has at
// most one cart (unique index on user) and each product at most one line.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Items      []CartItem         `bson:"items" json:"items"`
	LastActive time.Time          `bson:"lastActive" json:"lastActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CartTotals is the priced summary of a cart for a given membership tier.
// All amounts are rounded to 2 decimal places.
type CartTotals struct {
	Subtotal           float64 `json:"subtotal"`
	Discounts          float64 `json:"discounts"`
	MembershipDiscount float64 `json:"membershipDiscount"`
	Total              float64 `json:"total"`
}

// TotalItems returns the summed quantity across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// FindItem returns the index of the line holding productID, or -1
func (c *Cart) FindItem(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.Product == productID {
			return i
		}
	}
	return -1
}

// AddProduct merges quantity into an existing line for the product, or
// appends a new line. Adding never duplicates a product line.
func (c *Cart) AddProduct(productID primitive.ObjectID, quantity int) {
	if i := c.FindItem(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, CartItem{Product: productID, Quantity: quantity})
	}
	c.LastActive = time.Now()
}

// SetQuantity replaces the quantity of an existing line. A quantity <= 0
// removes the line. Returns false if the product has no line in the cart.
func (c *Cart) SetQuantity(productID primitive.ObjectID, quantity int) bool {
	i := c.FindItem(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.LastActive = time.Now()
	return true
}

// RemoveProduct drops the line holding productID, if present
func (c *Cart) RemoveProduct(productID primitive.ObjectID) {
	if i := c.FindItem(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.LastActive = time.Now()
}

// Clear empties the item list without deleting the cart itself
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.LastActive = time.Now()
}

// CalculateTotals prices the cart against the given products for a buyer of
// the given membership tier. Products missing from the map are skipped (the
// referenced product may have been deleted since it was added).
func (c *Cart) CalculateTotals(products map[primitive.ObjectID]*Product, tier string) CartTotals {
	if len(c.Items) == 0 {
		return CartTotals{}
	}

	hundred := decimal.NewFromInt(100)
	subtotal := decimal.Zero
	discounts := decimal.Zero
	memberDiscount := decimal.Zero

	for _, item := range c.Items {
		product, ok := products[item.Product]
		if !ok {
			continue
		}

		lineTotal := decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		lineDiscount := decimal.Zero
		if product.DiscountPercentage > 0 {
			lineDiscount = lineTotal.Mul(decimal.NewFromFloat(product.DiscountPercentage).Div(hundred))
			discounts = discounts.Add(lineDiscount)
		}

		if product.MembershipDiscount.AppliesTo(tier) {
			// Membership discount applies to the already-discounted line total
			discountedLine := lineTotal.Sub(lineDiscount)
			memberDiscount = memberDiscount.Add(
				discountedLine.Mul(decimal.NewFromFloat(product.MembershipDiscount.DiscountPercentage).Div(hundred)))
		}
	}

	total := subtotal.Sub(discounts).Sub(memberDiscount)

	return CartTotals{
		Subtotal:           subtotal.Round(2).InexactFloat64(),
		Discounts:          discounts.Round(2).InexactFloat64(),
		MembershipDiscount: memberDiscount.Round(2).InexactFloat64(),
		Total:              total.Round(2).InexactFloat64(),
	}
}
