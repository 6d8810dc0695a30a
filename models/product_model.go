package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories
const (
	CategoryClothing    = "clothing"
	CategorySupplements = "supplements"
	CategoryEquipment   = "equipment"
	CategoryAccessories = "accessories"
	CategoryMembership  = "membership"
	CategoryOther       = "other"
)

// ValidCategory reports whether category is one of the known product categories
func ValidCategory(category string) bool {
	switch category {
	case CategoryClothing, CategorySupplements, CategoryEquipment,
		CategoryAccessories, CategoryMembership, CategoryOther:
		return true
	}
	return false
}

// MembershipDiscount is an extra discount members of certain tiers receive
// on top of the regular product discount.
type MembershipDiscount struct {
	HasDiscount           bool     `bson:"hasDiscount" json:"hasDiscount"`
	DiscountPercentage    float64  `bson:"discountPercentage" json:"discountPercentage"`
	ApplicableMemberships []string `bson:"applicableMemberships" json:"applicableMemberships"`
}

// AppliesTo reports whether the membership discount covers the given tier
func (m MembershipDiscount) AppliesTo(tier string) bool {
	if !m.HasDiscount || tier == MembershipNone || tier == "" {
		return false
	}
	for _, t := range m.ApplicableMemberships {
		if t == tier {
			return true
		}
	}
	return false
}

// Ratings aggregates review scores for a product
type Ratings struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	Price              float64            `bson:"price" json:"price"`
	Category           string             `bson:"category" json:"category"`
	Images             []string           `bson:"images" json:"images"`
	PrimaryImage       string             `bson:"primaryImage" json:"primaryImage"`
	Brand              string             `bson:"brand,omitempty" json:"brand,omitempty"`
	InStock            bool               `bson:"inStock" json:"inStock"`
	Quantity           int                `bson:"quantity" json:"quantity"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discountPercentage"`
	Featured           bool               `bson:"featured" json:"featured"`
	MembershipDiscount MembershipDiscount `bson:"membershipDiscount" json:"membershipDiscount"`
	Ratings            Ratings            `bson:"ratings" json:"ratings"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DiscountedPrice returns the price after the regular product discount,
// rounded to 2 decimal places.
func (p *Product) DiscountedPrice() float64 {
	if p.DiscountPercentage == 0 {
		return p.Price
	}
	price := decimal.NewFromFloat(p.Price)
	factor := decimal.NewFromFloat(1).Sub(decimal.NewFromFloat(p.DiscountPercentage).Div(decimal.NewFromInt(100)))
	return price.Mul(factor).Round(2).InexactFloat64()
}

// PriceFor returns the unit price for a buyer with the given membership tier.
// The membership discount composes multiplicatively on the already-discounted
// price, never additively with the regular discount.
func (p *Product) PriceFor(tier string) float64 {
	discounted := p.DiscountedPrice()
	if !p.MembershipDiscount.AppliesTo(tier) {
		return discounted
	}
	price := decimal.NewFromFloat(discounted)
	factor := decimal.NewFromFloat(1).Sub(decimal.NewFromFloat(p.MembershipDiscount.DiscountPercentage).Div(decimal.NewFromInt(100)))
	return price.Mul(factor).Round(2).InexactFloat64()
}

// HasStock reports whether the product can cover an order of the given quantity
func (p *Product) HasStock(quantity int) bool {
	return p.InStock && p.Quantity >= quantity
}

// Reserve decrements available stock by quantity, flipping inStock off when
// the last unit is taken. The caller persists the change.
func (p *Product) Reserve(quantity int) {
	p.Quantity -= quantity
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.InStock = false
	}
}

// Release returns quantity units to stock, re-enabling inStock. Inverse of
// Reserve; used when an order is cancelled.
func (p *Product) Release(quantity int) {
	p.Quantity += quantity
	if p.Quantity > 0 {
		p.InStock = true
	}
}
