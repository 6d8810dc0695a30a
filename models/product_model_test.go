package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func goldDiscountProduct() *Product {
	return &Product{
		Name:               "Whey Protein 2kg",
		Price:              100,
		Category:           CategorySupplements,
		Quantity:           10,
		InStock:            true,
		DiscountPercentage: 20,
		MembershipDiscount: MembershipDiscount{
			HasDiscount:           true,
			DiscountPercentage:    10,
			ApplicableMemberships: []string{MembershipPremium, MembershipPlatinum},
		},
	}
}

func TestDiscountedPrice(t *testing.T) {
	p := goldDiscountProduct()
	assert.Equal(t, 80.0, p.DiscountedPrice())

	p.DiscountPercentage = 0
	assert.Equal(t, 100.0, p.DiscountedPrice())

	p.Price = 19.99
	p.DiscountPercentage = 15
	assert.Equal(t, 16.99, p.DiscountedPrice())
}

func TestPriceForComposesMultiplicatively(t *testing.T) {
	p := goldDiscountProduct()

	// 100 * 0.8 * 0.9, not 100 * (1 - 0.30)
	assert.Equal(t, 72.0, p.PriceFor(MembershipPremium))
	assert.Equal(t, 80.0, p.PriceFor(MembershipNone))
	assert.Equal(t, 80.0, p.PriceFor(MembershipBasic))
}

func TestPriceForWithoutMembershipDiscount(t *testing.T) {
	p := goldDiscountProduct()
	p.MembershipDiscount.HasDiscount = false

	assert.Equal(t, 80.0, p.PriceFor(MembershipPlatinum))
}

func TestMembershipDiscountAppliesTo(t *testing.T) {
	d := MembershipDiscount{
		HasDiscount:           true,
		DiscountPercentage:    10,
		ApplicableMemberships: []string{MembershipPremium},
	}

	assert.True(t, d.AppliesTo(MembershipPremium))
	assert.False(t, d.AppliesTo(MembershipPlatinum))
	assert.False(t, d.AppliesTo(MembershipNone))
	assert.False(t, d.AppliesTo(""))

	d.HasDiscount = false
	assert.False(t, d.AppliesTo(MembershipPremium))
}

func TestReserveAndRelease(t *testing.T) {
	p := goldDiscountProduct()

	p.Reserve(4)
	assert.Equal(t, 6, p.Quantity)
	assert.True(t, p.InStock)

	p.Reserve(6)
	assert.Equal(t, 0, p.Quantity)
	assert.False(t, p.InStock)

	p.Release(6)
	p.Release(4)
	assert.Equal(t, 10, p.Quantity)
	assert.True(t, p.InStock)
}

func TestHasStock(t *testing.T) {
	p := goldDiscountProduct()

	assert.True(t, p.HasStock(10))
	assert.False(t, p.HasStock(11))

	p.InStock = false
	assert.False(t, p.HasStock(1))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryEquipment))
	assert.False(t, ValidCategory("vehicles"))
}
