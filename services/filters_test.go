package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kkarimsherif/iron-forge/models"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestProductFilterQuery(t *testing.T) {
	filter := ProductFilter{
		Category: models.CategorySupplements,
		Search:   "protein",
		Featured: boolPtr(true),
		InStock:  boolPtr(true),
		MinPrice: floatPtr(10),
		MaxPrice: floatPtr(50),
	}

	query := filter.query()

	assert.Equal(t, models.CategorySupplements, query["category"])
	assert.Equal(t, bson.M{"$regex": "protein", "$options": "i"}, query["name"])
	assert.Equal(t, true, query["featured"])
	assert.Equal(t, true, query["inStock"])
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, query["price"])
}

func TestProductFilterQueryEmpty(t *testing.T) {
	filter := ProductFilter{}
	assert.Empty(t, filter.query())
}

func TestProductFilterSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, (&ProductFilter{Sort: SortPriceAsc}).sort())
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, (&ProductFilter{Sort: SortPriceDesc}).sort())
	assert.Equal(t, bson.D{{Key: "name", Value: 1}}, (&ProductFilter{Sort: SortName}).sort())
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, (&ProductFilter{}).sort())
}

func TestProductFilterPagination(t *testing.T) {
	page, limit := (&ProductFilter{}).pagination()
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)

	page, limit = (&ProductFilter{Page: 3, Limit: 25}).pagination()
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(25), limit)

	// limit is capped
	_, limit = (&ProductFilter{Limit: 5000}).pagination()
	assert.Equal(t, int64(10), limit)
}

func TestNotificationFilterQuery(t *testing.T) {
	userID := primitive.NewObjectID()
	filter := NotificationFilter{
		Read:     boolPtr(false),
		Type:     models.NotificationOrder,
		Priority: models.PriorityHigh,
	}

	query := filter.query(userID)

	assert.Equal(t, userID, query["user"])
	assert.Equal(t, false, query["read"])
	assert.Equal(t, models.NotificationOrder, query["type"])
	assert.Equal(t, models.PriorityHigh, query["priority"])

	// expired records excluded by default
	require.Contains(t, query, "$or")

	filter.IncludeExpired = true
	assert.NotContains(t, filter.query(userID), "$or")
}

func TestValidationError(t *testing.T) {
	err := Validationf("quantity must be at least %d", 1)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity must be at least 1", verr.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrProductNotFound))
	assert.True(t, IsNotFound(ErrCartItemNotFound))
	assert.False(t, IsNotFound(ErrOutOfStock))
	assert.False(t, IsNotFound(ErrForbidden))
}
