package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"github.com/kkarimsherif/iron-forge/models"
)

type stockCall struct {
	product  primitive.ObjectID
	quantity int
}

// fakeCatalog records reservation and release calls. ReserveStock fails for
// the product named in failReserve.
type fakeCatalog struct {
	products    map[primitive.ObjectID]*models.Product
	failReserve primitive.ObjectID
	reserves    []stockCall
	releases    []stockCall
}

func (f *fakeCatalog) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (f *fakeCatalog) ReserveStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	if id == f.failReserve {
		return ErrOutOfStock
	}
	f.reserves = append(f.reserves, stockCall{product: id, quantity: quantity})
	return nil
}

func (f *fakeCatalog) ReleaseStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	f.releases = append(f.releases, stockCall{product: id, quantity: quantity})
	return nil
}

func stockedProduct(quantity int) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Adjustable Dumbbell",
		Category: models.CategoryEquipment,
		Price:    50,
		InStock:  quantity > 0,
		Quantity: quantity,
	}
}

func testOrder(t *testing.T) *models.Order {
	t.Helper()
	id, err := primitive.ObjectIDFromHex("65f1a2b3c4d5e6f7a8b9c0d1")
	require.NoError(t, err)
	return &models.Order{ID: id, User: primitive.NewObjectID()}
}

func TestStatusNotificationTexts(t *testing.T) {
	order := testOrder(t)

	cases := []struct {
		status   string
		title    string
		priority string
	}{
		{models.OrderProcessing, "Order Update", models.PriorityNormal},
		{models.OrderShipped, "Order Shipped", models.PriorityNormal},
		{models.OrderDelivered, "Order Delivered", models.PriorityNormal},
		{models.OrderCancelled, "Order Cancelled", models.PriorityHigh},
		{models.OrderPending, "Order Status Updated", models.PriorityNormal},
	}

	for _, tc := range cases {
		input := statusNotification(order, tc.status)
		assert.Equal(t, tc.title, input.Title, tc.status)
		assert.Equal(t, tc.priority, input.Priority, tc.status)
		assert.Equal(t, models.NotificationOrder, input.Type)
		assert.Contains(t, input.Message, "#b9c0d1")
		require.NotNil(t, input.Reference)
		assert.Equal(t, models.RefOrder, input.Reference.Kind)
		assert.Equal(t, order.ID, input.Reference.ID)
	}
}

func TestPaymentNotification(t *testing.T) {
	order := testOrder(t)

	paid, ok := paymentNotification(order, models.PaymentPaid)
	require.True(t, ok)
	assert.Equal(t, "Payment Successful", paid.Title)
	assert.Equal(t, models.PriorityNormal, paid.Priority)
	assert.Nil(t, paid.Action)

	failed, ok := paymentNotification(order, models.PaymentFailed)
	require.True(t, ok)
	assert.Equal(t, "Payment Failed", failed.Title)
	assert.Equal(t, models.PriorityHigh, failed.Priority)
	require.NotNil(t, failed.Action)
	assert.Equal(t, "Update Payment", failed.Action.Text)

	refunded, ok := paymentNotification(order, models.PaymentRefunded)
	require.True(t, ok)
	assert.Equal(t, "Refund Processed", refunded.Title)

	// returning to pending sends nothing
	_, ok = paymentNotification(order, models.PaymentPending)
	assert.False(t, ok)
}

func TestCreateReleasesReservedStockWhenLaterItemFails(t *testing.T) {
	p1 := stockedProduct(10)
	p2 := stockedProduct(10)
	p3 := stockedProduct(10)
	catalog := &fakeCatalog{
		products:    map[primitive.ObjectID]*models.Product{p1.ID: p1, p2.ID: p2, p3.ID: p3},
		failReserve: p3.ID,
	}
	svc := NewOrderService(nil, catalog, nil, zap.NewNop())
	user := &models.User{Id: primitive.NewObjectID()}

	order, err := svc.Create(context.Background(), user, []OrderItemInput{
		{Product: p1.ID, Quantity: 2},
		{Product: p2.ID, Quantity: 3},
		{Product: p3.ID, Quantity: 1},
	}, models.ShippingAddress{}, models.PaymentCreditCard, "")

	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Nil(t, order)
	require.Equal(t, []stockCall{{p1.ID, 2}, {p2.ID, 3}}, catalog.reserves)
	assert.Equal(t, catalog.reserves, catalog.releases)
}

func TestCreateReleasesReservedStockOnMissingProduct(t *testing.T) {
	p1 := stockedProduct(5)
	catalog := &fakeCatalog{
		products: map[primitive.ObjectID]*models.Product{p1.ID: p1},
	}
	svc := NewOrderService(nil, catalog, nil, zap.NewNop())
	user := &models.User{Id: primitive.NewObjectID()}

	_, err := svc.Create(context.Background(), user, []OrderItemInput{
		{Product: p1.ID, Quantity: 4},
		{Product: primitive.NewObjectID(), Quantity: 1},
	}, models.ShippingAddress{}, models.PaymentCreditCard, "")

	require.ErrorIs(t, err, ErrProductNotFound)
	require.Equal(t, []stockCall{{p1.ID, 4}}, catalog.reserves)
	assert.Equal(t, catalog.reserves, catalog.releases)
}

func TestCreateRejectsEmptyItemList(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewOrderService(nil, catalog, nil, zap.NewNop())
	user := &models.User{Id: primitive.NewObjectID()}

	_, err := svc.Create(context.Background(), user, nil, models.ShippingAddress{}, models.PaymentCreditCard, "")

	require.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, catalog.reserves)
	assert.Empty(t, catalog.releases)
}

func TestCancelRejectsAlreadyCancelledOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no double stock restore", func(mt *mtest.T) {
		catalog := &fakeCatalog{}
		svc := NewOrderService(mt.Coll, catalog, nil, zap.NewNop())

		orderID := primitive.NewObjectID()
		admin := &models.User{Id: primitive.NewObjectID(), Role: models.RoleAdmin}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ironforge.orders", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: orderID},
			{Key: "user", Value: primitive.NewObjectID()},
			{Key: "status", Value: models.OrderCancelled},
		}))

		order, err := svc.Cancel(context.Background(), orderID, admin)
		assert.Nil(mt, order)
		var validationErr *ValidationError
		require.ErrorAs(mt, err, &validationErr)
		assert.Empty(mt, catalog.releases)
	})
}
