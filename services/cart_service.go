package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kkarimsherif/iron-forge/models"
)

// CartService owns per-user carts. Cart state is advisory; stock is validated
// against the catalog when an order is created, not reserved by the cart.
type CartService struct {
	carts   *mongo.Collection
	catalog *CatalogService
}

func NewCartService(carts *mongo.Collection, catalog *CatalogService) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// GetOrCreate returns the user's cart, creating an empty one on first
// access. The unique index on carts.user makes concurrent first requests
// safe: the loser of the insert race falls back to fetching the winner's cart.
func (s *CartService) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	cart = models.Cart{
		ID:         primitive.NewObjectID(),
		User:       userID,
		Items:      []models.CartItem{},
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = s.carts.InsertOne(ctx, cart)
	if mongo.IsDuplicateKeyError(err) {
		err = s.carts.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem merges quantity into the user's cart line for the product. The
// product must exist and currently cover the requested quantity, though the
// cart holds no reservation.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, Validationf("quantity must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(quantity) {
		return nil, ErrOutOfStock
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddProduct(productID, quantity)
	return cart, s.save(ctx, cart)
}

// SetQuantity replaces the quantity of an existing cart line; a quantity of
// zero or less removes the line. Positive quantities are stock-checked the
// same way AddItem is.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity > 0 {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.HasStock(quantity) {
			return nil, ErrOutOfStock
		}
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(productID, quantity) {
		return nil, ErrCartItemNotFound
	}
	return cart, s.save(ctx, cart)
}

// RemoveItem drops the product line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveProduct(productID)
	return cart, s.save(ctx, cart)
}

// Clear empties the user's cart without deleting the cart document
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	return cart, s.save(ctx, cart)
}

// Totals prices the cart for the given membership tier against live catalog data
func (s *CartService) Totals(ctx context.Context, cart *models.Cart, tier string) (models.CartTotals, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.Product)
	}

	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return models.CartTotals{}, err
	}
	return cart.CalculateTotals(products, tier), nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	_, err := s.carts.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":      cart.Items,
		"lastActive": cart.LastActive,
		"updatedAt":  time.Now(),
	}})
	return err
}
