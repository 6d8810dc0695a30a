package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kkarimsherif/iron-forge/models"
)

// Product sort orders accepted by ListProducts
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
)

// ProductFilter enumerates the supported product list filters. Client query
// keys are mapped to these fields at the controller boundary; arbitrary keys
// are never passed through to the database.
type ProductFilter struct {
	Category string
	Search   string
	Featured *bool
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int64
	Limit    int64
}

// ProductUpdate carries the mutable product fields for admin updates. Nil
// fields are left untouched.
type ProductUpdate struct {
	Name               *string
	Description        *string
	Price              *float64
	Category           *string
	Images             []string
	PrimaryImage       *string
	Brand              *string
	Quantity           *int
	DiscountPercentage *float64
	Featured           *bool
	MembershipDiscount *models.MembershipDiscount
}

// CatalogService owns product records, pricing and stock movements
type CatalogService struct {
	products *mongo.Collection
}

func NewCatalogService(products *mongo.Collection) *CatalogService {
	return &CatalogService{products: products}
}

// GetProduct fetches one product by id
func (s *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProducts fetches the given products keyed by id. Missing ids are simply
// absent from the map.
func (s *CatalogService) GetProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	result := make(map[primitive.ObjectID]*models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		p := product
		result[product.ID] = &p
	}
	return result, cursor.Err()
}

func (f *ProductFilter) query() bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Search != "" {
		query["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	if f.Featured != nil {
		query["featured"] = *f.Featured
	}
	if f.InStock != nil {
		query["inStock"] = *f.InStock
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	return query
}

func (f *ProductFilter) sort() bson.D {
	switch f.Sort {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortName:
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (f *ProductFilter) pagination() (page, limit int64) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	limit = f.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// ListProducts returns a filtered, paginated product page and the total count
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := filter.query()
	page, limit := filter.pagination()

	total, err := s.products.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(filter.sort()).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.products.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CreateProduct inserts a new product record
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.InStock = product.Quantity > 0
	if len(product.Images) == 0 {
		product.Images = []string{"default-product.jpg"}
	}
	if product.PrimaryImage == "" {
		product.PrimaryImage = product.Images[0]
	}

	_, err := s.products.InsertOne(ctx, product)
	return err
}

// UpdateProduct applies the non-nil fields of update and returns the new document
func (s *CatalogService) UpdateProduct(ctx context.Context, id primitive.ObjectID, update ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Images != nil {
		set["images"] = update.Images
	}
	if update.PrimaryImage != nil {
		set["primaryImage"] = *update.PrimaryImage
	}
	if update.Brand != nil {
		set["brand"] = *update.Brand
	}
	if update.Quantity != nil {
		set["quantity"] = *update.Quantity
		set["inStock"] = *update.Quantity > 0
	}
	if update.DiscountPercentage != nil {
		set["discountPercentage"] = *update.DiscountPercentage
	}
	if update.Featured != nil {
		set["featured"] = *update.Featured
	}
	if update.MembershipDiscount != nil {
		set["membershipDiscount"] = *update.MembershipDiscount
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product record
func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReserveStock decrements available stock by quantity. The decrement is a
// single conditional update guarded on the current quantity, so two
// concurrent orders cannot both take the last units.
func (s *CatalogService) ReserveStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	filter := bson.M{
		"_id":      id,
		"inStock":  true,
		"quantity": bson.M{"$gte": quantity},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := s.products.FindOneAndUpdate(ctx, filter, bson.M{
		"$inc": bson.M{"quantity": -quantity},
		"$set": bson.M{"updatedAt": time.Now()},
	}, opts).Decode(&product)
	if err == mongo.ErrNoDocuments {
		// Either the product is gone or the guard failed; the caller has
		// already established existence, so report the stock failure.
		return ErrOutOfStock
	}
	if err != nil {
		return err
	}

	if product.Quantity <= 0 {
		_, err = s.products.UpdateOne(ctx, bson.M{"_id": id, "quantity": bson.M{"$lte": 0}},
			bson.M{"$set": bson.M{"inStock": false}})
	}
	return err
}

// ReleaseStock returns quantity units to stock. Inverse of ReserveStock, used
// when an order is cancelled or a multi-item reservation is unwound.
func (s *CatalogService) ReleaseStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{"inStock": true, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
