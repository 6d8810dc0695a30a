package configs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB connects to the MongoDB server and verifies the connection
func ConnectDB(config *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.Mongo.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	GetLogger().Info("Connected to MongoDB", zap.String("database", config.Mongo.Database))

	return client, nil
}

// GetCollection returns a handle to the named collection
func GetCollection(client *mongo.Client, config *Config, collectionName string) *mongo.Collection {
	return client.Database(config.Mongo.Database).Collection(collectionName)
}

// EnsureIndexes creates the indexes the application relies on. The unique
// index on carts.user is what makes cart get-or-create safe under
// concurrent first requests.
func EnsureIndexes(ctx context.Context, client *mongo.Client, config *Config) error {
	db := client.Database(config.Mongo.Database)

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "read", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}
