package database

import (
	"context"
	"fmt"

	"github.com/princinho/storefront/config"
	"github.com/princinho/storefront/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

const (
	ProductsCollection      = "products"
	ReviewsCollection       = "reviews"
	CategoriesCollection    = "categories"
	UsersCollection         = "users"
	RefreshTokensCollection = "refresh_tokens"
)

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetTimeout(cfg.Timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", cfg.Database))
	return client, nil
}

// EnsureIndexes creates the indexes the listing and auth queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	products := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "title", Value: 1}}},
	}
	if _, err := db.Collection(ProductsCollection).Indexes().CreateMany(ctx, products); err != nil {
		return fmt.Errorf("create product indexes: %w", err)
	}

	reviews := []mongo.IndexModel{
		{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := db.Collection(ReviewsCollection).Indexes().CreateMany(ctx, reviews); err != nil {
		return fmt.Errorf("create review indexes: %w", err)
	}

	users := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, users); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	tokens := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := db.Collection(RefreshTokensCollection).Indexes().CreateOne(ctx, tokens); err != nil {
		return fmt.Errorf("create refresh token indexes: %w", err)
	}
	return nil
}
