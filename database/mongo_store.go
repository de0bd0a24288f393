package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/princinho/storefront/catalog"
	"github.com/princinho/storefront/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore is the document store client. Reviews live in their own
// collection keyed by productId, which plays the part of a per-product
// sub-collection.
type MongoStore struct {
	products      *mongo.Collection
	reviews       *mongo.Collection
	categories    *mongo.Collection
	users         *mongo.Collection
	refreshTokens *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		products:      db.Collection(ProductsCollection),
		reviews:       db.Collection(ReviewsCollection),
		categories:    db.Collection(CategoriesCollection),
		users:         db.Collection(UsersCollection),
		refreshTokens: db.Collection(RefreshTokensCollection),
	}
}

var _ catalog.Store = (*MongoStore)(nil)

func (s *MongoStore) FindProducts(ctx context.Context, q catalog.Query) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, ToFilter(q), ToFindOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *MongoStore) GetCategories(ctx context.Context) ([]string, error) {
	var list models.CategoryList
	if err := s.categories.FindOne(ctx, bson.M{"_id": models.CategoryListID}).Decode(&list); err != nil {
		return nil, notFound(err)
	}
	return list.Categories, nil
}

// UpsertProduct and PutCategories are used by the seed command.
func (s *MongoStore) UpsertProduct(ctx context.Context, p models.Product) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.products.ReplaceOne(ctx, bson.M{"_id": p.Id}, p, opts); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.Id, err)
	}
	return nil
}

func (s *MongoStore) PutCategories(ctx context.Context, categories []string) error {
	opts := options.Replace().SetUpsert(true)
	doc := models.CategoryList{Id: models.CategoryListID, Categories: categories}
	if _, err := s.categories.ReplaceOne(ctx, bson.M{"_id": models.CategoryListID}, doc, opts); err != nil {
		return fmt.Errorf("put categories: %w", err)
	}
	return nil
}

func (s *MongoStore) InsertReview(ctx context.Context, r models.Review) (string, error) {
	r.Id = bson.NewObjectID().Hex()
	if _, err := s.reviews.InsertOne(ctx, r); err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}
	return r.Id, nil
}

// UpsertReview writes a review under its own id, replacing any earlier copy.
func (s *MongoStore) UpsertReview(ctx context.Context, r models.Review) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.reviews.ReplaceOne(ctx, bson.M{"_id": r.Id}, r, opts); err != nil {
		return fmt.Errorf("upsert review %s: %w", r.Id, err)
	}
	return nil
}

func (s *MongoStore) UpdateReview(ctx context.Context, productID, reviewID string, set map[string]any) error {
	res, err := s.reviews.UpdateOne(ctx,
		bson.M{"_id": reviewID, "productId": productID},
		bson.M{"$set": bson.M(set)},
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteReview(ctx context.Context, productID, reviewID string) error {
	if _, err := s.reviews.DeleteOne(ctx, bson.M{"_id": reviewID, "productId": productID}); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func (s *MongoStore) ListReviews(ctx context.Context, productID string) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.reviews.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]models.Review, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return out, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u models.User) error {
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if IsDuplicateKey(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *MongoStore) InsertRefreshToken(ctx context.Context, rt models.RefreshToken) error {
	if _, err := s.refreshTokens.InsertOne(ctx, rt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (s *MongoStore) FindActiveRefreshToken(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.refreshTokens.FindOne(ctx, bson.M{
		"tokenHash": hash,
		"revokedAt": bson.M{"$exists": false},
		"expiresAt": bson.M{"$gt": now},
	}).Decode(&rt)
	if err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks an active token revoked. It returns
// models.ErrNotFound when no active token matched, which is how a second
// concurrent revoke of the same token loses.
func (s *MongoStore) RevokeRefreshToken(ctx context.Context, hash string, now time.Time, replacedBy *string) error {
	set := bson.M{"revokedAt": now}
	if replacedBy != nil {
		set["replacedBy"] = *replacedBy
	}
	res, err := s.refreshTokens.UpdateOne(ctx, bson.M{
		"tokenHash": hash,
		"revokedAt": bson.M{"$exists": false},
		"expiresAt": bson.M{"$gt": now},
	}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

func IsDuplicateKey(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "E11000 duplicate key error")
}
