// internal/app/store/reviews/reviewstore.go
package reviewstore

import (
	"context"
	"errors"
	"time"

	"github.com/filedock/filedock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the reviews collection.
type Store struct {
	c *mongo.Collection
}

// New creates a review store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

var ErrNotFound = errors.New("review not found")

// Create inserts a review comment. The body is sanitized by the caller
// before it reaches the store.
func (s *Store) Create(ctx context.Context, filePath, username, body string) (models.Review, error) {
	rev := models.Review{
		ID:        primitive.NewObjectID(),
		FilePath:  filePath,
		Username:  username,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, rev); err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

// ListForPath returns all reviews on a file, newest first.
func (s *Store) ListForPath(ctx context.Context, filePath string) ([]models.Review, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"file_path": filePath},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one review.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var rev models.Review
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return models.Review{}, ErrNotFound
	}
	if err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

// Delete removes a review.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
