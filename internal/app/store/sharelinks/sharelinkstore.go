// internal/app/store/sharelinks/sharelinkstore.go
package sharelinkstore

import (
	"context"
	"errors"
	"time"

	"github.com/filedock/filedock/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the share_links collection.
type Store struct {
	c *mongo.Collection
}

// New creates a share link store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("share_links")}
}

var ErrNotFound = errors.New("share link not found")

// Create issues a new token-addressed link for a file.
func (s *Store) Create(ctx context.Context, filePath, createdBy string, expiresAt *time.Time) (models.ShareLink, error) {
	link := models.ShareLink{
		ID:        primitive.NewObjectID(),
		Token:     uuid.NewString(),
		FilePath:  filePath,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, link); err != nil {
		return models.ShareLink{}, err
	}
	return link, nil
}

// Redeem resolves a token to its live link. Expired links are excluded at
// read time like grants.
func (s *Store) Redeem(ctx context.Context, token string) (models.ShareLink, error) {
	filter := bson.M{
		"token": token,
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": time.Now().UTC()}},
		},
	}
	var link models.ShareLink
	err := s.c.FindOne(ctx, filter).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return models.ShareLink{}, ErrNotFound
	}
	if err != nil {
		return models.ShareLink{}, err
	}
	return link, nil
}

// ListForUser returns the links a user created, newest first.
func (s *Store) ListForUser(ctx context.Context, username string) ([]models.ShareLink, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"created_by": username},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ShareLink
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete revokes a link.
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

// SweepExpired physically deletes expired links and returns the count.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$ne": nil, "$lte": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
