// internal/app/store/trash/trashstore.go
package trashstore

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

// Store provides access to the trash_entries collection.
type Store struct {
	c *mongo.Collection
}

// New creates a trash store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("trash_entries")}
}

var ErrNotFound = errors.New("trash entry not found")

// Add records a soft-deleted object.
func (s *Store) Add(ctx context.Context, originalPath, trashPath, deletedBy string) (models.TrashEntry, error) {
	e := models.TrashEntry{
		ID:           primitive.NewObjectID(),
		OriginalPath: originalPath,
		TrashPath:    trashPath,
		DeletedBy:    deletedBy,
		DeletedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.TrashEntry{}, err
	}
	return e, nil
}

// Get loads one trash entry.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.TrashEntry, error) {
	var e models.TrashEntry
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.TrashEntry{}, ErrNotFound
	}
	if err != nil {
		return models.TrashEntry{}, err
	}
	return e, nil
}

// List returns all trash entries, newest first.
func (s *Store) List(ctx context.Context) ([]models.TrashEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TrashEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OlderThan returns entries deleted before the cutoff, for the purge job.
func (s *Store) OlderThan(ctx context.Context, cutoff time.Time) ([]models.TrashEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{"deleted_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TrashEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a trash entry row (after restore or purge).
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
