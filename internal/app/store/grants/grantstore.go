// internal/app/store/grants/grantstore.go
package grantstore

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

// Store provides CRUD over file_grants rows. Expiry is filtered at read
// time in every lookup; SweepExpired only reclaims rows the filters
// already exclude, so it is safe to run concurrently with lookups.
type Store struct {
	c *mongo.Collection
}

// New creates a grant store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("file_grants")}
}

var ErrNotFound = errors.New("grant not found")

// activeFilter matches rows that have not expired as of now.
func activeFilter(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$exists": false}},
		bson.M{"expires_at": nil},
		bson.M{"expires_at": bson.M{"$gt": now}},
	}}
}

// GetActive fetches the live grant for an exact (path, targetType,
// targetID) triple. Expired rows are excluded whether or not the sweep has
// physically deleted them.
func (s *Store) GetActive(ctx context.Context, filePath, targetType, targetID string) (*models.FileGrant, bool, error) {
	filter := bson.M{
		"file_path":   filePath,
		"target_type": targetType,
		"target_id":   targetID,
		"$and":        bson.A{activeFilter(time.Now().UTC())},
	}

	var g models.FileGrant
	err := s.c.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &g, true, nil
}

// FindForPath returns the first live grant reachable by the user at the
// exact path: the user's personal grant if one exists, otherwise each team
// grant in membership order. The first hit wins and its permission set is
// used as-is; grants are never merged across sources, so a personal grant
// pre-empts a team grant even when the team grant is broader.
func (s *Store) FindForPath(ctx context.Context, filePath, username string, teamIDs []primitive.ObjectID) (*models.FileGrant, bool, error) {
	g, ok, err := s.GetActive(ctx, filePath, models.TargetUser, username)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return g, true, nil
	}

	for _, id := range teamIDs {
		g, ok, err := s.GetActive(ctx, filePath, models.TargetTeam, id.Hex())
		if err != nil {
			return nil, false, err
		}
		if ok {
			return g, true, nil
		}
	}
	return nil, false, nil
}

// Set creates a grant for a triple, retiring any prior rows for the same
// triple (write-then-delete-prior). A concurrent Set for the same triple
// resolves to last-write-wins; neither writer is rejected.
func (s *Store) Set(ctx context.Context, g *models.FileGrant) error {
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	g.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return err
	}

	// Retire every other row for the triple, including expired leftovers.
	_, err := s.c.DeleteMany(ctx, bson.M{
		"file_path":   g.FilePath,
		"target_type": g.TargetType,
		"target_id":   g.TargetID,
		"_id":         bson.M{"$ne": g.ID},
	})
	return err
}

// GetByID loads a grant row regardless of expiry.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FileGrant, error) {
	var g models.FileGrant
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteByID removes a grant row.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForPath returns every live grant at the exact path, newest first.
func (s *Store) ListForPath(ctx context.Context, filePath string) ([]models.FileGrant, error) {
	filter := bson.M{
		"file_path": filePath,
		"$and":      bson.A{activeFilter(time.Now().UTC())},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FileGrant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForTarget returns every live grant held by a target, for admin views.
func (s *Store) ListForTarget(ctx context.Context, targetType, targetID string) ([]models.FileGrant, error) {
	filter := bson.M{
		"target_type": targetType,
		"target_id":   targetID,
		"$and":        bson.A{activeFilter(time.Now().UTC())},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "file_path", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FileGrant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SweepExpired physically deletes rows whose expiry has passed and returns
// the count. Idempotent; lookups filter expiry independently, so running
// the sweep concurrently with in-flight decisions changes no answer.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$ne": nil, "$lte": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
