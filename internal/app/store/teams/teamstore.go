// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/filedock/filedock/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages teams and the team_memberships join collection.
type Store struct {
	teams       *mongo.Collection
	memberships *mongo.Collection
	users       *mongo.Collection
}

// New creates a team store.
func New(db *mongo.Database) *Store {
	return &Store{
		teams:       db.Collection("teams"),
		memberships: db.Collection("team_memberships"),
		users:       db.Collection("users"),
	}
}

var (
	ErrDuplicateMembership = errors.New("user is already a member of this team")
	ErrUnknownUser         = errors.New("user does not exist")
	ErrNotFound            = errors.New("team not found")
)

// Create inserts a new team and returns its id.
func (s *Store) Create(ctx context.Context, name string, perms models.PermissionBundle) (models.Team, error) {
	now := time.Now().UTC()
	t := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Perms:     perms,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.teams.InsertOne(ctx, t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// Get loads a team by id.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	err := s.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Team{}, ErrNotFound
	}
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// List returns all teams ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Team, error) {
	cur, err := s.teams.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the team's name and permission bundle. Callers must
// invalidate any resolver caches after a successful write.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name string, perms models.PermissionBundle) error {
	res, err := s.teams.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":       name,
			"perms":      perms,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the team row. Membership rows are left behind and
// tolerated as dangling by lookups; RemoveAllMembers cleans them up.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.teams.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddMember creates a membership after verifying the user exists.
func (s *Store) AddMember(ctx context.Context, teamID primitive.ObjectID, username string) error {
	count, err := s.users.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUnknownUser
	}

	doc := bson.M{
		"team_id":    teamID,
		"username":   username,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.memberships.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// RemoveMember deletes the membership document for (teamID, username).
func (s *Store) RemoveMember(ctx context.Context, teamID primitive.ObjectID, username string) error {
	res, err := s.memberships.DeleteOne(ctx, bson.M{"team_id": teamID, "username": username})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveAllMembers deletes every membership row for a team.
func (s *Store) RemoveAllMembers(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.memberships.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Members returns the usernames in a team in membership order.
func (s *Store) Members(ctx context.Context, teamID primitive.ObjectID) ([]string, error) {
	cur, err := s.memberships.Find(ctx,
		bson.M{"team_id": teamID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.TeamMembership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.Username)
	}
	return out, nil
}
