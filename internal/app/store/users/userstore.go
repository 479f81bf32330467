// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the principal store: it resolves a username to its user record
// and team memberships, and owns admin user management.
type Store struct {
	users       *mongo.Collection
	teams       *mongo.Collection
	memberships *mongo.Collection
}

// New creates a user store over the users, teams, and team_memberships
// collections.
func New(db *mongo.Database) *Store {
	return &Store{
		users:       db.Collection("users"),
		teams:       db.Collection("teams"),
		memberships: db.Collection("team_memberships"),
	}
}

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrNotFound          = errors.New("user not found")
	errBadRole           = errors.New(`role must be "admin", "employee", or "client"`)
)

// GetByUsername looks up a user. A missing user is (nil, false, nil), not
// an error; callers treat it as deny.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

// Create inserts a new user. The username must be unique.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	if !models.ValidRole(u.Role) {
		return errBadRole
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// Update replaces the mutable fields of an existing user.
func (s *Store) Update(ctx context.Context, username string, fullName, role string) error {
	if !models.ValidRole(role) {
		return errBadRole
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{
			"full_name":  fullName,
			"role":       role,
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

// SetPermissions replaces the user's whole permission bundle. Callers must
// invalidate any resolver caches after a successful write.
func (s *Store) SetPermissions(ctx context.Context, username string, perms models.PermissionBundle) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{
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

// SetPasswordHash stores a new bcrypt hash for the user.
func (s *Store) SetPasswordHash(ctx context.Context, username, hash string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{
			"password_hash": hash,
			"updated_at":    time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a user row. Membership rows are removed independently;
// a dangling membership is tolerated by lookups.
func (s *Store) Delete(ctx context.Context, username string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all users ordered by username.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TeamsOf resolves a username to its teams via the membership join, in
// membership insertion order. Memberships pointing at a deleted team are
// silently omitted.
func (s *Store) TeamsOf(ctx context.Context, username string) ([]models.Team, error) {
	cur, err := s.memberships.Find(ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.TeamMembership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(rows))
	for _, m := range rows {
		var t models.Team
		err := s.teams.FindOne(ctx, bson.M{"_id": m.TeamID}).Decode(&t)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// EffectivePermissions resolves the named permission set that applies to a
// user at a path: the all-true set for admins, the longest matching
// per-folder override otherwise, falling back to the global set when no
// override folder is an ancestor of the path. Overrides do not inherit
// unset fields from the global set.
func EffectivePermissions(u *models.User, path string) models.PermissionSet {
	if u.IsAdmin() {
		return models.AllTrue()
	}
	return BundleEffective(u.Perms, path)
}

// BundleEffective applies longest-prefix-wins override resolution to any
// permission bundle.
func BundleEffective(b models.PermissionBundle, path string) models.PermissionSet {
	if len(b.PerFolder) > 0 {
		keys := make([]string, 0, len(b.PerFolder))
		for k := range b.PerFolder {
			keys = append(keys, k)
		}
		set := pathmatch.NewPrefixSet(keys)
		if k, ok := set.LongestMatch(path); ok {
			// The stored key may carry a trailing slash the PrefixSet
			// normalized away.
			if perms, ok := lookupFolder(b.PerFolder, k); ok {
				return perms
			}
		}
	}
	return b.Global
}

func lookupFolder(m map[string]models.PermissionSet, key string) (models.PermissionSet, bool) {
	if p, ok := m[key]; ok {
		return p, true
	}
	if p, ok := m[key+"/"]; ok {
		return p, true
	}
	return models.PermissionSet{}, false
}
