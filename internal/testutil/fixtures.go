// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/filedock/filedock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given permission bundle.
func (f *Fixtures) CreateUser(ctx context.Context, username, role string, perms models.PermissionBundle) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		FullName:     "Test " + username,
		PasswordHash: "$2a$10$not.a.real.hash.for.tests.only......................",
		Role:         role,
		Perms:        perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleAdmin, models.PermissionBundle{})
}

// CreateTeam inserts a team with the given permission bundle.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, perms models.PermissionBundle) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Perms:     perms,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

// AddMembership joins a user to a team. The at time controls membership
// ordering, which decides team grant lookup order.
func (f *Fixtures) AddMembership(ctx context.Context, teamID primitive.ObjectID, username string, at time.Time) {
	f.t.Helper()

	m := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Username:  username,
		CreatedAt: at,
	}
	if _, err := f.db.Collection("team_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("add membership %s: %v", username, err)
	}
}

// CreateGrant inserts a file grant. A nil expiresAt is a permanent grant.
func (f *Fixtures) CreateGrant(ctx context.Context, filePath, targetType, targetID string, perms models.PermissionSet, expiresAt *time.Time) models.FileGrant {
	f.t.Helper()

	g := models.FileGrant{
		ID:         primitive.NewObjectID(),
		FilePath:   filePath,
		TargetType: targetType,
		TargetID:   targetID,
		Perms:      perms,
		ExpiresAt:  expiresAt,
		CreatedBy:  "fixtures",
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("file_grants").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("create grant for %s: %v", filePath, err)
	}
	return g
}
