package teamstore_test

import (
	"errors"
	"testing"
	"time"

	teamstore "github.com/filedock/filedock/internal/app/store/teams"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/filedock/filedock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	perms := models.PermissionBundle{
		Global:       models.PermissionSet{CanDownload: true},
		AllowedPaths: []string{"shared"},
	}
	created, err := store.Create(ctx, "engineering", perms)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected an assigned id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "engineering" {
		t.Errorf("name: got %q", got.Name)
	}
	if !got.Perms.Global.CanDownload {
		t.Error("permission bundle lost on round trip")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Get(ctx, primitive.NewObjectID())
	if !errors.Is(err, teamstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Duplicate detection rides on the unique membership index the
	// production schema creates.
	_, err := db.Collection("team_memberships").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create membership index: %v", err)
	}

	team := fixtures.CreateTeam(ctx, "alpha", models.PermissionBundle{})
	fixtures.CreateUser(ctx, "alice", models.RoleEmployee, models.PermissionBundle{})

	if err := store.AddMember(ctx, team.ID, "alice"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// Second add of the same pair is rejected.
	err = store.AddMember(ctx, team.ID, "alice")
	if !errors.Is(err, teamstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}

	// Adding a user that does not exist is rejected.
	err = store.AddMember(ctx, team.ID, "ghost")
	if !errors.Is(err, teamstore.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestStore_RemoveAllMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "alpha", models.PermissionBundle{})
	now := time.Now().UTC()
	fixtures.AddMembership(ctx, team.ID, "alice", now)
	fixtures.AddMembership(ctx, team.ID, "bob", now.Add(time.Second))

	removed, err := store.RemoveAllMembers(ctx, team.ID)
	if err != nil {
		t.Fatalf("RemoveAllMembers failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed memberships, got %d", removed)
	}

	members, err := store.Members(ctx, team.ID)
	if err != nil {
		t.Fatalf("Members failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected no members, got %v", members)
	}
}
