package grantstore_test

import (
	"testing"
	"time"

	grantstore "github.com/filedock/filedock/internal/app/store/grants"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/filedock/filedock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Set_RetiresPriorGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := &models.FileGrant{
		FilePath:   "reports/q1.pdf",
		TargetType: models.TargetUser,
		TargetID:   "alice",
		Perms:      models.PermissionSet{CanDownload: true},
		CreatedBy:  "admin",
	}
	if err := store.Set(ctx, first); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}

	second := &models.FileGrant{
		FilePath:   "reports/q1.pdf",
		TargetType: models.TargetUser,
		TargetID:   "alice",
		Perms:      models.PermissionSet{CanEdit: true},
		CreatedBy:  "admin",
	}
	if err := store.Set(ctx, second); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	// Only the newest grant survives: no merging of permission sets.
	g, found, err := store.GetActive(ctx, "reports/q1.pdf", models.TargetUser, "alice")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if !found {
		t.Fatal("expected an active grant")
	}
	if g.Perms.CanDownload {
		t.Error("old grant's can_download leaked into the replacement")
	}
	if !g.Perms.CanEdit {
		t.Error("expected replacement grant's can_edit")
	}

	all, err := store.ListForPath(ctx, "reports/q1.pdf")
	if err != nil {
		t.Fatalf("ListForPath failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected exactly one surviving grant, got %d", len(all))
	}
}

func TestStore_GetActive_ExcludesExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past := time.Now().UTC().Add(-time.Hour)
	fixtures.CreateGrant(ctx, "docs/spec.txt", models.TargetUser, "bob",
		models.PermissionSet{CanDownload: true}, &past)

	// The row is still physically present (no sweep has run) but must
	// not resolve.
	_, found, err := store.GetActive(ctx, "docs/spec.txt", models.TargetUser, "bob")
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if found {
		t.Error("expired grant resolved as active")
	}
}

func TestStore_FindForPath_UserBeforeTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamID := primitive.NewObjectID()
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetTeam, teamID.Hex(),
		models.PermissionSet{CanEdit: true}, nil)
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetUser, "carol",
		models.PermissionSet{CanDownload: true}, nil)

	g, found, err := store.FindForPath(ctx, "shared/plan.md", "carol", []primitive.ObjectID{teamID})
	if err != nil {
		t.Fatalf("FindForPath failed: %v", err)
	}
	if !found {
		t.Fatal("expected a grant")
	}
	// The personal grant wins even though the team grant would allow
	// more; the first match is used alone.
	if g.TargetType != models.TargetUser {
		t.Errorf("expected the user grant to win, got target type %q", g.TargetType)
	}
	if g.Perms.CanEdit {
		t.Error("team grant's can_edit must not merge into the user grant")
	}
}

func TestStore_FindForPath_TeamOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamA := primitive.NewObjectID()
	teamB := primitive.NewObjectID()
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetTeam, teamA.Hex(),
		models.PermissionSet{CanDownload: true}, nil)
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetTeam, teamB.Hex(),
		models.PermissionSet{CanEdit: true}, nil)

	// Membership order decides which team grant is found.
	g, found, err := store.FindForPath(ctx, "shared/plan.md", "dave", []primitive.ObjectID{teamB, teamA})
	if err != nil {
		t.Fatalf("FindForPath failed: %v", err)
	}
	if !found {
		t.Fatal("expected a grant")
	}
	if g.TargetID != teamB.Hex() {
		t.Errorf("expected teamB's grant (first in membership order), got %s", g.TargetID)
	}
}

func TestStore_FindForPath_SkipsExpiredUserGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamID := primitive.NewObjectID()
	past := time.Now().UTC().Add(-time.Minute)
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetUser, "erin",
		models.PermissionSet{CanEdit: true}, &past)
	fixtures.CreateGrant(ctx, "shared/plan.md", models.TargetTeam, teamID.Hex(),
		models.PermissionSet{CanDownload: true}, nil)

	// With the personal grant expired, the team grant is the first
	// match.
	g, found, err := store.FindForPath(ctx, "shared/plan.md", "erin", []primitive.ObjectID{teamID})
	if err != nil {
		t.Fatalf("FindForPath failed: %v", err)
	}
	if !found {
		t.Fatal("expected the team grant")
	}
	if g.TargetType != models.TargetTeam {
		t.Errorf("expected the team grant, got %q", g.TargetType)
	}
}

func TestStore_SweepExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := grantstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	fixtures.CreateGrant(ctx, "a.txt", models.TargetUser, "u1", models.PermissionSet{}, &past)
	fixtures.CreateGrant(ctx, "b.txt", models.TargetUser, "u2", models.PermissionSet{}, &future)
	fixtures.CreateGrant(ctx, "c.txt", models.TargetUser, "u3", models.PermissionSet{}, nil)

	deleted, err := store.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 reclaimed grant, got %d", deleted)
	}

	// Permanent and future-dated grants survive the sweep.
	if _, found, _ := store.GetActive(ctx, "b.txt", models.TargetUser, "u2"); !found {
		t.Error("future-dated grant was swept")
	}
	if _, found, _ := store.GetActive(ctx, "c.txt", models.TargetUser, "u3"); !found {
		t.Error("permanent grant was swept")
	}
}
