package grants_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filedock/filedock/internal/app/features/grants"
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	activitystore "github.com/filedock/filedock/internal/app/store/activity"
	grantstore "github.com/filedock/filedock/internal/app/store/grants"
	teamstore "github.com/filedock/filedock/internal/app/store/teams"
	userstore "github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/filedock/filedock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type emptyDirectory struct{}

func (emptyDirectory) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	return nil, false, nil
}

func (emptyDirectory) TeamsOf(ctx context.Context, username string) ([]models.Team, error) {
	return nil, nil
}

type emptyGrants struct{}

func (emptyGrants) FindForPath(ctx context.Context, filePath, username string, teamIDs []primitive.ObjectID) (*models.FileGrant, bool, error) {
	return nil, false, nil
}

func validationHandler() *grants.Handler {
	resolver := accesspolicy.New(emptyDirectory{}, emptyGrants{}, zap.NewNop())
	return grants.NewHandler(nil, nil, nil, resolver, nil, zap.NewNop())
}

func dbHandler(t *testing.T, db *mongo.Database) *grants.Handler {
	t.Helper()
	users := userstore.New(db)
	teams := teamstore.New(db)
	gs := grantstore.New(db)
	resolver := accesspolicy.New(users, gs, zap.NewNop())
	audit := auditlog.New(activitystore.New(db), zap.NewNop())
	return grants.NewHandler(gs, users, teams, resolver, audit, zap.NewNop())
}

func TestServeCreate_Unauthenticated(t *testing.T) {
	h := validationHandler()

	req := testutil.NewJSONRequest("POST", "/grants/", `{}`)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestServeCreate_RejectsBadTargetType(t *testing.T) {
	h := validationHandler()

	body := `{"path":"docs/a.txt","target_type":"group","target_id":"x"}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/grants/", body), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeCreate_RejectsPastExpiry(t *testing.T) {
	h := validationHandler()

	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	body := `{"path":"docs/a.txt","target_type":"user","target_id":"bob","expires_at":"` + past + `"}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/grants/", body), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeCreate_NonAdminCannotExceedOwnPermissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := dbHandler(t, db)

	// Frank can write and download under projects, but cannot delete.
	fixtures.CreateUser(ctx, "frank", models.RoleEmployee, models.PermissionBundle{
		Global:       models.PermissionSet{CanDownload: true},
		AllowedPaths: []string{"projects"},
	})
	fixtures.CreateUser(ctx, "gina", models.RoleClient, models.PermissionBundle{})

	body := `{"path":"projects/plan.md","target_type":"user","target_id":"gina","perms":{"can_delete":true}}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/grants/", body), testutil.EmployeeUser("frank"))
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServeCreate_AdminGrantsAndResolves(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := dbHandler(t, db)
	fixtures.CreateAdmin(ctx, "test-admin")
	fixtures.CreateUser(ctx, "hank", models.RoleClient, models.PermissionBundle{})

	body := `{"path":"reports/q3.pdf","target_type":"user","target_id":"hank","perms":{"can_download":true}}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/grants/", body), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// The grant both unlocks reachability and carries the permission.
	users := userstore.New(db)
	gs := grantstore.New(db)
	resolver := accesspolicy.New(users, gs, zap.NewNop())

	ok, err := resolver.CanNavigate(ctx, "hank", "reports/q3.pdf")
	if err != nil {
		t.Fatalf("CanNavigate failed: %v", err)
	}
	if !ok {
		t.Error("grant target cannot reach the granted file")
	}

	ok, err = resolver.HasNamedPermission(ctx, "hank", models.PermDownload, "reports/q3.pdf")
	if err != nil {
		t.Fatalf("HasNamedPermission failed: %v", err)
	}
	if !ok {
		t.Error("grant target lacks the granted can_download")
	}
}

func TestServeSweep_ReportsCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := dbHandler(t, db)

	past := time.Now().UTC().Add(-time.Hour)
	fixtures.CreateGrant(ctx, "x.txt", models.TargetUser, "u1", models.PermissionSet{}, &past)
	fixtures.CreateGrant(ctx, "y.txt", models.TargetUser, "u2", models.PermissionSet{}, nil)

	req := testutil.WithUser(testutil.NewRequest("POST", "/grants/sweep"), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeSweep(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !containsJSONNumber(body, "deleted", 1) {
		t.Errorf("unexpected sweep body: %s", body)
	}
}

func containsJSONNumber(body, key string, n int) bool {
	var parsed map[string]int
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return false
	}
	return parsed[key] == n
}
