package files_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filedock/filedock/internal/app/features/files"
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/filedock/filedock/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeDirectory struct {
	users map[string]*models.User
}

func (d *fakeDirectory) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	u, ok := d.users[username]
	return u, ok, nil
}

func (d *fakeDirectory) TeamsOf(ctx context.Context, username string) ([]models.Team, error) {
	return nil, nil
}

type fakeGrants struct{}

func (g *fakeGrants) FindForPath(ctx context.Context, filePath, username string, teamIDs []primitive.ObjectID) (*models.FileGrant, bool, error) {
	return nil, false, nil
}

func newHandler(dir *fakeDirectory) *files.Handler {
	resolver := accesspolicy.New(dir, &fakeGrants{}, zap.NewNop())
	return files.NewHandler(nil, resolver, nil, nil, zap.NewNop())
}

func TestServeSave_DeniedWithoutEditPermission(t *testing.T) {
	// The path is reachable and writable, but can_edit is off.
	dir := &fakeDirectory{users: map[string]*models.User{
		"erin": {
			Username: "erin",
			Role:     models.RoleEmployee,
			Perms: models.PermissionBundle{
				Global:       models.PermissionSet{CanUpload: true},
				AllowedPaths: []string{models.PathWildcard},
			},
		},
	}}
	h := newHandler(dir)

	body := `{"path":"docs/readme.md","content":"hello"}`
	req := httptest.NewRequest("PUT", "/files/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.EmployeeUser("erin"))

	rec := httptest.NewRecorder()
	h.ServeSave(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestServeSave_UnknownUserDenied(t *testing.T) {
	// A session naming a user the store has no record of fails closed.
	h := newHandler(&fakeDirectory{users: map[string]*models.User{}})

	body := `{"path":"docs/readme.md","content":"hello"}`
	req := httptest.NewRequest("PUT", "/files/save", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.EmployeeUser("ghost"))

	rec := httptest.NewRecorder()
	h.ServeSave(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestServeRename_RejectsMoveIntoSelf(t *testing.T) {
	h := newHandler(&fakeDirectory{users: map[string]*models.User{}})

	body := `{"from":"projects","to":"projects/sub"}`
	req := httptest.NewRequest("POST", "/files/rename", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.EmployeeUser("erin"))

	rec := httptest.NewRecorder()
	h.ServeRename(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeUpload_InvalidForm(t *testing.T) {
	h := newHandler(&fakeDirectory{users: map[string]*models.User{}})

	req := httptest.NewRequest("POST", "/files/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, testutil.EmployeeUser("erin"))

	rec := httptest.NewRecorder()
	h.ServeUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestServeDelete_MissingPath(t *testing.T) {
	h := newHandler(&fakeDirectory{users: map[string]*models.User{}})

	req := testutil.WithUser(httptest.NewRequest("DELETE", "/files/", nil), testutil.EmployeeUser("erin"))
	rec := httptest.NewRecorder()
	h.ServeDelete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
