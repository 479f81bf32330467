package activity_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filedock/filedock/internal/app/features/activity"
	activitystore "github.com/filedock/filedock/internal/app/store/activity"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/filedock/filedock/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRecent_LimitValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := activity.NewHandler(activitystore.New(db), zap.NewNop())

	for _, raw := range []string{"0", "-5", "1001", "abc"} {
		req := testutil.WithUser(testutil.NewRequest("GET", "/activity/?limit="+raw), testutil.AdminUser())
		rec := httptest.NewRecorder()
		h.ServeRecent(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestServeRecent_ReturnsEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := activitystore.New(db)
	entry := models.ActivityEntry{
		Username: "alice",
		Action:   "file_upload",
		Path:     "docs/a.txt",
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	h := activity.NewHandler(store, zap.NewNop())
	req := testutil.WithUser(testutil.NewRequest("GET", "/activity/"), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeRecent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file_upload") {
		t.Errorf("entry missing from feed: %s", rec.Body.String())
	}
}
