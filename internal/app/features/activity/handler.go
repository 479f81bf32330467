// internal/app/features/activity/handler.go
package activity

import (
	"net/http"
	"strconv"

	"github.com/filedock/filedock/internal/app/store/activity"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultFeedLimit = 100

// Handler serves the admin activity feed.
type Handler struct {
	Activity *activitystore.Store
	Log      *zap.Logger
}

// NewHandler constructs an activity Handler.
func NewHandler(activity *activitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Activity: activity, Log: logger}
}

// Routes mounts the activity routes (typically under "/activity").
// Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.RoleAdmin))
		ar.Get("/", h.ServeRecent)
	})

	return r
}

// ServeRecent handles GET /activity/?limit=N, newest first.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultFeedLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 1000 {
			api.Error(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := h.Activity.Recent(r.Context(), limit)
	if err != nil {
		h.Log.Error("activity feed failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load activity")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
