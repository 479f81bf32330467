// internal/app/features/grants/manage.go
package grants

import (
	"errors"
	"net/http"

	"github.com/filedock/filedock/internal/app/store/grants"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errUnknownTarget = errors.New("unknown grant target")

// ServeList handles GET /grants/?path=... (admin). With a path it lists
// that path's grants; with a target_type/target_id pair it lists the
// target's grants. Expired rows never appear.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		out []models.FileGrant
		err error
	)
	switch {
	case q.Get("path") != "":
		out, err = h.Grants.ListForPath(r.Context(), pathmatch.Normalize(q.Get("path")))
	case q.Get("target_type") != "" && q.Get("target_id") != "":
		if !models.ValidTargetType(q.Get("target_type")) {
			api.Error(w, http.StatusBadRequest, "target_type must be user or team")
			return
		}
		out, err = h.Grants.ListForTarget(r.Context(), q.Get("target_type"), q.Get("target_id"))
	default:
		api.Error(w, http.StatusBadRequest, "path or target_type+target_id is required")
		return
	}
	if err != nil {
		h.Log.Error("grant list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list grants")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"grants": out})
}

// ServeDelete handles DELETE /grants/{id} (admin).
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid grant id")
		return
	}

	g, err := h.Grants.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, grantstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "grant not found")
			return
		}
		h.Log.Error("grant lookup failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete grant")
		return
	}

	if err := h.Grants.DeleteByID(r.Context(), id); err != nil {
		h.Log.Error("grant delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete grant")
		return
	}

	h.Resolver.Invalidate()
	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "grant_delete", g.FilePath, g.TargetType+":"+g.TargetID)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeSweep handles POST /grants/sweep (admin): physically removes
// expired grant rows. Purely a storage reclaim; resolution already
// ignores expired grants.
func (h *Handler) ServeSweep(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Grants.SweepExpired(r.Context())
	if err != nil {
		h.Log.Error("grant sweep failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not sweep grants")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
