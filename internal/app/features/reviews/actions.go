// internal/app/features/reviews/actions.go
package reviews

import (
	"errors"
	"net/http"
	"strings"

	"github.com/filedock/filedock/internal/app/store/reviews"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// bodyPolicy strips all markup from review bodies before storage.
var bodyPolicy = bluemonday.StrictPolicy()

const maxReviewLen = 4000

type createReviewRequest struct {
	Path string `json:"path"`
	Body string `json:"body"`
}

// ServeList handles GET /reviews/?path=...
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	if res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path); !res.OK {
		return
	}
	if res := gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermReview, path); !res.OK {
		return
	}

	out, err := h.Reviews.ListForPath(r.Context(), path)
	if err != nil {
		h.Log.Error("review list failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list reviews")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"reviews": out})
}

// ServeCreate handles POST /reviews/.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path := pathmatch.Normalize(req.Path)
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}
	body := strings.TrimSpace(bodyPolicy.Sanitize(req.Body))
	if body == "" {
		api.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if len(body) > maxReviewLen {
		api.Error(w, http.StatusBadRequest, "review is too long")
		return
	}

	res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermReview, path); !res.OK {
		return
	}

	review, err := h.Reviews.Create(r.Context(), path, res.Username, body)
	if err != nil {
		h.Log.Error("review create failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create review")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "review_create", path, "")
	api.WriteJSON(w, http.StatusCreated, review)
}

// ServeDelete handles DELETE /reviews/{id}. The author may delete their
// own review; admins may delete any.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid review id")
		return
	}

	review, err := h.Reviews.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, reviewstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "review not found")
			return
		}
		h.Log.Error("review lookup failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete review")
		return
	}

	if review.Username != res.Username && res.Role != models.RoleAdmin {
		api.Denied(w)
		return
	}

	if err := h.Reviews.Delete(r.Context(), id); err != nil {
		h.Log.Error("review delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete review")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "review_delete", review.FilePath, "")
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
