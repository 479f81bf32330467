// internal/app/features/sharelinks/actions.go
package sharelinks

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/filedock/filedock/internal/app/store/sharelinks"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const redeemURLExpiry = 5 * time.Minute

type createLinkRequest struct {
	Path      string `json:"path"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// ServeCreate handles POST /share/.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path := pathmatch.Normalize(req.Path)
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "expires_at must be RFC 3339")
			return
		}
		t = t.UTC()
		if !t.After(time.Now().UTC()) {
			api.Error(w, http.StatusBadRequest, "expires_at must be in the future")
			return
		}
		expiresAt = &t
	}

	res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermDownload, path); !res.OK {
		return
	}

	link, err := h.Links.Create(r.Context(), path, res.Username, expiresAt)
	if err != nil {
		h.Log.Error("share link create failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create share link")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "share_create", path, "")
	api.WriteJSON(w, http.StatusCreated, link)
}

// ServeList handles GET /share/: the caller's own links.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	links, err := h.Links.ListForUser(r.Context(), res.Username)
	if err != nil {
		h.Log.Error("share link list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list share links")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"links": links})
}

// ServeDelete handles DELETE /share/{id}. Only the creator or an admin
// may revoke a link.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid link id")
		return
	}

	if res.Role != models.RoleAdmin {
		links, err := h.Links.ListForUser(r.Context(), res.Username)
		if err != nil {
			h.Log.Error("share link lookup failed", zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not delete share link")
			return
		}
		mine := false
		for _, l := range links {
			if l.ID == id {
				mine = true
				break
			}
		}
		if !mine {
			api.Denied(w)
			return
		}
	}

	if err := h.Links.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sharelinkstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "share link not found")
			return
		}
		h.Log.Error("share link delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete share link")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "share_delete", "", id.Hex())
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ServeRedeem handles GET /s/{token}: no session required. A live token
// redirects to a short presigned URL; anything else is a uniform 404 so
// the endpoint leaks nothing about which tokens exist.
func (h *Handler) ServeRedeem(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	link, err := h.Links.Redeem(r.Context(), token)
	if err != nil {
		if errors.Is(err, sharelinkstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "not found")
			return
		}
		h.Log.Error("share link redeem failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not redeem link")
		return
	}

	name := link.FilePath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	url, err := h.Objects.PresignedGet(r.Context(), link.FilePath, redeemURLExpiry, name)
	if err != nil {
		h.Log.Error("share link presign failed", zap.String("path", link.FilePath), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not redeem link")
		return
	}

	h.Audit.Record(r.Context(), "", "share_redeem", link.FilePath, token)
	http.Redirect(w, r, url, http.StatusFound)
}
