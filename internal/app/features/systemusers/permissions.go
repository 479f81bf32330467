// internal/app/features/systemusers/permissions.go
package systemusers

import (
	"errors"
	"net/http"

	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type setPermissionsRequest struct {
	Perms models.PermissionBundle `json:"perms"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// ServeSetPermissions handles PUT /users/{username}/permissions: replaces
// the user's whole permission bundle and invalidates the resolver cache
// so the change takes effect immediately.
func (h *Handler) ServeSetPermissions(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req setPermissionsRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	normalizeBundle(&req.Perms)

	if err := h.Users.SetPermissions(r.Context(), username, req.Perms); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("set permissions failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update permissions")
		return
	}

	h.Resolver.Invalidate()
	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "user_permissions", "", username)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ServeSetPassword handles PUT /users/{username}/password.
func (h *Handler) ServeSetPassword(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req setPasswordRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Password) < minPasswordLen {
		api.Error(w, http.StatusBadRequest, "password too short")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update password")
		return
	}

	if err := h.Users.SetPasswordHash(r.Context(), username, string(hash)); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("set password failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update password")
		return
	}

	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "user_password", "", username)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// normalizeBundle canonicalizes the stored path keys so lookups against
// normalized request paths match.
func normalizeBundle(b *models.PermissionBundle) {
	for i, p := range b.AllowedPaths {
		if p == models.PathWildcard {
			continue
		}
		b.AllowedPaths[i] = pathmatch.Normalize(p)
	}
	if len(b.PerFolder) > 0 {
		clean := make(map[string]models.PermissionSet, len(b.PerFolder))
		for k, v := range b.PerFolder {
			clean[pathmatch.Normalize(k)] = v
		}
		b.PerFolder = clean
	}
}
