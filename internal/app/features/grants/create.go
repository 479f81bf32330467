// internal/app/features/grants/create.go
package grants

import (
	"net/http"
	"time"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Path       string               `json:"path"`
	TargetType string               `json:"target_type"`
	TargetID   string               `json:"target_id"`
	Perms      models.PermissionSet `json:"perms"`
	ExpiresAt  string               `json:"expires_at,omitempty"`
}

// ServeCreate handles POST /grants/. Admins may grant anything; other
// users may share a path they can write, limited to permissions they
// themselves hold there.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	var req createRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path := pathmatch.Normalize(req.Path)
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}
	if !models.ValidTargetType(req.TargetType) {
		api.Error(w, http.StatusBadRequest, "target_type must be user or team")
		return
	}
	if req.TargetID == "" {
		api.Error(w, http.StatusBadRequest, "target_id is required")
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

	if err := h.validateTarget(r, req.TargetType, req.TargetID); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if res.Role != models.RoleAdmin {
		if !h.allowDelegation(w, r, path, req.Perms) {
			return
		}
	}

	g := &models.FileGrant{
		FilePath:   path,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Perms:      req.Perms,
		ExpiresAt:  expiresAt,
		CreatedBy:  res.Username,
	}
	if err := h.Grants.Set(r.Context(), g); err != nil {
		h.Log.Error("grant create failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create grant")
		return
	}

	h.Resolver.Invalidate()
	h.Audit.Record(r.Context(), res.Username, "grant_create", path, req.TargetType+":"+req.TargetID)
	api.WriteJSON(w, http.StatusCreated, g)
}

// allowDelegation enforces the sharing rule for non-admin grantors: the
// grantor must be able to write the path and must hold, at that path,
// every permission the new grant switches on. Writes the error response
// itself and reports whether the caller may proceed.
func (h *Handler) allowDelegation(w http.ResponseWriter, r *http.Request, path string, perms models.PermissionSet) bool {
	res := gates.RequireWrite(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return false
	}
	for _, name := range models.AllPermissions {
		if !perms.Has(name) {
			continue
		}
		if res = gates.RequirePermission(w, r, h.Resolver, h.Log, name, path); !res.OK {
			return false
		}
	}
	return true
}

func (h *Handler) validateTarget(r *http.Request, targetType, targetID string) error {
	switch targetType {
	case models.TargetUser:
		_, found, err := h.Users.GetByUsername(r.Context(), targetID)
		if err != nil {
			return errUnknownTarget
		}
		if !found {
			return errUnknownTarget
		}
	case models.TargetTeam:
		oid, err := primitive.ObjectIDFromHex(targetID)
		if err != nil {
			return errUnknownTarget
		}
		if _, err := h.Teams.Get(r.Context(), oid); err != nil {
			return errUnknownTarget
		}
	}
	return nil
}
