// internal/app/features/systemusers/crud.go
package systemusers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,63}$`)
	namePolicy = bluemonday.StrictPolicy()
)

const minPasswordLen = 10

type createUserRequest struct {
	Username string                  `json:"username"`
	FullName string                  `json:"full_name"`
	Password string                  `json:"password"`
	Role     string                  `json:"role"`
	Perms    models.PermissionBundle `json:"perms"`
}

type updateUserRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ServeList handles GET /users/.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list users")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"users": users})
}

// ServeGet handles GET /users/{username}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, found, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		h.Log.Error("user get failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load user")
		return
	}
	if !found {
		api.Error(w, http.StatusNotFound, "user not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, u)
}

// ServeCreate handles POST /users/.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if !usernameRe.MatchString(req.Username) {
		api.Error(w, http.StatusBadRequest, "invalid username")
		return
	}
	if !models.ValidRole(req.Role) {
		api.Error(w, http.StatusBadRequest, "invalid role")
		return
	}
	if len(req.Password) < minPasswordLen {
		api.Error(w, http.StatusBadRequest, "password too short")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	u := &models.User{
		Username:     req.Username,
		FullName:     strings.TrimSpace(namePolicy.Sanitize(req.FullName)),
		PasswordHash: string(hash),
		Role:         req.Role,
		Perms:        req.Perms,
	}
	if err := h.Users.Create(r.Context(), u); err != nil {
		if errors.Is(err, userstore.ErrDuplicateUsername) {
			api.Error(w, http.StatusConflict, "username already exists")
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "user_create", "", u.Username)
	api.WriteJSON(w, http.StatusCreated, u)
}

// ServeUpdate handles PUT /users/{username}: full name and role.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req updateUserRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidRole(req.Role) {
		api.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	fullName := strings.TrimSpace(namePolicy.Sanitize(req.FullName))
	if err := h.Users.Update(r.Context(), username, fullName, req.Role); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("user update failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update user")
		return
	}

	// Role changes affect the admin short circuit.
	h.Resolver.Invalidate()
	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "user_update", "", username)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ServeDelete handles DELETE /users/{username}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	actor, _, _ := authz.UserCtx(r)
	if actor == username {
		api.Error(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.Users.Delete(r.Context(), username); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("user delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete user")
		return
	}

	h.Resolver.Invalidate()
	h.Audit.Record(r.Context(), actor, "user_delete", "", username)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
