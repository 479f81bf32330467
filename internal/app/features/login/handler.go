// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"strings"

	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler authenticates username/password credentials and establishes a
// session.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(users *userstore.Store, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Sessions: sessions, Log: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ServeLogin handles POST /login. Wrong username and wrong password get
// the same response.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		api.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, found, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		api.Error(w, http.StatusServiceUnavailable, "try again")
		return
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		api.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	su := &auth.SessionUser{
		Username: u.Username,
		Name:     u.FullName,
		Role:     u.Role,
	}
	if err := h.Sessions.SignIn(w, r, su); err != nil {
		h.Log.Error("session create failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not sign in")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{
		"username": u.Username,
		"role":     u.Role,
	})
}
