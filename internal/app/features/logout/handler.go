// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler clears the session.
type Handler struct {
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs a logout Handler.
func NewHandler(sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Log: logger}
}

// Routes mounts the logout route at the router root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/logout", h.ServeLogout)
	return r
}

// ServeLogout handles POST /logout. Always succeeds, signed in or not.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
