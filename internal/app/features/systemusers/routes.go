// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user management routes (typically under "/users").
// All of them are admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.RoleAdmin))

		ar.Get("/", h.ServeList)
		ar.Post("/", h.ServeCreate)
		ar.Get("/{username}", h.ServeGet)
		ar.Put("/{username}", h.ServeUpdate)
		ar.Delete("/{username}", h.ServeDelete)

		ar.Put("/{username}/permissions", h.ServeSetPermissions)
		ar.Put("/{username}/password", h.ServeSetPassword)
	})

	return r
}
