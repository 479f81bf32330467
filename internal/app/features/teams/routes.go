// internal/app/features/teams/routes.go
package teams

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the team management routes (typically under "/teams").
// All of them are admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.RoleAdmin))

		ar.Get("/", h.ServeList)
		ar.Post("/", h.ServeCreate)
		ar.Get("/{id}", h.ServeGet)
		ar.Put("/{id}", h.ServeUpdate)
		ar.Delete("/{id}", h.ServeDelete)

		ar.Get("/{id}/members", h.ServeMembers)
		ar.Post("/{id}/members", h.ServeAddMember)
		ar.Delete("/{id}/members/{username}", h.ServeRemoveMember)
	})

	return r
}
