// internal/app/features/grants/routes.go
package grants

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the grant management routes (typically under "/grants").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.ServeCreate)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.RoleAdmin))
		ar.Get("/", h.ServeList)
		ar.Delete("/{id}", h.ServeDelete)
		ar.Post("/sweep", h.ServeSweep)
	})

	return r
}
