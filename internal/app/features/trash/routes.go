// internal/app/features/trash/routes.go
package trash

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the trash routes (typically under "/trash"). Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(sm.RequireRole(models.RoleAdmin))

		ar.Get("/", h.ServeList)
		ar.Post("/{id}/restore", h.ServeRestore)
		ar.Delete("/{id}", h.ServePurge)
	})

	return r
}
