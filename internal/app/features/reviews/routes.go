// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the review routes (typically under "/reviews").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Delete("/{id}", h.ServeDelete)
	})

	return r
}
