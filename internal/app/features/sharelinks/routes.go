// internal/app/features/sharelinks/routes.go
package sharelinks

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the authenticated share link management routes
// (typically under "/share").
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

// PublicRoutes mounts the unauthenticated redeem route (typically under
// "/s").
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{token}", h.ServeRedeem)
	return r
}
