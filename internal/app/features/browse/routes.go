// internal/app/features/browse/routes.go
package browse

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the browse routes under whatever base path the caller
// chooses (typically "/browse" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/content", h.ServeContent)
		pr.Get("/public-url", h.ServePublicURL)
	})

	return r
}
