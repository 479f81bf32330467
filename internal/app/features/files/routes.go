// internal/app/features/files/routes.go
package files

import (
	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the file operation routes (typically under "/files").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/upload", h.ServeUpload)
		pr.Put("/save", h.ServeSave)
		pr.Post("/rename", h.ServeRename)
		pr.Post("/folder", h.ServeCreateFolder)
		pr.Delete("/", h.ServeDelete)
		pr.Get("/download", h.ServeDownload)
	})

	return r
}
