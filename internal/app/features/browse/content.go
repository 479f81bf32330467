// internal/app/features/browse/content.go
package browse

import (
	"io"
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"go.uber.org/zap"
)

// ServeContent handles GET /browse/content?path=... and streams the
// object's bytes for in-browser viewing and editing.
func (h *Handler) ServeContent(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	if res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path); !res.OK {
		return
	}

	info, err := h.Objects.Stat(r.Context(), path)
	if err != nil {
		api.Error(w, http.StatusNotFound, "file not found")
		return
	}

	rc, err := h.Objects.Get(r.Context(), path)
	if err != nil {
		h.Log.Error("get content failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not read file")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if info.Size > 0 {
		w.Header().Set("Content-Length", formatInt(info.Size))
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("stream content interrupted", zap.String("path", path), zap.Error(err))
	}
}
