// internal/app/features/files/save.go
package files

import (
	"net/http"
	"strings"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

type saveRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ServeSave handles PUT /files/save: replace a file's content from the
// in-browser editor.
func (h *Handler) ServeSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	path := pathmatch.Normalize(req.Path)
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	res := gates.RequireWrite(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermEdit, path); !res.OK {
		return
	}

	body := strings.NewReader(req.Content)
	if err := h.Objects.Put(r.Context(), path, body, int64(len(req.Content)), "text/plain; charset=utf-8"); err != nil {
		h.Log.Error("save failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not save file")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "save", path, "")
	api.WriteJSON(w, http.StatusOK, map[string]any{"path": path, "size": len(req.Content)})
}
