// internal/app/features/files/folder.go
package files

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// ServeCreateFolder handles POST /files/folder. Object stores have no
// real folders, so a marker object is written to make the empty folder
// visible in listings.
func (h *Handler) ServeCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := sanitizeFilename(req.Name)
	if name == "" {
		api.Error(w, http.StatusBadRequest, "invalid folder name")
		return
	}
	parent := pathmatch.Normalize(req.Path)
	folder := joinPath(parent, name)

	res := gates.RequireWrite(w, r, h.Resolver, h.Log, parent)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermCreateFolder, parent); !res.OK {
		return
	}

	if err := h.Objects.PutFolderMarker(r.Context(), folder); err != nil {
		h.Log.Error("create folder failed", zap.String("path", folder), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create folder")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "create_folder", folder, "")
	api.WriteJSON(w, http.StatusCreated, map[string]string{"path": folder})
}
