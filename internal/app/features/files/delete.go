// internal/app/features/files/delete.go
package files

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrashPrefix is where soft-deleted objects live in the bucket. Paths
// under it are never listed by the browse feature.
const TrashPrefix = "trash"

// ServeDelete handles DELETE /files/?path=... by moving the object (or
// folder subtree) under the trash prefix and recording a trash entry so
// it can be restored or purged later.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	res := gates.RequireWrite(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermDelete, path); !res.OK {
		return
	}

	// Unique trash location so repeated deletes of the same name never
	// collide.
	trashPath := TrashPrefix + "/" + uuid.NewString() + "/" + path

	isFile, err := h.Objects.Exists(r.Context(), path)
	if err != nil {
		h.Log.Error("delete stat failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete")
		return
	}

	if isFile {
		err = h.Objects.Move(r.Context(), path, trashPath)
	} else {
		var moved int
		moved, err = h.Objects.MovePrefix(r.Context(), path+"/", trashPath+"/")
		if err == nil && moved == 0 {
			api.Error(w, http.StatusNotFound, "file not found")
			return
		}
	}
	if err != nil {
		h.Log.Error("delete move failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete")
		return
	}

	entry, err := h.Trash.Add(r.Context(), path, trashPath, res.Username)
	if err != nil {
		h.Log.Error("trash record failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not record deletion")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "delete", path, "")
	api.WriteJSON(w, http.StatusOK, entry)
}
