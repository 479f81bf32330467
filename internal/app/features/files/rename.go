// internal/app/features/files/rename.go
package files

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

type renameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ServeRename handles POST /files/rename for both renames and moves.
// Both endpoints of the move must be writable, and the edit permission
// must apply at the source.
func (h *Handler) ServeRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from := pathmatch.Normalize(req.From)
	to := pathmatch.Normalize(req.To)
	if from == "" || to == "" {
		api.Error(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if from == to {
		api.Error(w, http.StatusBadRequest, "from and to are the same path")
		return
	}
	if pathmatch.IsAncestorOrEqual(from, to) {
		api.Error(w, http.StatusBadRequest, "cannot move a folder into itself")
		return
	}

	res := gates.RequireWrite(w, r, h.Resolver, h.Log, from)
	if !res.OK {
		return
	}
	if res = gates.RequireWrite(w, r, h.Resolver, h.Log, to); !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermEdit, from); !res.OK {
		return
	}

	isFile, err := h.Objects.Exists(r.Context(), from)
	if err != nil {
		h.Log.Error("rename stat failed", zap.String("from", from), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not rename")
		return
	}

	if isFile {
		err = h.Objects.Move(r.Context(), from, to)
	} else {
		var moved int
		moved, err = h.Objects.MovePrefix(r.Context(), from+"/", to+"/")
		if err == nil && moved == 0 {
			api.Error(w, http.StatusNotFound, "file not found")
			return
		}
	}
	if err != nil {
		h.Log.Error("rename move failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not rename")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "rename", from, "to "+to)
	api.WriteJSON(w, http.StatusOK, map[string]string{"from": from, "to": to})
}
