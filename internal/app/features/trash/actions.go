// internal/app/features/trash/actions.go
package trash

import (
	"errors"
	"net/http"

	"github.com/filedock/filedock/internal/app/store/trash"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /trash/.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Trash.List(r.Context())
	if err != nil {
		h.Log.Error("trash list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list trash")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// ServeRestore handles POST /trash/{id}/restore: moves the object (or
// subtree) back to its original path and drops the trash entry.
func (h *Handler) ServeRestore(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.moveTree(r, entry.TrashPath, entry.OriginalPath); err != nil {
		h.Log.Error("trash restore failed",
			zap.String("trash_path", entry.TrashPath),
			zap.String("original_path", entry.OriginalPath),
			zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not restore")
		return
	}

	if err := h.Trash.Delete(r.Context(), entry.ID); err != nil {
		h.Log.Error("trash entry delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not restore")
		return
	}

	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "trash_restore", entry.OriginalPath, "")
	api.WriteJSON(w, http.StatusOK, map[string]string{"restored": entry.OriginalPath})
}

// ServePurge handles DELETE /trash/{id}: permanently removes the trashed
// object and its entry.
func (h *Handler) ServePurge(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.deleteTree(r, entry.TrashPath); err != nil {
		h.Log.Error("trash purge failed", zap.String("trash_path", entry.TrashPath), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not purge")
		return
	}

	if err := h.Trash.Delete(r.Context(), entry.ID); err != nil {
		h.Log.Error("trash entry delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not purge")
		return
	}

	actor, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), actor, "trash_purge", entry.OriginalPath, "")
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "purged"})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (models.TrashEntry, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid trash id")
		return models.TrashEntry{}, false
	}

	entry, err := h.Trash.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, trashstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "trash entry not found")
			return models.TrashEntry{}, false
		}
		h.Log.Error("trash lookup failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load trash entry")
		return models.TrashEntry{}, false
	}
	return entry, true
}

// moveTree restores src to dst whether the trashed item was a single
// object or a folder subtree.
func (h *Handler) moveTree(r *http.Request, src, dst string) error {
	isFile, err := h.Objects.Exists(r.Context(), src)
	if err != nil {
		return err
	}
	if isFile {
		return h.Objects.Move(r.Context(), src, dst)
	}
	_, err = h.Objects.MovePrefix(r.Context(), src+"/", dst+"/")
	return err
}

func (h *Handler) deleteTree(r *http.Request, path string) error {
	isFile, err := h.Objects.Exists(r.Context(), path)
	if err != nil {
		return err
	}
	if isFile {
		return h.Objects.Delete(r.Context(), path)
	}
	_, err = h.Objects.DeletePrefix(r.Context(), path+"/")
	return err
}
