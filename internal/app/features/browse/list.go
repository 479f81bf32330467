// internal/app/features/browse/list.go
package browse

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

// listEntry is a listing row plus the action flags the client uses to
// decide which controls to show. The flags are advisory: every action
// endpoint re-checks on its own.
type listEntry struct {
	objstore.Entry
	Can map[string]bool `json:"can"`
}

type listResponse struct {
	Path    string      `json:"path"`
	Entries []listEntry `json:"entries"`
}

// ServeList handles GET /browse/?path=... and returns the folder's
// entries along with per-entry action flags.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))

	res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}

	entries, err := h.Objects.List(r.Context(), path)
	if err != nil {
		h.Log.Error("list folder failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list folder")
		return
	}

	out := make([]listEntry, 0, len(entries))
	for _, e := range entries {
		flags, err := h.actionFlags(r, res.Username, e)
		if err != nil {
			api.Undetermined(w, h.Log, err)
			return
		}
		out = append(out, listEntry{Entry: e, Can: flags})
	}

	api.WriteJSON(w, http.StatusOK, listResponse{Path: path, Entries: out})
}

// actionFlags computes the display flags for one entry using the lenient
// permission check, so a grant that names the entry lights up its
// controls even when the surrounding folder stays locked.
func (h *Handler) actionFlags(r *http.Request, username string, e objstore.Entry) (map[string]bool, error) {
	flags := make(map[string]bool, len(models.AllPermissions))
	for _, perm := range models.AllPermissions {
		ok, err := h.Resolver.HasNamedPermissionEnhanced(r.Context(), username, perm, e.Path)
		if err != nil {
			return nil, err
		}
		flags[perm] = ok
	}
	return flags, nil
}
