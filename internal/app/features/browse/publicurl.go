// internal/app/features/browse/publicurl.go
package browse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

// publicURLExpiry is how long a presigned URL stays valid. Long enough
// for a viewer to load the asset, short enough that a leaked URL goes
// stale quickly.
const publicURLExpiry = 15 * time.Minute

// ServePublicURL handles GET /browse/public-url?path=... and returns a
// presigned object-store URL. Gated like a download: reachability plus
// the download permission.
func (h *Handler) ServePublicURL(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	if res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path); !res.OK {
		return
	}
	if res := gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermDownload, path); !res.OK {
		return
	}

	url, err := h.Objects.PresignedGet(r.Context(), path, publicURLExpiry, "")
	if err != nil {
		h.Log.Error("presign failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create url")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(publicURLExpiry.Seconds()),
	})
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
