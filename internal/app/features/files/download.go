// internal/app/features/files/download.go
package files

import (
	"net/http"
	"strings"
	"time"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/gates"
	"github.com/filedock/filedock/internal/app/system/pathmatch"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

const downloadURLExpiry = 5 * time.Minute

// ServeDownload handles GET /files/download?path=... by redirecting to a
// short-lived presigned URL with an attachment disposition.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	path := pathmatch.Normalize(r.URL.Query().Get("path"))
	if path == "" {
		api.Error(w, http.StatusBadRequest, "path is required")
		return
	}

	res := gates.RequireNavigate(w, r, h.Resolver, h.Log, path)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermDownload, path); !res.OK {
		return
	}

	name := path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	url, err := h.Objects.PresignedGet(r.Context(), path, downloadURLExpiry, name)
	if err != nil {
		h.Log.Error("download presign failed", zap.String("path", path), zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create download url")
		return
	}

	h.Audit.Record(r.Context(), res.Username, "download", path, "")
	http.Redirect(w, r, url, http.StatusFound)
}
