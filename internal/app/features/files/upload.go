// internal/app/features/files/upload.go
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

// maxUploadBytes caps a single multipart upload.
const maxUploadBytes = 256 << 20 // 256 MiB

// ServeUpload handles POST /files/upload. Multipart form with a "path"
// field naming the destination folder and one or more "file" parts.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	folder := pathmatch.Normalize(r.FormValue("path"))

	res := gates.RequireWrite(w, r, h.Resolver, h.Log, folder)
	if !res.OK {
		return
	}
	if res = gates.RequirePermission(w, r, h.Resolver, h.Log, models.PermUpload, folder); !res.OK {
		return
	}

	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		api.Error(w, http.StatusBadRequest, "no files in request")
		return
	}

	var stored []string
	for _, fh := range fhs {
		name := sanitizeFilename(fh.Filename)
		if name == "" {
			api.Error(w, http.StatusBadRequest, "invalid file name")
			return
		}

		dest := joinPath(folder, name)
		f, err := fh.Open()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "could not read upload")
			return
		}

		contentType := fh.Header.Get("Content-Type")
		err = h.Objects.Put(r.Context(), dest, f, fh.Size, contentType)
		f.Close()
		if err != nil {
			h.Log.Error("upload failed", zap.String("path", dest), zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not store file")
			return
		}
		stored = append(stored, dest)
	}

	for _, p := range stored {
		h.Audit.Record(r.Context(), res.Username, "upload", p, "")
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"stored": stored})
}

// sanitizeFilename strips any path components from a client-supplied
// file name and rejects names that would escape the folder.
func sanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

func joinPath(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
