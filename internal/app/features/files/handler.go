// internal/app/features/files/handler.go
package files

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/trash"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.uber.org/zap"
)

// Handler owns the mutating file operations: upload, save, rename,
// delete-to-trash, folder creation, and download. Each operation runs
// the write or navigate gate its contract requires before touching the
// object store, and records an audit entry on success.
type Handler struct {
	Objects  *objstore.Store
	Resolver *accesspolicy.Resolver
	Trash    *trashstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a files Handler.
func NewHandler(objects *objstore.Store, resolver *accesspolicy.Resolver, trash *trashstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Objects:  objects,
		Resolver: resolver,
		Trash:    trash,
		Audit:    audit,
		Log:      logger,
	}
}
