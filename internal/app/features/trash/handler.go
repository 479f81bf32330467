// internal/app/features/trash/handler.go
package trash

import (
	"github.com/filedock/filedock/internal/app/store/trash"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.uber.org/zap"
)

// Handler owns the admin-only trash endpoints: listing soft-deleted
// entries, restoring them to their original paths, and purging them for
// good.
type Handler struct {
	Objects *objstore.Store
	Trash   *trashstore.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs a trash Handler.
func NewHandler(objects *objstore.Store, trash *trashstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Objects: objects,
		Trash:   trash,
		Audit:   audit,
		Log:     logger,
	}
}
