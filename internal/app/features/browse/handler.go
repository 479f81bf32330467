// internal/app/features/browse/handler.go
package browse

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.uber.org/zap"
)

// Handler owns the read-only browsing handlers: folder listing, file
// content, and public download URLs. Every one of them is gated by
// canNavigate, the weakest reachability check.
type Handler struct {
	Objects  *objstore.Store
	Resolver *accesspolicy.Resolver
	Log      *zap.Logger
}

// NewHandler constructs a browse Handler.
func NewHandler(objects *objstore.Store, resolver *accesspolicy.Resolver, logger *zap.Logger) *Handler {
	return &Handler{
		Objects:  objects,
		Resolver: resolver,
		Log:      logger,
	}
}
