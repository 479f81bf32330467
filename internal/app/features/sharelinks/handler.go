// internal/app/features/sharelinks/handler.go
package sharelinks

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/sharelinks"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"go.uber.org/zap"
)

// Handler owns share link management plus the public redeem endpoint.
// Creating a link requires reaching the file and holding can_download;
// redeeming needs only a live token.
type Handler struct {
	Links    *sharelinkstore.Store
	Objects  *objstore.Store
	Resolver *accesspolicy.Resolver
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a sharelinks Handler.
func NewHandler(links *sharelinkstore.Store, objects *objstore.Store, resolver *accesspolicy.Resolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Links:    links,
		Objects:  objects,
		Resolver: resolver,
		Audit:    audit,
		Log:      logger,
	}
}
