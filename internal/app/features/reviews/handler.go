// internal/app/features/reviews/handler.go
package reviews

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/reviews"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the file review endpoints. Reading and writing reviews
// both require reaching the file and holding can_review there.
type Handler struct {
	Reviews  *reviewstore.Store
	Resolver *accesspolicy.Resolver
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a reviews Handler.
func NewHandler(reviews *reviewstore.Store, resolver *accesspolicy.Resolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Reviews:  reviews,
		Resolver: resolver,
		Audit:    audit,
		Log:      logger,
	}
}
