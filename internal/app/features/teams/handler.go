// internal/app/features/teams/handler.go
package teams

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/teams"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the admin-only team management endpoints. Any change to a
// team's permissions or roster invalidates the resolver cache so the new
// shape takes effect on the next request.
type Handler struct {
	Teams    *teamstore.Store
	Resolver *accesspolicy.Resolver
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a teams Handler.
func NewHandler(teams *teamstore.Store, resolver *accesspolicy.Resolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Teams:    teams,
		Resolver: resolver,
		Audit:    audit,
		Log:      logger,
	}
}
