// internal/app/features/grants/handler.go
package grants

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/grants"
	"github.com/filedock/filedock/internal/app/store/teams"
	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the file grant management endpoints. Creating a grant is
// open to admins and to users who can share what they themselves hold;
// the list, delete, and sweep endpoints are admin only.
type Handler struct {
	Grants   *grantstore.Store
	Users    *userstore.Store
	Teams    *teamstore.Store
	Resolver *accesspolicy.Resolver
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a grants Handler.
func NewHandler(grants *grantstore.Store, users *userstore.Store, teams *teamstore.Store, resolver *accesspolicy.Resolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Grants:   grants,
		Users:    users,
		Teams:    teams,
		Resolver: resolver,
		Audit:    audit,
		Log:      logger,
	}
}
