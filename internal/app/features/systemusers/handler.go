// internal/app/features/systemusers/handler.go
package systemusers

import (
	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/store/users"
	"github.com/filedock/filedock/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler owns the admin-only user management endpoints: account CRUD,
// the permission editor, and password resets.
type Handler struct {
	Users    *userstore.Store
	Resolver *accesspolicy.Resolver
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a systemusers Handler.
func NewHandler(users *userstore.Store, resolver *accesspolicy.Resolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Resolver: resolver,
		Audit:    audit,
		Log:      logger,
	}
}
