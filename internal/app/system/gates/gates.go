// Package gates provides authorization gate functions for HTTP handlers.
// Gates combine authentication context with access-resolver checks and
// write the appropriate JSON error when a check fails.
//
// Route-level middleware (auth.RequireSignedIn, auth.RequireRole) handles
// coarse role enforcement; gates handle the per-path decisions that every
// file operation must make through the access resolver. A denied check
// produces the uniform "access denied" body with no hint of which
// permission source refused.
package gates

import (
	"net/http"

	"github.com/filedock/filedock/internal/app/policy/accesspolicy"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/domain/models"
	"go.uber.org/zap"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Username string
	Role     string
	OK       bool
}

// RequireAuth ensures a user is authenticated. On failure it writes a 401
// and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	username, role, ok := authz.UserCtx(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return Result{OK: false}
	}
	return Result{Username: username, Role: role, OK: true}
}

// RequireAdmin ensures the user is authenticated and has the admin role.
func RequireAdmin(w http.ResponseWriter, r *http.Request) Result {
	username, role, ok := authz.UserCtx(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return Result{OK: false}
	}
	if role != models.RoleAdmin {
		api.Denied(w)
		return Result{OK: false}
	}
	return Result{Username: username, Role: role, OK: true}
}

// RequireNavigate ensures the current user can reach path while browsing.
func RequireNavigate(w http.ResponseWriter, r *http.Request, res *accesspolicy.Resolver, log *zap.Logger, path string) Result {
	return check(w, r, log, func(username string) (bool, error) {
		return res.CanNavigate(r.Context(), username, path)
	})
}

// RequireWrite ensures path is a valid write target for the current user.
func RequireWrite(w http.ResponseWriter, r *http.Request, res *accesspolicy.Resolver, log *zap.Logger, path string) Result {
	return check(w, r, log, func(username string) (bool, error) {
		return res.CanWrite(r.Context(), username, path)
	})
}

// RequirePermission ensures the named permission applies at path. Callers
// run it after the reachability gate the operation contract demands.
func RequirePermission(w http.ResponseWriter, r *http.Request, res *accesspolicy.Resolver, log *zap.Logger, permission, path string) Result {
	return check(w, r, log, func(username string) (bool, error) {
		return res.HasNamedPermission(r.Context(), username, permission, path)
	})
}

func check(w http.ResponseWriter, r *http.Request, log *zap.Logger, pred func(username string) (bool, error)) Result {
	username, role, ok := authz.UserCtx(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return Result{OK: false}
	}

	allowed, err := pred(username)
	if err != nil {
		// Undetermined: the backing store failed. Deny with 503, never
		// fall through to allow.
		api.Undetermined(w, log, err)
		return Result{OK: false}
	}
	if !allowed {
		api.Denied(w)
		return Result{OK: false}
	}
	return Result{Username: username, Role: role, OK: true}
}
