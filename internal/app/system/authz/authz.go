// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
)

// UserCtx returns the current user's username, role (lowercased), and a
// found flag. If no user is present in context it returns "", "visitor",
// false, so ok=true means a valid authenticated user. Fail closed.
func UserCtx(r *http.Request) (username, role string, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.Username == "" {
		return "", "visitor", false
	}
	return u.Username, strings.ToLower(u.Role), true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	_, role, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsEmployee reports whether the current request's user is an employee.
func IsEmployee(r *http.Request) bool {
	_, role, ok := UserCtx(r)
	return ok && role == models.RoleEmployee
}

// IsClient reports whether the current request's user is a client.
func IsClient(r *http.Request) bool {
	_, role, ok := UserCtx(r)
	return ok && role == models.RoleClient
}
