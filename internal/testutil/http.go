// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/filedock/filedock/internal/app/system/auth"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	Username string
	Name     string
	Role     string
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser {
	return TestUser{Username: "test-admin", Name: "Test Admin", Role: models.RoleAdmin}
}

// EmployeeUser returns a TestUser with the employee role.
func EmployeeUser(username string) TestUser {
	return TestUser{Username: username, Name: "Test " + username, Role: models.RoleEmployee}
}

// ClientUser returns a TestUser with the client role.
func ClientUser(username string) TestUser {
	return TestUser{Username: username, Name: "Test " + username, Role: models.RoleClient}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	if rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context); ok {
		rctx.URLParams.Add(key, value)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
