// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/printipid/printipid/pkg/auth"
	"github.com/printipid/printipid/pkg/response"
)

type userIDKey struct{}
type roleKey struct{}

// Auth validates the Bearer token and stores the user ID and role in the
// request context for downstream handlers and the rbac middleware.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth parses the Bearer token when one is present but lets
// anonymous requests through. Guest order submission uses this: a valid
// token attaches the customer's identity, no token means a guest order.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromCtx returns the authenticated user's ID, if any.
func UserIDFromCtx(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// RoleFromCtx returns the authenticated user's role, if any.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok && role != ""
}

// WithUser injects user identity into a request context. Exported for tests.
func WithUser(r *http.Request, userID, role string) *http.Request {
	ctx := context.WithValue(r.Context(), userIDKey{}, userID)
	ctx = context.WithValue(ctx, roleKey{}, role)
	return r.WithContext(ctx)
}
