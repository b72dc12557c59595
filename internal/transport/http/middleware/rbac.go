package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hrdash/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects anonymous callers with 401 and callers whose
// role lacks permission with 403.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				unauthorized(w, r)
				return
			}
			allowed, err := store.HasPermission(r.Context(), user.Role, permission)
			switch {
			case err != nil:
				slog.Error("permission check failed", "role", user.Role, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
			case !allowed:
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Can reports whether the caller on ctx holds permission. Lookup errors
// count as a denial.
func Can(ctx context.Context, store PermissionStore, permission string) bool {
	user, ok := GetUser(ctx)
	if !ok || store == nil {
		return false
	}
	allowed, err := store.HasPermission(ctx, user.Role, permission)
	if err != nil {
		slog.Warn("permission check failed", "role", user.Role, "permission", permission, "err", err)
		return false
	}
	return allowed
}
