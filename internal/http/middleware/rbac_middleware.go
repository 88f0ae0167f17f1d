package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/service"
)

// RequirePermission rejects the request with 403 unless the caller currently
// holds permission. Grants are read through resolver on every request, so a
// revoked permission takes effect on the caller's next request.
func RequirePermission(rbac service.RBACAuthorizer, resolver service.PermissionResolver, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				observability.RecordRBACAuthorization(r.Context(), permission, "unauthenticated")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			perms, cached := PermissionsFromContext(r.Context())
			if !cached {
				var err error
				perms, err = resolver.ResolvePermissions(r.Context(), claims)
				if err != nil {
					slog.WarnContext(r.Context(), "permission resolution failed", "user_id", claims.UserID, "error", err)
					observability.RecordRBACAuthorization(r.Context(), permission, "resolver_error")
					response.Error(w, r, http.StatusServiceUnavailable, "PERMISSION_RESOLUTION_FAILED", "unable to resolve permissions", nil)
					return
				}
			}
			if !rbac.HasPermission(perms, permission) {
				observability.RecordRBACAuthorization(r.Context(), permission, "denied")
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permission", map[string]string{"required": permission})
				return
			}
			observability.RecordRBACAuthorization(r.Context(), permission, "allowed")
			ctx := context.WithValue(r.Context(), PermissionsContextKey, perms)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
