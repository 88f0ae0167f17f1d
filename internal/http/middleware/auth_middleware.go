package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sandeepkv93/master-items-admin/internal/http/response"
	"github.com/sandeepkv93/master-items-admin/internal/observability"
	"github.com/sandeepkv93/master-items-admin/internal/security"
)

type contextKey string

const (
	ClaimsContextKey      contextKey = "claims"
	PermissionsContextKey contextKey = "permissions"
)

// TokenParser validates a raw access token.
type TokenParser interface {
	ParseAccessToken(raw string) (*security.Claims, error)
}

// AuthMiddleware accepts the access token from the access_token cookie or a
// bearer Authorization header, in that order.
func AuthMiddleware(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			source := "cookie"
			raw := security.GetCookie(r, security.AccessTokenCookie)
			if raw == "" {
				source = "header"
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
					raw = strings.TrimSpace(auth[7:])
				}
			}
			if raw == "" {
				observability.RecordAccessTokenValidation(r.Context(), "missing", source)
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			claims, err := tokens.ParseAccessToken(raw)
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "invalid", source)
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid access token", nil)
				return
			}
			observability.RecordAccessTokenValidation(r.Context(), "valid", source)
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	return c, ok
}

// PermissionsFromContext returns the permission names resolved by
// RequirePermission for the current request.
func PermissionsFromContext(ctx context.Context) ([]string, bool) {
	p, ok := ctx.Value(PermissionsContextKey).([]string)
	return p, ok
}
