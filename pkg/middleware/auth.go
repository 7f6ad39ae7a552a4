package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gfmachado/autorevenda/pkg/auth"
	"github.com/gfmachado/autorevenda/pkg/response"
)

type ctxKey struct{}

var claimsKey ctxKey

// Messages mirrored by the front end; keep the wording stable.
const (
	MsgTokenMissing = "Token de autenticação não fornecido."
	MsgTokenInvalid = "Token JWT inválido ou expirado."
	MsgAdminOnly    = "Acesso restrito a administradores."
)

// Authenticate verifies the Bearer token and stores the claims in the
// request context. Missing and invalid tokens produce distinct messages
// but the same 401 status.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

		if token == "" {
			response.Unauthorized(w, MsgTokenMissing)
			return
		}

		claims, err := auth.Verify(token)
		if err != nil {
			response.Unauthorized(w, MsgTokenInvalid)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireAdmin rejects any authenticated request whose token role is not
// admin. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromCtx(r.Context())
		if claims == nil || claims.Role != auth.RoleAdmin {
			response.Forbidden(w, MsgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromCtx returns the claims stored by Authenticate, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
