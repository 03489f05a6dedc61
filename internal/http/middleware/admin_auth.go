package middleware

import (
	"net/http"
	"strings"

	"github.com/nextwaveweb/salonbook/internal/auth"
	"github.com/nextwaveweb/salonbook/internal/tenancy"
)

// RequireAdmin enforces an HMAC-signed admin JWT and scopes the request to
// the business named in the token's subject. Any business id arriving via
// header is overwritten, so an admin token can never act across tenants.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			businessID, err := auth.ParseAdminToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := tenancy.WithBusinessID(r.Context(), businessID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
