package middleware

import (
	"net/http"
	"strings"

	"github.com/nextwaveweb/salonbook/internal/tenancy"
)

// RequireBusiness scopes public requests to the tenant named in the
// X-Business-Id header.
func RequireBusiness() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			businessID := strings.TrimSpace(r.Header.Get("X-Business-Id"))
			if businessID == "" {
				http.Error(w, "missing X-Business-Id header", http.StatusBadRequest)
				return
			}
			ctx := tenancy.WithBusinessID(r.Context(), businessID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
