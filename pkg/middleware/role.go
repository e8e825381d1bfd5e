package middleware

import (
	"net/http"

	"github.com/mindwell-app/mindwell/pkg/logger"
)

// RequireRole restricts a route to users carrying the given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if claims.Role != role {
				logger.Log.WithFields(map[string]interface{}{
					"user_id": claims.UserID,
					"role":    claims.Role,
				}).Warn("Forbidden: insufficient role")
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
