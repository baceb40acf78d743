// internal/middleware/admin_auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"drilling-dashboard/internal/util"
)

// AdminBasicAuth melindungi endpoint debug dengan Basic auth (hash bcrypt).
func AdminBasicAuth(user, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user == "" || hash == "" {
				deny(w, util.Forbidden("admin auth not configured"))
				return
			}
			u, p, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				deny(w, util.Unauthorized("auth required"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 {
				deny(w, util.Unauthorized("unauthorized"))
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) != nil {
				deny(w, util.Unauthorized("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
