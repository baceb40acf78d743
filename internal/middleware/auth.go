// internal/middleware/auth.go
// Middleware untuk cek Bearer token dan meneruskannya ke backend

package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/util"
)

// BearerToken mengambil token dari header Authorization ("" bila tidak ada).
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireBearer menolak request tanpa token; token diteruskan ke client backend via context.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := BearerToken(r)
		if tok == "" {
			deny(w, util.Unauthorized("missing bearer token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(backend.WithToken(r.Context(), tok)))
	})
}

// deny menulis error JSON dengan bentuk yang sama dengan handler.
func deny(w http.ResponseWriter, err util.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(util.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   err.Code,
		"message": err.Message,
	})
}
