// internal/middleware/rbac.go
// Middleware RBAC berbasis klaim role di JWT backend

package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"drilling-dashboard/internal/util"
)

// NormalizeRole: "ROLE_EXPERT" → "expert"; kosong → "user".
func NormalizeRole(r string) string {
	r = strings.ToLower(strings.TrimSpace(r))
	r = strings.TrimPrefix(r, "role_")
	if r == "" {
		return "user"
	}
	return r
}

// roleFromClaims membaca "role" (string) atau "roles"/"authorities" (array, elemen pertama).
func roleFromClaims(c jwt.Claims) (string, bool) {
	mc, ok := c.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	if s, ok := mc["role"].(string); ok && s != "" {
		return NormalizeRole(s), true
	}
	for _, key := range []string{"roles", "authorities"} {
		switch v := mc[key].(type) {
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return NormalizeRole(s), true
				}
				if m, ok := v[0].(map[string]any); ok {
					if s, ok := m["authority"].(string); ok {
						return NormalizeRole(s), true
					}
				}
			}
		case string:
			if v != "" {
				return NormalizeRole(strings.Split(v, ",")[0]), true
			}
		}
	}
	return "", false
}

// RoleFromToken: secret kosong → klaim dibaca tanpa verifikasi tanda tangan
// (verifikasi tetap di backend).
func RoleFromToken(tokenStr, secret string) (string, bool, error) {
	claims := jwt.MapClaims{}
	var err error
	if secret == "" {
		_, _, err = jwt.NewParser().ParseUnverified(tokenStr, claims)
	} else {
		_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
	}
	if err != nil {
		return "", false, err
	}
	role, ok := roleFromClaims(claims)
	return role, ok, nil
}

// RequireRole: token tanpa klaim role diloloskan; role di luar daftar → 403.
func RequireRole(secret string, roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[NormalizeRole(r)] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				deny(w, util.Unauthorized("missing bearer token"))
				return
			}
			role, ok, err := RoleFromToken(tok, secret)
			if err != nil {
				deny(w, util.Unauthorized("invalid token"))
				return
			}
			if ok && !allowed[role] {
				deny(w, util.Forbidden("role "+role+" not allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
