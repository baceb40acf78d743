// internal/handlers/http/login_handler.go
package http

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"drilling-dashboard/internal/middleware"
	"drilling-dashboard/internal/util"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

// AdminLogin = login admin (user + hash bcrypt dari config) → JWT admin.
type AdminLogin struct {
	User   string
	Hash   string
	Secret string
	Clock  util.Clock
}

func (h AdminLogin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, r, err)
		return
	}
	if h.User == "" || h.Hash == "" || h.Secret == "" {
		WriteError(w, r, util.Forbidden("admin not configured"))
		return
	}
	if in.Username != h.User || bcrypt.CompareHashAndPassword([]byte(h.Hash), []byte(in.Password)) != nil {
		WriteError(w, r, util.Unauthorized("invalid credentials"))
		return
	}

	clock := h.Clock
	if clock == nil {
		clock = util.RealClock{}
	}
	token, exp, err := middleware.GenerateAdminToken(h.Secret, h.User, clock.Now())
	if err != nil {
		WriteError(w, r, util.Internal("token error"))
		return
	}
	WriteJSON(w, http.StatusOK, loginResp{
		Token:     token,
		ExpiresAt: exp,
		User:      h.User,
		Role:      "admin",
	})
}
