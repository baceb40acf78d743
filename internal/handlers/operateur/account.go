// internal/handlers/operateur/account.go
// Auth & profil: passthrough ke backend opérateur

package operateur

import (
	"net/http"
	"strings"

	"drilling-dashboard/internal/backend"
	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/middleware"
	"drilling-dashboard/internal/util"
)

type signInResp struct {
	Token string                  `json:"token"`
	Role  string                  `json:"role"`
	User  *backend.SignInResponse `json:"user"`
}

// SignIn: role = roles[0] tanpa prefix ROLE_, huruf kecil; default "user".
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var in backend.SignInRequest
	if err := hh.DecodeJSON(r, &in); err != nil {
		hh.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		hh.WriteError(w, r, util.BadInput("email and password required"))
		return
	}
	out, err := h.API.SignIn(r.Context(), in)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	role := ""
	if len(out.Roles) > 0 {
		role = out.Roles[0]
	}
	token := out.Token
	out.Token = ""
	hh.WriteJSON(w, http.StatusOK, signInResp{Token: token, Role: middleware.NormalizeRole(role), User: out})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in backend.SignUpRequest
	if err := hh.DecodeJSON(r, &in); err != nil {
		hh.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(in.Email) == "" || len(in.Password) < 6 {
		hh.WriteError(w, r, util.BadInput("email required and password min 6 chars"))
		return
	}
	out, err := h.API.SignUp(r.Context(), in)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		hh.WriteError(w, r, util.BadInput("username required"))
		return
	}
	out, err := h.API.Profile(r.Context(), username)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	raw, err := hh.ReadRaw(r)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	out, err := h.API.UpdateProfile(r.Context(), raw)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var in backend.PasswordUpdate
	if err := hh.DecodeJSON(r, &in); err != nil {
		hh.WriteError(w, r, err)
		return
	}
	if in.CurrentPassword == "" || len(in.NewPassword) < 6 {
		hh.WriteError(w, r, util.BadInput("current password required and new password min 6 chars"))
		return
	}
	if err := h.API.UpdatePassword(r.Context(), in); err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
