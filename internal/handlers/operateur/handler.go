// internal/handlers/operateur/handler.go
// Endpoint dashboard opérateur + expert (/api/operateur), router go-chi

package operateur

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"drilling-dashboard/internal/backend"
	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/middleware"
	"drilling-dashboard/internal/services"
)

// Upstream = panggilan passthrough ke backend opérateur.
type Upstream interface {
	hh.Downloader
	SignIn(ctx context.Context, in backend.SignInRequest) (*backend.SignInResponse, error)
	SignUp(ctx context.Context, in backend.SignUpRequest) (json.RawMessage, error)
	Profile(ctx context.Context, username string) (json.RawMessage, error)
	UpdateProfile(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	UpdatePassword(ctx context.Context, in backend.PasswordUpdate) error
	ExtractReport(ctx context.Context, wellID, filename string, file io.Reader) (json.RawMessage, error)
	ConfirmReport(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	ReviewReport(ctx context.Context, id string, payload json.RawMessage) (json.RawMessage, error)
}

type Handler struct {
	Dash     *services.Dashboard
	API      Upstream
	Analyzer *services.Analyzer
	// JWTSecret kosong = role dibaca dari token tanpa verifikasi
	JWTSecret string
	MaxUpload int64
}

// Routes mengembalikan sub-router chi; auth publik, sisanya wajib Bearer.
// Review dan analisis hanya untuk role expert.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/auth/signin", h.SignIn)
	r.Post("/auth/signup", h.SignUp)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireBearer)

		pr.Get("/profile", h.Profile)
		pr.Put("/profile", h.UpdateProfile)
		pr.Put("/password", h.UpdatePassword)

		pr.Get("/wells", h.Wells)
		pr.Get("/analyse", h.Analyse)
		pr.Get("/historique", h.History)

		pr.Post("/reports/extract", h.Extract)
		pr.Post("/reports/confirm", h.Confirm)
		pr.Get("/reports/{id}", h.ReportDetail)
		pr.Get("/reports/{id}/download", h.Download)

		pr.Group(func(er chi.Router) {
			er.Use(middleware.RequireRole(h.JWTSecret, "expert"))
			er.Patch("/reports/{id}/review", h.Review)
			er.Post("/reports/{id}/analysis", h.Analysis)
		})
	})
	return r
}

func (h *Handler) Wells(w http.ResponseWriter, r *http.Request) {
	wells, err := h.Dash.WellList(r.Context())
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, services.SortWells(wells, r.URL.Query().Get("sort"), false))
}

func (h *Handler) Analyse(w http.ResponseWriter, r *http.Request) {
	q, err := parseAnalyseQuery(r)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	page, err := h.Dash.AnalyseRows(r.Context(), q)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q, err := parseAnalyseQuery(r)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	page, err := h.Dash.History(r.Context(), q)
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) ReportDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dash.ReportDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hh.ServeDownload(w, r, h.API, id, hh.DownloadName(r.URL.Query().Get("operation"), id))
}

// Analysis: ringkasan expert (LLM bila dikonfigurasi, selain itu ekstraktif).
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dash.ReportDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, h.Analyzer.Analyze(r.Context(), d.Report, d.Operations))
}
