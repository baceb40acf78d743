// internal/handlers/decideur/handler.go
// Endpoint dashboard décideur (/api/decideur): puits, rapports, ringkasan coût/délai

package decideur

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/services"
)

type Handler struct {
	Dash      *services.Dashboard
	Files     hh.Downloader
	Alerts    *services.Notifications
	Heartbeat time.Duration // interval ": ping" SSE; 0 = 25s
}

// Register memasang semua route décideur ke subrouter mux.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/wells", h.Wells).Methods(http.MethodGet)
	r.HandleFunc("/wells/kpis", h.KPIs).Methods(http.MethodGet)
	r.HandleFunc("/wells/{id}", h.WellDetails).Methods(http.MethodGet)
	r.HandleFunc("/wells/{id}/reports", h.Reports).Methods(http.MethodGet)
	r.HandleFunc("/wells/{id}/reports/{reportId}/download", h.Download).Methods(http.MethodGet)
	r.HandleFunc("/wells/{id}/cost-summary", h.CostSummary).Methods(http.MethodGet)
	r.HandleFunc("/wells/{id}/delay-summary", h.DelaySummary).Methods(http.MethodGet)

	r.HandleFunc("/alerts", h.ListAlerts).Methods(http.MethodGet)
	r.HandleFunc("/alerts/stream", h.StreamAlerts).Methods(http.MethodGet)
	r.HandleFunc("/alerts/read-all", h.MarkAllRead).Methods(http.MethodPost)
	r.HandleFunc("/alerts/{id}/read", h.MarkRead).Methods(http.MethodPost)
}

func descending(q string) bool {
	return strings.EqualFold(strings.TrimSpace(q), "desc")
}

// Wells: ?phase= (All / label) & ?sort=name|status|phase & ?order=asc|desc
func (h *Handler) Wells(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	wells, err := h.Dash.WellList(r.Context())
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	wells = services.SortWells(services.FilterWells(wells, q.Get("phase")), q.Get("sort"), descending(q.Get("order")))
	hh.WriteJSON(w, http.StatusOK, wells)
}

func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Dash.StatusCounts(r.Context())
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	hh.WriteJSON(w, http.StatusOK, map[string]any{"byStatus": counts, "total": total})
}

func (h *Handler) WellDetails(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dash.WellDetails(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, d)
}

// Reports: ?sort=date|id|operation|site (default date desc) & ?operation=
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desc := q.Get("order") == "" || descending(q.Get("order"))
	reports, err := h.Dash.WellReports(r.Context(), mux.Vars(r)["id"], services.ParseSortKey(q.Get("sort")), desc, q.Get("operation"))
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, reports)
}

// Download meneruskan file rapport apa adanya (blob opaque).
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["reportId"]
	hh.ServeDownload(w, r, h.Files, id, hh.DownloadName(r.URL.Query().Get("operation"), id))
}

func summaryQuery(r *http.Request) services.SummaryQuery {
	q := r.URL.Query()
	return services.SummaryQuery{
		Filter: services.RowFilter{
			Phase:       q.Get("phase"),
			CostStatus:  q.Get("costStatus"),
			DelayStatus: q.Get("delayStatus"),
		},
		Sort: services.ParseSortKey(firstNonEmpty(q.Get("sort"), string(services.SortByPhase))),
		Desc: descending(q.Get("order")),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) CostSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dash.CostSummary(r.Context(), mux.Vars(r)["id"], summaryQuery(r))
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) DelaySummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Dash.DelaySummary(r.Context(), mux.Vars(r)["id"], summaryQuery(r))
	if err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, s)
}
