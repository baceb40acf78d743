// internal/handlers/decideur/alerts.go
// Notifikasi décideur: list, tandai dibaca, stream SSE

package decideur

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/util"
	"drilling-dashboard/internal/util/sse"
)

var errStreamUnsupported = util.Internal("stream unsupported")

// ListAlerts: ?filter=all|retard|critique|info|action|unread & ?sort=date|type
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hh.WriteJSON(w, http.StatusOK, map[string]any{
		"alerts": h.Alerts.List(q.Get("filter"), q.Get("sort")),
		"unread": h.Alerts.UnreadCount(),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Alerts.MarkRead(mux.Vars(r)["id"]); err != nil {
		hh.WriteError(w, r, err)
		return
	}
	hh.WriteJSON(w, http.StatusOK, map[string]any{"unread": h.Alerts.UnreadCount()})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n := h.Alerts.MarkAllRead()
	hh.WriteJSON(w, http.StatusOK, map[string]any{"marked": n, "unread": 0})
}

// StreamAlerts: event "unread" saat connect, "alert" per notifikasi baru,
// komentar ping berkala; selesai saat client putus.
func (h *Handler) StreamAlerts(w http.ResponseWriter, r *http.Request) {
	flusher := sse.PrepareSSE(w)
	if flusher == nil {
		hh.WriteError(w, r, errStreamUnsupported)
		return
	}
	events, stop := h.Alerts.Subscribe()
	defer stop()

	every := h.Heartbeat
	if every <= 0 {
		every = 25 * time.Second
	}
	tick := time.NewTicker(every)
	defer tick.Stop()

	w.WriteHeader(http.StatusOK)
	if err := sse.WriteEvent(w, flusher, "unread", map[string]int{"unread": h.Alerts.UnreadCount()}); err != nil {
		return
	}
	log := logger.With("alerts.stream").WithField("remote", r.RemoteAddr)
	log.Debug("subscriber connected")

	for {
		select {
		case <-r.Context().Done():
			log.Debug("subscriber gone")
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, flusher, "alert", n); err != nil {
				return
			}
		case <-tick.C:
			if err := sse.WriteComment(w, flusher, "ping"); err != nil {
				return
			}
		}
	}
}
