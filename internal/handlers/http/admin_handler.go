// internal/handlers/http/admin_handler.go
// Admin: lihat & tambah alert manual (JWT admin)

package http

import (
	"net/http"
	"strings"

	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/internal/util"
)

type AdminAlerts struct {
	Store *services.Notifications
	Sink  services.NotificationSink // nil = hanya in-memory
}

func (h *AdminAlerts) List(w http.ResponseWriter, r *http.Request) {
	items := h.Store.List(r.URL.Query().Get("filter"), r.URL.Query().Get("sort"))
	WriteJSON(w, http.StatusOK, map[string]any{
		"alerts": items,
		"unread": h.Store.UnreadCount(),
	})
}

type createAlertReq struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	WellID      string `json:"wellId"`
}

func (h *AdminAlerts) Create(w http.ResponseWriter, r *http.Request) {
	var in createAlertReq
	if err := DecodeJSON(r, &in); err != nil {
		WriteError(w, r, err)
		return
	}
	typ, ok := services.ParseNotificationType(in.Type)
	if !ok {
		WriteError(w, r, util.BadInput("type must be info, warning, critical or action"))
		return
	}
	title := services.SanitizeText(in.Title)
	if strings.TrimSpace(title) == "" {
		WriteError(w, r, util.BadInput("title required"))
		return
	}

	n, _ := h.Store.Add(services.Notification{
		Type:        typ,
		Title:       title,
		Description: services.SanitizeText(in.Description),
		WellID:      strings.TrimSpace(in.WellID),
	})
	if h.Sink != nil {
		if _, err := h.Sink.SaveNotification(r.Context(), n); err != nil {
			logger.With("admin.alert").WithField("id", n.ID).WithError(err).Warn("persist alert failed")
		}
	}
	WriteJSON(w, http.StatusCreated, n)
}
