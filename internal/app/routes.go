// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/gorilla/mux"

	"drilling-dashboard/internal/config"
	"drilling-dashboard/internal/handlers/decideur"
	hh "drilling-dashboard/internal/handlers/http"
	"drilling-dashboard/internal/handlers/operateur"
	"drilling-dashboard/internal/middleware"
	"drilling-dashboard/internal/services"
)

type Probe = hh.Probe

// DashboardAPI = kebutuhan décideur (dashboard + download).
type DashboardAPI interface {
	services.Backend
	hh.Downloader
}

// OperateurAPI = kebutuhan opérateur (dashboard + passthrough).
type OperateurAPI interface {
	services.Backend
	operateur.Upstream
}

type Deps struct {
	Decideur  DashboardAPI
	Operateur OperateurAPI
	Alerts    *services.Notifications
	Sink      services.NotificationSink // nil = alert admin tidak dipersist
	Analyzer  *services.Analyzer
	Probes    []Probe
	Auth      config.AuthConfig
}

// RegisterRoutes memasang route umum, /admin, /api/decideur (mux) dan
// /api/operateur (sub-router chi).
func RegisterRoutes(r *mux.Router, d Deps) {
	unread := func() int { return d.Alerts.UnreadCount() }

	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler(d.Probes)).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler(unread)).Methods(http.MethodGet)

	login := hh.AdminLogin{User: d.Auth.AdminUser, Hash: d.Auth.AdminPassHash, Secret: d.Auth.AdminJWTSecret}
	r.Handle("/admin/login", login).Methods(http.MethodPost)

	debug := r.PathPrefix("/debug").Subrouter()
	debug.Use(middleware.AdminBasicAuth(d.Auth.AdminUser, d.Auth.AdminPassHash))
	debug.HandleFunc("/upstreams", hh.UpstreamsHandler(d.Probes)).Methods(http.MethodGet)

	// Admin (JWT protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminJWTAuth(d.Auth.AdminJWTSecret))
	alerts := &hh.AdminAlerts{Store: d.Alerts, Sink: d.Sink}
	admin.HandleFunc("/alerts", alerts.List).Methods(http.MethodGet)
	admin.HandleFunc("/alerts", alerts.Create).Methods(http.MethodPost)

	dec := &decideur.Handler{
		Dash:   services.NewDashboard(d.Decideur),
		Files:  d.Decideur,
		Alerts: d.Alerts,
	}
	dec.Register(r.PathPrefix("/api/decideur").Subrouter())

	op := &operateur.Handler{
		Dash:      services.NewDashboard(d.Operateur),
		API:       d.Operateur,
		Analyzer:  d.Analyzer,
		JWTSecret: d.Auth.BackendJWTSecret,
	}
	r.PathPrefix("/api/operateur").Handler(http.StripPrefix("/api/operateur", op.Routes()))
}
