// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/config"
	"drilling-dashboard/internal/llm"
	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/middleware"
	mysqlrepo "drilling-dashboard/internal/repositories/mysql"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/internal/util"
	"drilling-dashboard/pkg/db"
)

// App menampung router utama + resource yang perlu ditutup.
type App struct {
	Router  *mux.Router
	Handler http.Handler // Router + request id, access log, CORS
	DB      *sql.DB

	stopSync func() // nil bila alert tidak disinkronkan dari MySQL
}

// New membuat client backend, store notifikasi, analyzer, lalu registrasi routes.
// MySQL opsional: gagal konek → fallback ke file/alert bawaan.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	opt := backend.Options{Timeout: cfg.Backend.Timeout, RPS: cfg.Backend.RPS, Burst: cfg.Backend.Burst}
	dec := backend.New(cfg.Backend.DecideurURL, opt)
	op := backend.New(cfg.Backend.OperateurURL, opt)

	var (
		conn *sql.DB
		repo *mysqlrepo.NotificationRepo
	)
	if dsn := cfg.MySQLDSN(); dsn != "" {
		c, err := db.NewMySQL(ctx, dsn, db.Options{MaxOpen: cfg.MySQL.MaxOpen, MaxIdle: cfg.MySQL.MaxIdle})
		if err != nil {
			logger.With("app.mysql").WithError(err).Warn("mysql unavailable; alerts not persisted")
		} else {
			conn = c
			repo = &mysqlrepo.NotificationRepo{DB: conn}
			if err := repo.EnsureSchema(ctx); err != nil {
				logger.With("app.mysql").WithError(err).Warn("ensure notifications schema failed")
			}
		}
	}

	store, err := services.LoadNotificationStore(ctx, util.RealClock{}, notificationSource(cfg, repo))
	if err != nil {
		logger.With("app.alerts").WithError(err).Warn("load alerts failed; using defaults")
		store, err = services.LoadNotificationStore(ctx, util.RealClock{}, services.DefaultNotifications())
		if err != nil {
			return nil, err
		}
	}

	var analyzer services.Analyzer
	client, err := llm.New(cfg.LLM.APIKey, cfg.LLM.APIBase, cfg.LLM.Model)
	switch {
	case err == nil:
		analyzer.LLM = client
	case errors.Is(err, llm.ErrNotConfigured):
		logger.With("app.llm").Info("OPENAI_API_KEY not set; report analysis is extractive")
	default:
		return nil, err
	}

	deps := Deps{
		Decideur:  dec,
		Operateur: op,
		Alerts:    store,
		Analyzer:  &analyzer,
		Probes: []Probe{
			{Name: "decideur", Check: dec.Ping},
			{Name: "operateur", Check: op.Ping},
		},
		Auth: cfg.Auth,
	}
	if repo != nil {
		deps.Sink = repo
		deps.Probes = append(deps.Probes, Probe{Name: "mysql", Check: conn.PingContext})
	}

	r := mux.NewRouter()
	RegisterRoutes(r, deps)
	a := &App{
		Router:  r,
		Handler: Wrap(r, cfg.CORSOrigins),
		DB:      conn,
	}
	if repo != nil {
		// alert dari cmd/worker masuk ke store tanpa restart API
		a.stopSync = syncAlerts(store, repo, cfg.Alerts.WorkerInterval)
	}
	return a, nil
}

// syncAlerts menjalankan Notifications.Sync di goroutine sendiri. Fungsi
// kembalian menghentikan loop dan menunggu sampai selesai.
func syncAlerts(store *services.Notifications, src services.NotificationSource, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = store.Sync(ctx, src, interval)
	}()
	return func() {
		cancel()
		<-done
	}
}

// notificationSource: MySQL bila ada, lalu file YAML, lalu alert bawaan.
func notificationSource(cfg *config.Config, repo *mysqlrepo.NotificationRepo) services.NotificationSource {
	switch {
	case repo != nil:
		return repo
	case cfg.Alerts.File != "":
		return services.FileSource{Path: cfg.Alerts.File}
	default:
		return services.DefaultNotifications()
	}
}

// Wrap memasang middleware global di luar router (CORS menangani preflight
// sebelum mux mencocokkan method).
func Wrap(h http.Handler, origins []string) http.Handler {
	return middleware.RequestID(middleware.AccessLog(middleware.CORS(origins)(h)))
}

// Close menghentikan sinkronisasi alert lalu menutup DB.
func (a *App) Close() error {
	if a.stopSync != nil {
		a.stopSync()
		a.stopSync = nil
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
