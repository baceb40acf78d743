// cmd/worker/main.go
// Worker alert: sapu semua puits tiap WORKER_INTERVAL dan simpan alert ke MySQL
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/config"
	"drilling-dashboard/internal/logger"
	mysqlrepo "drilling-dashboard/internal/repositories/mysql"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn := cfg.MySQLDSN()
	if dsn == "" {
		logger.Log.Fatal("worker needs DB_DSN or MYSQL_* to persist alerts")
	}
	conn, err := db.NewMySQL(ctx, dsn, db.Options{MaxOpen: cfg.MySQL.MaxOpen, MaxIdle: cfg.MySQL.MaxIdle})
	if err != nil {
		logger.Log.WithError(err).Fatal("connect mysql")
	}
	defer conn.Close()

	repo := &mysqlrepo.NotificationRepo{DB: conn}
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Log.WithError(err).Fatal("ensure schema")
	}

	api := backend.New(cfg.Backend.DecideurURL, backend.Options{
		Timeout: cfg.Backend.Timeout,
		RPS:     cfg.Backend.RPS,
		Burst:   cfg.Backend.Burst,
	})
	w := &services.AlertWorker{
		Dash: services.NewDashboard(api),
		Sink: repo,
		MinZ: cfg.Alerts.AnomalyZ,
	}

	logger.With("worker.start").WithField("interval", cfg.Alerts.WorkerInterval.String()).Info("worker started")
	if err := w.Run(ctx, cfg.Alerts.WorkerInterval); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.WithError(err).Error("worker stopped")
	}
	logger.With("worker.stop").Info("worker stopped")
}
