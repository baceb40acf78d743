// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drilling-dashboard/internal/app"
	"drilling-dashboard/internal/config"
	"drilling-dashboard/internal/logger"
)

var BuildVersion = "dev" // diisi saat ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("init app")
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// tanpa WriteTimeout: stream SSE /alerts/stream bisa berjalan lama
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.With("app.start").
			WithField("addr", srv.Addr).
			WithField("env", cfg.AppEnv).
			WithField("build", BuildVersion).
			Info("API running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	logger.With("app.stop").Info("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}
}
