// internal/services/alert_worker.go
// Worker periodik: rekonsiliasi tiap puits → alert → sink (MySQL) + store

package services

import (
	"context"
	"time"

	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/util"
)

type AlertWorker struct {
	Dash  *Dashboard
	Sink  NotificationSink
	Store *Notifications // opsional: alert baru juga masuk store in-process
	MinZ  float64
	Clock util.Clock
}

type SweepStats struct {
	Wells   int `json:"wells"`
	Alerts  int `json:"alerts"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"` // puits gagal direkonsiliasi
}

// RunOnce menyapu semua puits sekali. Kegagalan satu puits hanya dicatat.
func (w *AlertWorker) RunOnce(ctx context.Context) (SweepStats, error) {
	var st SweepStats
	wells, err := w.Dash.WellList(ctx)
	if err != nil {
		return st, err
	}
	clock := w.Clock
	if clock == nil {
		clock = util.RealClock{}
	}
	minZ := w.MinZ
	if minZ <= 0 {
		minZ = 2
	}
	now := clock.Now().UTC()
	log := logger.With("worker.sweep")

	for _, well := range wells {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Wells++
		alerts, err := w.Dash.WellAlerts(ctx, well, minZ, now)
		if err != nil {
			st.Skipped++
			log.WithField("well_id", well.ID).WithError(err).Warn("well reconcile failed")
			continue
		}
		st.Alerts += len(alerts)
		for _, n := range alerts {
			if w.Sink != nil {
				saved, err := w.Sink.SaveNotification(ctx, n)
				if err != nil {
					return st, err
				}
				if saved {
					st.Saved++
				}
			}
			if w.Store != nil {
				w.Store.Add(n)
			}
		}
	}
	log.WithField("wells", st.Wells).
		WithField("alerts", st.Alerts).
		WithField("saved", st.Saved).
		WithField("skipped", st.Skipped).
		Info("sweep done")
	return st, nil
}

// Run: sweep langsung lalu tiap interval sampai ctx selesai.
func (w *AlertWorker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.With("worker.sweep").WithError(err).Error("sweep failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}
