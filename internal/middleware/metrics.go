// internal/middleware/metrics.go
// Counter request in-process untuk /metrics

package middleware

import (
	"sync/atomic"
	"time"
)

var (
	requestsTotal atomic.Int64
	errors4xx     atomic.Int64
	errors5xx     atomic.Int64
	durationMs    atomic.Int64
	inFlight      atomic.Int64
)

// Observe mencatat satu request selesai.
func Observe(status int, d time.Duration) {
	requestsTotal.Add(1)
	durationMs.Add(d.Milliseconds())
	switch {
	case status >= 500:
		errors5xx.Add(1)
	case status >= 400:
		errors4xx.Add(1)
	}
}

type Snapshot struct {
	Requests   int64
	Errors4xx  int64
	Errors5xx  int64
	DurationMs int64
	InFlight   int64
}

func Metrics() Snapshot {
	return Snapshot{
		Requests:   requestsTotal.Load(),
		Errors4xx:  errors4xx.Load(),
		Errors5xx:  errors5xx.Load(),
		DurationMs: durationMs.Load(),
		InFlight:   inFlight.Load(),
	}
}
