// internal/middleware/request_id.go
// Middleware untuk inject X-Request-ID + access log (logrus)

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"drilling-dashboard/internal/logger"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
			r.Header.Set("X-Request-ID", reqID)
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom mengambil id request dari context ("" bila tidak ada).
func RequestIDFrom(ctx context.Context) string {
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// statusRecorder mencatat status code; Flush diteruskan untuk SSE.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLog menulis satu baris log per request dan menaikkan counter metrics.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		inFlight.Add(1)
		defer inFlight.Add(-1)

		next.ServeHTTP(rec, r)

		Observe(rec.status, time.Since(start))
		entry := logger.With("http.request").
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rec.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("request_id", RequestIDFrom(r.Context()))
		if rec.status >= 500 {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	})
}
