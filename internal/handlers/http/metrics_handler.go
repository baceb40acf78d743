// internal/handlers/http/metrics_handler.go
// Handler untuk metrics Prometheus format sederhana

package http

import (
	"fmt"
	"net/http"

	"drilling-dashboard/internal/middleware"
)

// MetricsHandler menulis counter request; unread (opsional) = jumlah alert belum dibaca.
func MetricsHandler(unread func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := middleware.Metrics()
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		fmt.Fprintf(w, "# HELP app_up 1 if the app is up\n# TYPE app_up gauge\napp_up 1\n")
		fmt.Fprintf(w, "# HELP http_requests_total Completed HTTP requests\n# TYPE http_requests_total counter\nhttp_requests_total %d\n", m.Requests)
		fmt.Fprintf(w, "# TYPE http_requests_errors_total counter\nhttp_requests_errors_total{class=\"4xx\"} %d\nhttp_requests_errors_total{class=\"5xx\"} %d\n", m.Errors4xx, m.Errors5xx)
		fmt.Fprintf(w, "# TYPE http_request_duration_ms_sum counter\nhttp_request_duration_ms_sum %d\n", m.DurationMs)
		fmt.Fprintf(w, "# TYPE http_requests_in_flight gauge\nhttp_requests_in_flight %d\n", m.InFlight)
		if unread != nil {
			fmt.Fprintf(w, "# TYPE alerts_unread gauge\nalerts_unread %d\n", unread())
		}
	}
}
