// internal/handlers/http/health_handler.go
// Handler sederhana untuk health check + readiness upstream

package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Probe = cek satu dependency (backend décideur/opérateur, MySQL).
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// RunProbes menjalankan semua probe konkuren dengan timeout 3 detik.
func RunProbes(ctx context.Context, probes []Probe) []ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out := make([]ProbeResult, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			start := time.Now()
			err := p.Check(ctx)
			out[i] = ProbeResult{Name: p.Name, OK: err == nil, LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				out[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// ReadyHandler: 503 bila salah satu probe gagal.
func ReadyHandler(probes []Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := RunProbes(r.Context(), probes)
		status := http.StatusOK
		for _, res := range results {
			if !res.OK {
				status = http.StatusServiceUnavailable
				break
			}
		}
		state := "ready"
		if status != http.StatusOK {
			state = "degraded"
		}
		WriteJSON(w, status, map[string]any{"status": state, "checks": results})
	}
}

// UpstreamsHandler = /debug/upstreams: selalu 200, detail per upstream.
func UpstreamsHandler(probes []Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{"upstreams": RunProbes(r.Context(), probes)})
	}
}
