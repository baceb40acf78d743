package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/services"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, err := run(t, "normalize", `26"`, "12 1/4", "autre")
	require.NoError(t, err)
	assert.Equal(t, "26\"\t26\n12 1/4\t12\nautre\tautre\n", out)
}

func TestReconcileRequiresWell(t *testing.T) {
	wellID = ""
	_, err := run(t, "reconcile", "--well", "")
	assert.EqualError(t, err, "--well is required")
}

func TestReconcileAgainstFakeBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/puits/7":
			_, _ = w.Write([]byte(`{"puitId":7,"name":"HMD-7","status":"En cours"}`))
		case r.URL.Path == "/api/puits/7/current-phase":
			_, _ = w.Write([]byte(`16"`))
		case r.URL.Path == "/api/reports/puit/7":
			_, _ = w.Write([]byte(`[{"id":1,"phase":"26 pouces","date":"2025-01-05"},{"id":2,"phase":"16\"","date":"2025-01-20"}]`))
		case strings.HasPrefix(r.URL.Path, "/previsions/etat-par-phase/7/26"):
			_, _ = w.Write([]byte(`{"phaseName":"26\"","coutPrevu":100,"coutReel":120,"delaiPrevu":45,"delaiReel":52,"etatDelai":"DANGER","etatCout":"ATTENTION"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := run(t, "reconcile", "--backend", srv.URL, "--well", "7", "--sort", "date")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "45j")
	assert.Contains(t, lines[1], "DANGER")
	assert.Contains(t, lines[2], "Inconnu")
}

func TestPrintWells(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printWells(&buf, []services.WellView{{ID: "1", Name: "HMD", Status: "En cours", Phase: `16"`}}))
	assert.Contains(t, buf.String(), "HMD")
	assert.True(t, strings.HasPrefix(buf.String(), "ID"))
}

func TestCommandContextForwardsToken(t *testing.T) {
	token = "abc"
	defer func() { token = "" }()
	ctx, cancel := commandContext(rootCmd)
	defer cancel()
	assert.Equal(t, "abc", backend.TokenFrom(ctx))
}
