package decideur

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/services"
	"drilling-dashboard/internal/services/servicestest"
	"drilling-dashboard/internal/util"
)

func fixture() *servicestest.Backend {
	return &servicestest.Backend{
		Wells: []backend.Well{
			{PuitID: "1", Name: "Hassi Messaoud 12", Status: "En cours"},
			{PuitID: "2", Name: "Rhourde Nouss 3", Status: "Terminé"},
		},
		Phases: map[string]string{"1": `16"`, "2": `26"`},
		Counts: map[string]int{"En cours": 1, "Terminé": 1},
		Reports: []backend.Report{
			{ID: "10", PuitID: "1", Phase: `26"`, PlannedOperation: "Forage", Date: backend.Date{Time: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)}},
			{ID: "11", PuitID: "1", Phase: `16"`, PlannedOperation: "Tubage", Date: backend.Date{Time: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)}},
		},
		PerWell: map[string]backend.PhaseForecast{
			`1|26"`: {PhaseName: `26"`, CoutPrevu: 100000, CoutReel: 112000, DelaiPrevu: 45, DelaiReel: 52, EtatDelai: "DANGER", EtatCout: "ATTENTION", DepassementCout: true},
			`1|16"`: {PhaseName: `16"`, CoutPrevu: 50000, CoutReel: 40000, DelaiPrevu: 30, DelaiReel: 28, EtatDelai: "NORMAL", EtatCout: "NORMAL"},
		},
		Files: map[string][]byte{"10": []byte("xlsx-bytes")},
	}
}

func newRouter(b *servicestest.Backend, store *services.Notifications) *mux.Router {
	if store == nil {
		store = services.NewNotifications(util.FixedClock{T: time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)}, nil)
	}
	h := &Handler{Dash: services.NewDashboard(b), Files: b, Alerts: store, Heartbeat: 10 * time.Millisecond}
	r := mux.NewRouter()
	h.Register(r.PathPrefix("/api/decideur").Subrouter())
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestWellsFilterAndSort(t *testing.T) {
	r := newRouter(fixture(), nil)

	rec := get(t, r, "/api/decideur/wells?sort=name&order=desc")
	require.Equal(t, http.StatusOK, rec.Code)
	var wells []services.WellView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wells))
	require.Len(t, wells, 2)
	assert.Equal(t, "2", wells[0].ID)
	assert.Equal(t, "16", wells[1].PhaseKey)

	rec = get(t, r, "/api/decideur/wells?phase="+`26%22`)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wells))
	require.Len(t, wells, 1)
	assert.Equal(t, "2", wells[0].ID)
}

func TestWellsUpstreamFailure(t *testing.T) {
	b := fixture()
	b.Fail = map[string]error{"WellIDs": &backend.StatusError{Status: 502}}
	rec := get(t, newRouter(b, nil), "/api/decideur/wells")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"upstream"`)
}

func TestKPIs(t *testing.T) {
	rec := get(t, newRouter(fixture(), nil), "/api/decideur/wells/kpis")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"byStatus":{"En cours":1,"Terminé":1},"total":2}`, rec.Body.String())
}

func TestWellDetailsRoute(t *testing.T) {
	r := newRouter(fixture(), nil)

	rec := get(t, r, "/api/decideur/wells/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var d services.WellDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "11", d.Rows[0].ID)
	assert.Equal(t, services.StatusDanger, d.Rows[1].DelayStatus)

	assert.Equal(t, http.StatusNotFound, get(t, r, "/api/decideur/wells/99").Code)
}

func TestReportsRoute(t *testing.T) {
	r := newRouter(fixture(), nil)

	var reports []backend.Report
	rec := get(t, r, "/api/decideur/wells/1/reports")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "11", reports[0].ID.String())

	rec = get(t, r, "/api/decideur/wells/1/reports?operation=Forage&order=asc")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "10", reports[0].ID.String())
}

func TestDownloadRoute(t *testing.T) {
	r := newRouter(fixture(), nil)

	rec := get(t, r, "/api/decideur/wells/1/reports/10/download?operation=Forage%20vertical")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xlsx-bytes", rec.Body.String())
	assert.Equal(t, `attachment; filename="rapport_Forage_vertical_10.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "10", rec.Header().Get("Content-Length"))

	assert.Equal(t, http.StatusNotFound, get(t, r, "/api/decideur/wells/1/reports/77/download").Code)
}

func TestCostAndDelaySummary(t *testing.T) {
	r := newRouter(fixture(), nil)

	rec := get(t, r, "/api/decideur/wells/1/cost-summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var cs services.CostSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cs))
	require.Len(t, cs.Lines, 4)
	assert.Equal(t, 150000.0, cs.TotalPlanned)
	assert.Equal(t, []string{`26"`}, cs.OverBudget)

	rec = get(t, r, "/api/decideur/wells/1/delay-summary?phase=16")
	require.Equal(t, http.StatusOK, rec.Code)
	var ds services.DelaySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	require.Len(t, ds.Lines, 1)
	assert.Equal(t, "30j", ds.TotalPlanned)
}

func TestAlertsListAndRead(t *testing.T) {
	store, err := services.LoadNotificationStore(context.Background(), nil, services.DefaultNotifications())
	require.NoError(t, err)
	r := newRouter(fixture(), store)

	rec := get(t, r, "/api/decideur/alerts?filter=critique")
	var out struct {
		Alerts []services.Notification `json:"alerts"`
		Unread int                     `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, 6, out.Unread)

	post := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec
	}
	rec = post("/api/decideur/alerts/3/read")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":5}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, post("/api/decideur/alerts/zzz/read").Code)

	rec = post("/api/decideur/alerts/read-all")
	assert.JSONEq(t, `{"marked":5,"unread":0}`, rec.Body.String())
}

func TestAlertsStream(t *testing.T) {
	store := services.NewNotifications(util.FixedClock{T: time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)}, nil)
	srv := httptest.NewServer(newRouter(fixture(), store))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/decideur/alerts/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	next := func(prefix string) string {
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, prefix) {
				return line
			}
		}
		return ""
	}
	assert.Equal(t, "event: unread", next("event:"))
	assert.Equal(t, `data: {"unread":0}`, next("data:"))

	store.Add(services.Notification{ID: "n1", Type: services.NotifCritical, Title: "Retard critique"})
	assert.Equal(t, "event: alert", next("event:"))
	assert.Contains(t, next("data:"), `"id":"n1"`)
	assert.Equal(t, ": ping", next(": ping"))
}
