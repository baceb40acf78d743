package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drilling-dashboard/internal/backend"
)

func strp(s string) *string { return &s }

func TestNormalizePhase(t *testing.T) {
	cases := map[string]string{
		`26"`:          "26",
		"26 pouces":    "26",
		` '26' `:       "26",
		"Phase 16”":    "16",
		`12"1/4`:       "12",
		"12 1/4":       "12",
		`8"1/2`:        "8",
		"8 1/2 pouces": "8",
		"  Unknown-X ": "unknown-x",
		"":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhase(in), "input %q", in)
	}
}

func TestNormalizePhasePriority(t *testing.T) {
	// "26" dicek lebih dulu walau label juga mengandung "8"
	assert.Equal(t, "26", NormalizePhase("26 - 8 jours"))
	assert.Equal(t, "16", NormalizePhase("16 then 12"))
}

func TestPhaseRankAndLabel(t *testing.T) {
	assert.Equal(t, 0, PhaseRank("26"))
	assert.Equal(t, 3, PhaseRank("8"))
	assert.Equal(t, 4, PhaseRank("zzz"))
	assert.Equal(t, `12"1/4`, PhaseLabel("12"))
	assert.Equal(t, "autre", PhaseLabel("autre"))
	assert.Len(t, CanonicalPhases(), 4)
}

func TestReconcileMatchedAndUnknown(t *testing.T) {
	reports := []backend.Report{
		{ID: "1", Phase: "26 pouces"},
		{ID: "2", Phase: "unknown-x"},
	}
	fs := ForecastSet{Items: []backend.PhaseForecast{
		{PhaseName: `26"`, DelaiPrevu: 45, EtatDelai: "NORMAL"},
	}}

	rows := Reconcile(reports, fs)
	require.Len(t, rows, 2)

	assert.Equal(t, "1", rows[0].ID)
	assert.Equal(t, "45j", rows[0].PlannedDelay)
	assert.Equal(t, StatusNormal, rows[0].DelayStatus)
	require.NotNil(t, rows[0].Forecast)
	assert.Equal(t, 45.0, rows[0].Forecast.PlannedDelay)

	assert.Equal(t, "2", rows[1].ID)
	assert.Equal(t, NotAvailable, rows[1].PlannedDelay)
	assert.Equal(t, StatusUnknown, rows[1].DelayStatus)
	assert.Equal(t, StatusUnknown, rows[1].CostStatus)
	assert.Nil(t, rows[1].Forecast)
}

func TestReconcileFirstMatchWins(t *testing.T) {
	reports := []backend.Report{{ID: "9", Phase: `16"`}}
	fs := ForecastSet{Items: []backend.PhaseForecast{
		{PhaseName: "16 pouces", CoutPrevu: 1000, CoutReel: 1200.456, DelaiPrevu: 10, DelaiReel: 12, EtatCout: "danger", DepassementCout: true},
		{PhaseName: `16"`, CoutPrevu: 1, DelaiPrevu: 1},
	}}

	rows := Reconcile(reports, fs)
	require.Len(t, rows, 1)
	assert.Equal(t, "1000.00", rows[0].PlannedCost)
	assert.Equal(t, "1200.46", rows[0].ActualCost)
	assert.Equal(t, "10j", rows[0].PlannedDelay)
	assert.Equal(t, "12j", rows[0].ActualDelay)
	assert.Equal(t, StatusDanger, rows[0].CostStatus)
	// état absent → Inconnu
	assert.Equal(t, StatusUnknown, rows[0].DelayStatus)
	assert.True(t, rows[0].OverBudget)
}

func TestReconcileForecastFailure(t *testing.T) {
	reports := []backend.Report{{ID: "1", Phase: "26"}, {ID: "2", Phase: "8 1/2"}}

	rows := Reconcile(reports, ForecastSet{Err: errors.New("boom")})
	for _, r := range rows {
		assert.Equal(t, StatusError, r.DelayStatus)
		assert.Equal(t, StatusError, r.CostStatus)
		assert.Equal(t, NotAvailable, r.PlannedCost)
		assert.Nil(t, r.Forecast)
	}

	partial := ForecastSet{
		Items:  []backend.PhaseForecast{{PhaseName: `26"`, DelaiPrevu: 30, EtatDelai: "ATTENTION"}},
		Failed: map[string]error{"8": errors.New("timeout")},
	}
	rows = Reconcile(reports, partial)
	assert.Equal(t, StatusAttention, rows[0].DelayStatus)
	assert.Equal(t, StatusError, rows[1].DelayStatus)
}

func TestReconcileKeepsOrderAndIsTotal(t *testing.T) {
	assert.Empty(t, Reconcile(nil, ForecastSet{}))

	reports := []backend.Report{{ID: "c"}, {ID: "a"}, {ID: "b", Phase: "12 1/4"}}
	rows := Reconcile(reports, ForecastSet{Items: []backend.PhaseForecast{{PhaseName: ""}}})
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{rows[0].ID, rows[1].ID, rows[2].ID})
	// phase kosong tidak cocok, walau ada prévision berlabel kosong
	assert.Nil(t, rows[0].Forecast)
	assert.Equal(t, StatusUnknown, rows[0].DelayStatus)
	assert.Equal(t, StatusUnknown, rows[0].CostStatus)
	assert.Equal(t, StatusUnknown, rows[2].DelayStatus)
}

func TestReconcileReportStatusAndDailyCost(t *testing.T) {
	reports := []backend.Report{
		{ID: "1", Analysis: strp("RAS"), DailyCost: &backend.DailyCost{Total: 40500}},
		{ID: "2", Analysis: strp("  ")},
		{ID: "3"},
	}
	rows := Reconcile(reports, ForecastSet{})
	assert.Equal(t, ReportCompleted, rows[0].ReportStatus)
	assert.Equal(t, "$40,500", rows[0].DailyCost)
	assert.Equal(t, ReportPending, rows[1].ReportStatus)
	assert.Equal(t, ReportPending, rows[2].ReportStatus)
	assert.Empty(t, rows[2].DailyCost)
}

func TestPhaseRowsOnePerCanonicalPhase(t *testing.T) {
	fs := ForecastSet{Items: []backend.PhaseForecast{
		{PhaseName: `12"1/4`, CoutPrevu: 10, CoutReel: 20},
	}}
	rows := PhaseRows("W-1", fs)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"26", "16", "12", "8"},
		[]string{rows[0].PhaseKey, rows[1].PhaseKey, rows[2].PhaseKey, rows[3].PhaseKey})
	assert.Equal(t, "W-1", rows[2].WellID)
	assert.NotNil(t, rows[2].Forecast)
	assert.Nil(t, rows[0].Forecast)
}

func TestReportRowsHaveNoForecastFields(t *testing.T) {
	rows := ReportRows([]backend.Report{{ID: "1", Phase: "16", PuitName: "HMD-2"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "16", rows[0].PhaseKey)
	assert.Equal(t, "HMD-2", rows[0].Site)
	assert.Empty(t, rows[0].PlannedDelay)
	assert.Empty(t, rows[0].DelayStatus)
}
