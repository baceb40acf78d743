package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drilling-dashboard/internal/backend"
)

type fakeLLM struct {
	out    string
	err    error
	prompt string
}

func (f *fakeLLM) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func (f *fakeLLM) Model() string { return "fake-1" }

func sampleReport() backend.Report {
	return backend.Report{
		ID:               "42",
		PuitName:         "HMD-7",
		Phase:            `12"1/4`,
		Day:              14,
		Depth:            2875,
		PlannedOperation: "Forage",
		Anomalies:        strp("Perte de boue partielle"),
		Remarks:          []string{"RAS sécurité", "<b>Tubage</b> prévu", "Météo ok", "Quatrième"},
		DailyCost:        &backend.DailyCost{Total: 40500},
	}
}

func TestAnalyzeWithLLM(t *testing.T) {
	fl := &fakeLLM{out: "Synthèse <b>courte</b>."}
	a := &Analyzer{LLM: fl}

	got := a.Analyze(context.Background(), sampleReport(), []backend.OperationLine{{Code: "DRL", Description: "Forage 12 1/4"}})
	assert.Equal(t, "llm", got.Source)
	assert.Equal(t, "fake-1", got.Model)
	assert.Equal(t, "Synthèse courte.", got.Summary)
	assert.Contains(t, fl.prompt, "HMD-7")
	assert.Contains(t, fl.prompt, "Perte de boue")
	assert.Contains(t, fl.prompt, "Opération DRL")
}

func TestAnalyzeFallsBackOnLLMError(t *testing.T) {
	a := &Analyzer{LLM: &fakeLLM{err: errors.New("quota")}}
	got := a.Analyze(context.Background(), sampleReport(), nil)
	assert.Equal(t, "extractive", got.Source)
	assert.Empty(t, got.Model)
	assert.Equal(t, "42", got.ReportID)
}

func TestExtractiveSummary(t *testing.T) {
	got := (&Analyzer{}).Analyze(context.Background(), sampleReport(), nil)
	require.Equal(t, "extractive", got.Source)
	assert.Contains(t, got.Summary, "Jour 14")
	assert.Contains(t, got.Summary, "$40,500")
	assert.Contains(t, got.Summary, "Anomalies : Perte de boue partielle.")
	assert.Contains(t, got.Summary, "Tubage prévu")
	assert.NotContains(t, got.Summary, "Quatrième")

	bare := ExtractiveSummary(backend.Report{Phase: "26"})
	assert.True(t, strings.HasSuffix(bare, "Aucune anomalie signalée."))
}

func TestDeriveAlertsStableIDs(t *testing.T) {
	rows := PhaseRows("W-1", ForecastSet{Items: []backend.PhaseForecast{
		{PhaseName: `16"`, CoutPrevu: 100, CoutReel: 112, DepassementCout: true, EtatDelai: "ATTENTION", DelaiPrevu: 10, DelaiReel: 12},
	}})
	now := time.Date(2025, 1, 29, 9, 30, 0, 0, time.UTC)

	a := DeriveAlerts("W-1", "", rows, nil, now)
	require.Len(t, a, 2)
	assert.Equal(t, "Retard de phase", a[0].Title)
	assert.Equal(t, "Dépassement de budget", a[1].Title)
	assert.Contains(t, a[1].Description, "+12%")
	assert.Contains(t, a[1].Description, "W-1")
	assert.Equal(t, "Retard / Dépassement", a[1].Category)

	b := DeriveAlerts("W-1", "", rows, nil, now.Add(24*time.Hour))
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.NotEqual(t, a[0].ID, a[1].ID)

	assert.Empty(t, DeriveAlerts("W-2", "x", PhaseRows("W-2", ForecastSet{}), nil, now))
}
