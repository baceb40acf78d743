// internal/services/reconcile_service.go
// Rekonsiliasi planned vs actual: join rapport ↔ prévision per phase
package services

import (
	"fmt"
	"strings"
	"time"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/util"
)

// Status = klasifikasi état coût/délai. Inconnu & Erreur hanya ada di sisi BFF.
type Status string

const (
	StatusNormal    Status = "NORMAL"
	StatusAttention Status = "ATTENTION"
	StatusDanger    Status = "DANGER"
	StatusUnknown   Status = "Inconnu"
	StatusError     Status = "Erreur"
)

// NotAvailable = placeholder tampilan untuk angka yang tidak ada.
const NotAvailable = "N/A"

// severity dipakai untuk "status terburuk" di agregasi phase.
func (s Status) severity() int {
	switch s {
	case StatusDanger:
		return 4
	case StatusAttention:
		return 3
	case StatusError:
		return 2
	case StatusNormal:
		return 1
	default:
		return 0
	}
}

// ParseStatus menormalkan état dari backend; nilai asing → Inconnu.
func ParseStatus(s string) Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORMAL":
		return StatusNormal
	case "ATTENTION":
		return StatusAttention
	case "DANGER":
		return StatusDanger
	default:
		return StatusUnknown
	}
}

// Figures = angka prévision yang cocok; nil di Row berarti tidak ada kecocokan.
type Figures struct {
	PlannedCost  float64 `json:"plannedCost"`
	ActualCost   float64 `json:"actualCost"`
	PlannedDelay float64 `json:"plannedDelay"`
	ActualDelay  float64 `json:"actualDelay"`
	PlannedDepth float64 `json:"plannedDepth,omitempty"`
	ActualDepth  float64 `json:"actualDepth,omitempty"`
}

// Row = satu baris gabungan (identitas rapport + angka prévision).
type Row struct {
	ID           string    `json:"id"`
	WellID       string    `json:"wellId,omitempty"`
	Site         string    `json:"drillingSite,omitempty"`
	Phase        string    `json:"phase"`
	PhaseKey     string    `json:"phaseKey"`
	Operation    string    `json:"operation,omitempty"`
	Date         time.Time `json:"date"`
	Day          int       `json:"day,omitempty"`
	Depth        float64   `json:"depth,omitempty"`
	PlannedCost  string    `json:"plannedCost,omitempty"`
	ActualCost   string    `json:"actualCost,omitempty"`
	PlannedDelay string    `json:"plannedDelay,omitempty"`
	ActualDelay  string    `json:"actualDelay,omitempty"`
	CostStatus   Status    `json:"costStatus,omitempty"`
	DelayStatus  Status    `json:"delayStatus,omitempty"`
	OverBudget   bool      `json:"overBudget"`
	OverDelay    bool      `json:"overDelay"`
	CostColor    string    `json:"costColor,omitempty"`
	DelayColor   string    `json:"delayColor,omitempty"`
	Forecast     *Figures  `json:"forecast,omitempty"`
	ReportStatus string    `json:"reportStatus,omitempty"`
	DailyCost    string    `json:"dailyCost,omitempty"`
}

const (
	ReportCompleted = "Complété"
	ReportPending   = "En attente"
)

// reportStatus: rapport dianggap selesai bila analisis expert sudah ada.
func reportStatus(r backend.Report) string {
	if r.Analysis != nil && strings.TrimSpace(*r.Analysis) != "" {
		return ReportCompleted
	}
	return ReportPending
}

// ForecastSet = hasil fetch prévisions.
// Err != nil: fetch gagal total. Failed: kunci phase yang fetch-nya gagal.
type ForecastSet struct {
	Items  []backend.PhaseForecast
	Err    error
	Failed map[string]error
}

// Reconcile menghasilkan satu Row per rapport, urutan dipertahankan.
// Prévision pertama dengan kunci phase sama yang dipakai. Total: tidak
// pernah panic dan tidak melakukan I/O.
func Reconcile(reports []backend.Report, fs ForecastSet) []Row {
	keys := make([]string, len(fs.Items))
	for i, f := range fs.Items {
		keys[i] = NormalizePhase(f.PhaseName)
	}

	out := make([]Row, 0, len(reports))
	for _, rep := range reports {
		row := reportRow(rep)
		switch {
		case fs.Err != nil:
			fillSentinel(&row, StatusError)
		case fs.Failed[row.PhaseKey] != nil:
			fillSentinel(&row, StatusError)
		case row.PhaseKey == "":
			// rapport tanpa phase tidak pernah dicocokkan
			fillSentinel(&row, StatusUnknown)
		default:
			matched := false
			for i, k := range keys {
				if k == row.PhaseKey {
					fillForecast(&row, fs.Items[i])
					matched = true
					break
				}
			}
			if !matched {
				fillSentinel(&row, StatusUnknown)
			}
		}
		out = append(out, row)
	}
	return out
}

// reportRow = identitas rapport saja, tanpa angka prévision.
func reportRow(rep backend.Report) Row {
	row := Row{
		ID:           rep.ID.String(),
		WellID:       rep.PuitID.String(),
		Site:         rep.PuitName,
		Phase:        rep.Phase,
		PhaseKey:     NormalizePhase(rep.Phase),
		Operation:    rep.PlannedOperation,
		Date:         rep.Date.Time,
		Day:          int(rep.Day),
		Depth:        float64(rep.Depth),
		ReportStatus: reportStatus(rep),
	}
	if rep.DailyCost != nil {
		row.DailyCost = FormatMoney(float64(rep.DailyCost.Total))
	}
	return row
}

// ReportRows dipakai historique: baris rapport tanpa join prévision.
func ReportRows(reports []backend.Report) []Row {
	out := make([]Row, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportRow(rep))
	}
	return out
}

func fillSentinel(row *Row, st Status) {
	row.PlannedCost = NotAvailable
	row.ActualCost = NotAvailable
	row.PlannedDelay = NotAvailable
	row.ActualDelay = NotAvailable
	row.CostStatus = st
	row.DelayStatus = st
	row.Forecast = nil
}

func fillForecast(row *Row, f backend.PhaseForecast) {
	row.PlannedCost = fmt.Sprintf("%.2f", f.CoutPrevu)
	row.ActualCost = fmt.Sprintf("%.2f", f.CoutReel)
	row.PlannedDelay = util.FormatDays(f.DelaiPrevu)
	row.ActualDelay = util.FormatDays(f.DelaiReel)
	row.CostStatus = ParseStatus(f.EtatCout)
	row.DelayStatus = ParseStatus(f.EtatDelai)
	row.OverBudget = f.DepassementCout
	row.OverDelay = f.DepassementDelai
	row.CostColor = f.CouleurCout
	row.DelayColor = f.CouleurDelai
	row.Forecast = &Figures{
		PlannedCost:  f.CoutPrevu,
		ActualCost:   f.CoutReel,
		PlannedDelay: f.DelaiPrevu,
		ActualDelay:  f.DelaiReel,
		PlannedDepth: f.ProfondeurPrevue,
		ActualDepth:  f.ProfondeurReelle,
	}
}

// PhaseRows = satu Row per phase kanonik (dipakai ringkasan coût/délai per puits).
func PhaseRows(wellID string, fs ForecastSet) []Row {
	synthetic := make([]backend.Report, 0, len(canonicalPhases))
	for _, p := range canonicalPhases {
		synthetic = append(synthetic, backend.Report{
			ID:     backend.ID(p.Key),
			PuitID: backend.ID(wellID),
			Phase:  p.Label,
		})
	}
	return Reconcile(synthetic, fs)
}
