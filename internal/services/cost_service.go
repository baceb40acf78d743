// internal/services/cost_service.go
// Ringkasan coût prévu vs réel per phase

package services

import (
	"math"

	"github.com/dustin/go-humanize"
)

type CostLine struct {
	Phase      string  `json:"phase"`
	PhaseKey   string  `json:"phaseKey"`
	Operation  string  `json:"operation,omitempty"`
	Planned    float64 `json:"planned"`
	Actual     float64 `json:"actual"`
	Variance   float64 `json:"variance"`
	PlannedFmt string  `json:"plannedFmt"`
	ActualFmt  string  `json:"actualFmt"`
	Status     Status  `json:"status"`
	OverBudget bool    `json:"overBudget"`
	Tone       string  `json:"tone"` // under | over | on_track | unknown
}

type CostSummary struct {
	Lines           []CostLine `json:"lines"`
	TotalPlanned    float64    `json:"totalPlanned"`
	TotalActual     float64    `json:"totalActual"`
	Variance        float64    `json:"variance"`
	VariancePercent float64    `json:"variancePercent"`
	TotalPlannedFmt string     `json:"totalPlannedFmt"`
	TotalActualFmt  string     `json:"totalActualFmt"`
	OverBudget      []string   `json:"overBudgetPhases"`
	Tone            string     `json:"tone"`
}

// FormatMoney: 40500 → "$40,500" (tanpa desimal).
func FormatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.CommafWithDigits(math.Round(v), 0)
}

func costTone(planned, actual float64) string {
	switch {
	case actual < planned:
		return "under"
	case actual > planned:
		return "over"
	default:
		return "on_track"
	}
}

// BuildCostSummary: baris tanpa prévision tetap tampil (tone unknown) tapi
// tidak ikut total.
func BuildCostSummary(rows []Row) CostSummary {
	sum := CostSummary{Lines: make([]CostLine, 0, len(rows)), OverBudget: []string{}}
	for _, r := range rows {
		line := CostLine{
			Phase:      r.Phase,
			PhaseKey:   r.PhaseKey,
			Operation:  r.Operation,
			Status:     r.CostStatus,
			OverBudget: r.OverBudget,
			PlannedFmt: NotAvailable,
			ActualFmt:  NotAvailable,
			Tone:       "unknown",
		}
		if f := r.Forecast; f != nil {
			line.Planned = f.PlannedCost
			line.Actual = f.ActualCost
			line.Variance = f.ActualCost - f.PlannedCost
			line.PlannedFmt = FormatMoney(f.PlannedCost)
			line.ActualFmt = FormatMoney(f.ActualCost)
			line.Tone = costTone(f.PlannedCost, f.ActualCost)
			sum.TotalPlanned += f.PlannedCost
			sum.TotalActual += f.ActualCost
			if r.OverBudget || f.ActualCost > f.PlannedCost {
				sum.OverBudget = append(sum.OverBudget, r.Phase)
			}
		}
		sum.Lines = append(sum.Lines, line)
	}
	sum.Variance = sum.TotalActual - sum.TotalPlanned
	sum.VariancePercent = percent(sum.Variance, sum.TotalPlanned)
	sum.TotalPlannedFmt = FormatMoney(sum.TotalPlanned)
	sum.TotalActualFmt = FormatMoney(sum.TotalActual)
	sum.Tone = costTone(sum.TotalPlanned, sum.TotalActual)
	return sum
}

// percent dibulatkan satu desimal; base 0 → 0.
func percent(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return math.Round(delta/base*1000) / 10
}
