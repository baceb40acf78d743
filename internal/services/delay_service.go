// internal/services/delay_service.go
// Ringkasan délai prévu vs réel per phase

package services

import "drilling-dashboard/internal/util"

// Tone délai: ahead (lebih cepat), late (> prévu+5j), over (> prévu), on_track.
const (
	ToneAhead   = "ahead"
	ToneLate    = "late"
	ToneOver    = "over"
	ToneOnTrack = "on_track"
	ToneUnknown = "unknown"
)

// lateMarginDays = toleransi sebelum keterlambatan dianggap serius.
const lateMarginDays = 5

func DelayTone(planned, actual float64) string {
	switch {
	case actual < planned:
		return ToneAhead
	case actual > planned+lateMarginDays:
		return ToneLate
	case actual > planned:
		return ToneOver
	default:
		return ToneOnTrack
	}
}

type DelayLine struct {
	Phase       string  `json:"phase"`
	PhaseKey    string  `json:"phaseKey"`
	Operation   string  `json:"operation,omitempty"`
	Planned     string  `json:"plannedDelay"`
	Actual      string  `json:"actualDelay"`
	PlannedDays float64 `json:"plannedDays"`
	ActualDays  float64 `json:"actualDays"`
	Variance    float64 `json:"varianceDays"`
	Status      Status  `json:"status"`
	OverDelay   bool    `json:"overDelay"`
	Tone        string  `json:"tone"`
}

type DelaySummary struct {
	Lines           []DelayLine `json:"lines"`
	TotalPlanned    string      `json:"totalPlanned"`
	TotalActual     string      `json:"totalActual"`
	PlannedDays     float64     `json:"plannedDays"`
	ActualDays      float64     `json:"actualDays"`
	Variance        float64     `json:"varianceDays"`
	VariancePercent float64     `json:"variancePercent"`
	Tone            string      `json:"tone"`
}

// BuildDelaySummary menjumlahkan hari dari baris yang punya prévision.
func BuildDelaySummary(rows []Row) DelaySummary {
	sum := DelaySummary{Lines: make([]DelayLine, 0, len(rows))}
	for _, r := range rows {
		line := DelayLine{
			Phase:     r.Phase,
			PhaseKey:  r.PhaseKey,
			Operation: r.Operation,
			Planned:   r.PlannedDelay,
			Actual:    r.ActualDelay,
			Status:    r.DelayStatus,
			OverDelay: r.OverDelay,
			Tone:      ToneUnknown,
		}
		if f := r.Forecast; f != nil {
			line.PlannedDays = f.PlannedDelay
			line.ActualDays = f.ActualDelay
			line.Variance = f.ActualDelay - f.PlannedDelay
			line.Tone = DelayTone(f.PlannedDelay, f.ActualDelay)
			sum.PlannedDays += f.PlannedDelay
			sum.ActualDays += f.ActualDelay
		}
		sum.Lines = append(sum.Lines, line)
	}
	sum.TotalPlanned = util.FormatDays(sum.PlannedDays)
	sum.TotalActual = util.FormatDays(sum.ActualDays)
	sum.Variance = sum.ActualDays - sum.PlannedDays
	sum.VariancePercent = percent(sum.Variance, sum.PlannedDays)
	sum.Tone = DelayTone(sum.PlannedDays, sum.ActualDays)
	return sum
}
