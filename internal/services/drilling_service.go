// internal/services/drilling_service.go
// Layanan drilling: agregasi progres per phase (jumlah rapport, hari, kedalaman)

package services

import (
	"cmp"
	"slices"
)

type PhaseBreakdown struct {
	PhaseKey    string  `json:"phaseKey"`
	Label       string  `json:"label"`
	Reports     int     `json:"reports"`
	LastDay     int     `json:"lastDay"`
	MaxDepth    float64 `json:"maxDepth"`
	DelayStatus Status  `json:"delayStatus"`
	CostStatus  Status  `json:"costStatus"`
}

// SummarizePhases mengagregasi baris per kunci phase; status = yang terburuk.
// Urutan: 26 → 16 → 12 → 8 → lainnya (alfabetis).
func SummarizePhases(rows []Row) []PhaseBreakdown {
	agg := map[string]*PhaseBreakdown{}
	for _, r := range rows {
		it, ok := agg[r.PhaseKey]
		if !ok {
			it = &PhaseBreakdown{
				PhaseKey:    r.PhaseKey,
				Label:       PhaseLabel(r.PhaseKey),
				DelayStatus: r.DelayStatus,
				CostStatus:  r.CostStatus,
			}
			agg[r.PhaseKey] = it
		}
		it.Reports++
		if r.Day > it.LastDay {
			it.LastDay = r.Day
		}
		if r.Depth > it.MaxDepth {
			it.MaxDepth = r.Depth
		}
		if r.DelayStatus.severity() > it.DelayStatus.severity() {
			it.DelayStatus = r.DelayStatus
		}
		if r.CostStatus.severity() > it.CostStatus.severity() {
			it.CostStatus = r.CostStatus
		}
	}
	out := make([]PhaseBreakdown, 0, len(agg))
	for _, v := range agg {
		out = append(out, *v)
	}
	slices.SortFunc(out, func(a, b PhaseBreakdown) int {
		if c := cmp.Compare(PhaseRank(a.PhaseKey), PhaseRank(b.PhaseKey)); c != 0 {
			return c
		}
		return cmp.Compare(a.PhaseKey, b.PhaseKey)
	})
	return out
}
