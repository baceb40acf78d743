// internal/services/analytics_service.go
// Layanan analitik: deteksi anomali coût journalier (z-score)

package services

import (
	"errors"
	"math"

	"drilling-dashboard/internal/backend"
)

type CostPoint struct {
	ReportID string
	Day      int
	Value    float64
}

type CostSeries struct {
	WellID string
	Points []CostPoint
}

type Anomaly struct {
	WellID   string  `json:"wellId"`
	ReportID string  `json:"reportId"`
	Day      int     `json:"day"`
	Value    float64 `json:"value"`
	ZScore   float64 `json:"zScore"`
}

var ErrEmptySeries = errors.New("empty series")

// DailyCostSeries mengambil total coût journalier dari rapport yang punya dailyCost.
func DailyCostSeries(wellID string, reports []backend.Report) CostSeries {
	s := CostSeries{WellID: wellID}
	for _, r := range reports {
		if r.DailyCost == nil {
			continue
		}
		s.Points = append(s.Points, CostPoint{
			ReportID: r.ID.String(),
			Day:      int(r.Day),
			Value:    float64(r.DailyCost.Total),
		})
	}
	return s
}

// ZScoreAnomalies mendeteksi anomali berbasis z-score sederhana (mean & stddev populasi).
func ZScoreAnomalies(s CostSeries, minZ float64) ([]Anomaly, error) {
	if len(s.Points) == 0 {
		return nil, ErrEmptySeries
	}
	// mean
	var sum float64
	for _, p := range s.Points {
		sum += p.Value
	}
	mean := sum / float64(len(s.Points))

	// stddev
	var ss float64
	for _, p := range s.Points {
		d := p.Value - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(s.Points)))
	if std == 0 {
		return []Anomaly{}, nil
	}

	out := []Anomaly{}
	for _, p := range s.Points {
		z := (p.Value - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Anomaly{
				WellID:   s.WellID,
				ReportID: p.ReportID,
				Day:      p.Day,
				Value:    p.Value,
				ZScore:   z,
			})
		}
	}
	return out, nil
}
