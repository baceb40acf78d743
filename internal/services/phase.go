// internal/services/phase.go
// Normalisasi label phase (teks bebas di rapport) ke kunci phase kanonik
package services

import "strings"

// Phase = satu phase forage berdasarkan diameter casing.
type Phase struct {
	Key   string `json:"key"`   // "26", "16", "12", "8"
	Label string `json:"label"` // label yang dikirim ke backend prévisions
}

// urutan = prioritas pencocokan substring sekaligus urutan tampilan
var canonicalPhases = []Phase{
	{Key: "26", Label: `26"`},
	{Key: "16", Label: `16"`},
	{Key: "12", Label: `12"1/4`},
	{Key: "8", Label: `8"1/2`},
}

func CanonicalPhases() []Phase {
	out := make([]Phase, len(canonicalPhases))
	copy(out, canonicalPhases)
	return out
}

// NormalizePhase: buang tanda kutip, trim, lower-case, lalu petakan ke kunci
// kanonik lewat substring ("26" > "16" > "12" > "8"). Tanpa kecocokan, label
// yang sudah dibersihkan dikembalikan apa adanya.
func NormalizePhase(label string) string {
	s := strings.NewReplacer(`"`, "", "'", "", "”", "", "“", "", "’", "").Replace(label)
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range canonicalPhases {
		if strings.Contains(s, p.Key) {
			return p.Key
		}
	}
	return s
}

// PhaseRank dipakai untuk mengurutkan phase 26 → 16 → 12 → 8 → lainnya.
func PhaseRank(key string) int {
	for i, p := range canonicalPhases {
		if p.Key == key {
			return i
		}
	}
	return len(canonicalPhases)
}

// PhaseLabel mengembalikan label tampilan untuk kunci kanonik.
func PhaseLabel(key string) string {
	for _, p := range canonicalPhases {
		if p.Key == key {
			return p.Label
		}
	}
	return key
}
