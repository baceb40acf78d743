// internal/util/units.go
// Parsing angka dari string bersatuan ("69j", "$40,500", "12.5 j")

package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumber     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	reSpaceGroup = regexp.MustCompile(`\d[ \x{00a0}\x{202f}]\d{3}`)
	reCommaFrac  = regexp.MustCompile(`\d,\d{1,2}(?:\D|$)`)
)

var spaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// ParseUnitNumber mengambil angka pertama dari s. Spasi/NBSP = pemisah ribuan.
// "," = desimal ala Prancis bila tidak ada "." dan hanya satu koma yang diikuti
// 1-2 digit ("45,5j") atau ribuan sudah dipisah spasi ("1 200,5 DA");
// selain itu "," = pemisah ribuan ("$40,500"). Tidak bisa di-parse → 0.
func ParseUnitNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	spaced := reSpaceGroup.MatchString(s)
	s = spaces.Replace(s)
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 && (spaced || reCommaFrac.MatchString(s)) {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	m := reNumber.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// FormatDays menulis jumlah hari dengan sufiks "j" (45 → "45j", 2.5 → "2.5j").
func FormatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64) + "j"
}
