// internal/services/text.go
// Pembersihan teks bebas (remarks, anomalies, analysis) sebelum dikirim ke browser

package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict aman dipakai bersamaan setelah dibuat.
var strict = bluemonday.StrictPolicy()

// SanitizeText membuang semua tag HTML dan mengembalikan teks polos.
// Entity ("&lt;img&gt;") di-decode dulu supaya markup ter-encode ikut dibuang;
// diulang sampai stabil. Tidak stabil → output bluemonday (masih ter-escape).
func SanitizeText(s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(strict.Sanitize(html.UnescapeString(s)))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

func sanitizePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := SanitizeText(*p)
	return &v
}

func sanitizeAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := SanitizeText(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}
