// internal/services/sortfilter.go
// Sort / filter / paginate untuk baris rekonsiliasi, rapport, dan daftar puits
package services

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/util"
)

// ShowAll = nilai filter kategori yang berarti "tanpa filter".
const ShowAll = "all"

type SortKey string

const (
	SortByPhase     SortKey = "phase"
	SortByCost      SortKey = "cost"
	SortByDelay     SortKey = "delay"
	SortByOperation SortKey = "operation"
	SortByDate      SortKey = "date"
	SortByID        SortKey = "id"
	SortBySite      SortKey = "site"
)

// ParseSortKey: kunci asing → date (default semua tabel).
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByPhase, SortByCost, SortByDelay, SortByOperation, SortByDate, SortByID, SortBySite:
		return k
	default:
		return SortByDate
	}
}

// french membuat collator baru; collate.Collator tidak aman dipakai bersamaan.
func french() *collate.Collator {
	return collate.New(language.French, collate.IgnoreCase)
}

// SortRows mengembalikan slice baru terurut (stabil). Angka bersatuan
// ("69j", "$40,500") dibandingkan numerik; string tak terbaca = 0.
func SortRows(rows []Row, key SortKey, desc bool) []Row {
	out := slices.Clone(rows)
	col := french()
	cmpFn := func(a, b Row) int {
		switch key {
		case SortByPhase:
			if c := cmp.Compare(PhaseRank(a.PhaseKey), PhaseRank(b.PhaseKey)); c != 0 {
				return c
			}
			return col.CompareString(a.Phase, b.Phase)
		case SortByCost:
			return cmp.Compare(util.ParseUnitNumber(a.ActualCost), util.ParseUnitNumber(b.ActualCost))
		case SortByDelay:
			return cmp.Compare(util.ParseUnitNumber(a.ActualDelay), util.ParseUnitNumber(b.ActualDelay))
		case SortByOperation:
			return col.CompareString(a.Operation, b.Operation)
		case SortByID:
			return compareIDs(a.ID, b.ID)
		case SortBySite:
			return col.CompareString(a.Site, b.Site)
		default:
			return a.Date.Compare(b.Date)
		}
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		if desc {
			return cmpFn(b, a)
		}
		return cmpFn(a, b)
	})
	return out
}

// compareIDs: id yang seluruhnya digit dibandingkan sebagai angka dan
// diletakkan lebih dulu; id alfanumerik ("PU-12") leksikal.
func compareIDs(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(na, nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// RowFilter: field kosong atau "all" = tidak difilter. Start/End inklusif (per hari).
type RowFilter struct {
	Phase       string
	Operation   string
	Site        string
	CostStatus  string
	DelayStatus string
	Start       time.Time
	End         time.Time
	Search      string
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, ShowAll)
}

// FilterRows mempertahankan urutan relatif baris yang lolos.
func FilterRows(rows []Row, f RowFilter) []Row {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	phaseKey := ""
	if active(f.Phase) {
		phaseKey = NormalizePhase(f.Phase)
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if phaseKey != "" && r.PhaseKey != phaseKey {
			continue
		}
		if active(f.Operation) && r.Operation != f.Operation {
			continue
		}
		if active(f.Site) && r.Site != f.Site {
			continue
		}
		if active(f.CostStatus) && !strings.EqualFold(string(r.CostStatus), f.CostStatus) {
			continue
		}
		if active(f.DelayStatus) && !strings.EqualFold(string(r.DelayStatus), f.DelayStatus) {
			continue
		}
		if !inRange(r.Date, f.Start, f.End) {
			continue
		}
		if q != "" && !matchesAny(q, r.ID, r.Phase, r.Site) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// inRange membandingkan tanggal kalender saja; nol = tanpa batas.
func inRange(d, start, end time.Time) bool {
	if start.IsZero() && end.IsZero() {
		return true
	}
	if d.IsZero() {
		return false
	}
	day := truncateDay(d)
	if !start.IsZero() && day.Before(truncateDay(start)) {
		return false
	}
	if !end.IsZero() && day.After(truncateDay(end)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func matchesAny(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ---- pagination ----

var perPageOptions = []int{5, 10, 25}

const DefaultPerPage = 5

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate: page mulai dari 1; perPage di luar 5/10/25 → 5; page di luar
// jangkauan dijepit ke halaman terakhir.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if !slices.Contains(perPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	lo := (page - 1) * perPage
	hi := min(lo+perPage, total)
	return Page[T]{
		Items:      slices.Clone(items[lo:hi]),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// ---- rapports ----

// SortReports: date (default, terbaru dulu bila desc), operation, id, site (phase).
func SortReports(reports []backend.Report, key SortKey, desc bool) []backend.Report {
	out := slices.Clone(reports)
	col := french()
	cmpFn := func(a, b backend.Report) int {
		switch key {
		case SortByOperation:
			return col.CompareString(a.PlannedOperation, b.PlannedOperation)
		case SortByID:
			return compareIDs(a.ID.String(), b.ID.String())
		case SortBySite, SortByPhase:
			return col.CompareString(a.Phase, b.Phase)
		default:
			return a.Date.Compare(b.Date.Time)
		}
	}
	slices.SortStableFunc(out, func(a, b backend.Report) int {
		if desc {
			return cmpFn(b, a)
		}
		return cmpFn(a, b)
	})
	return out
}

// FilterReports menyaring berdasarkan plannedOperation ("all" = semua).
func FilterReports(reports []backend.Report, operation string) []backend.Report {
	if !active(operation) {
		return slices.Clone(reports)
	}
	out := make([]backend.Report, 0, len(reports))
	for _, r := range reports {
		if r.PlannedOperation == operation {
			out = append(out, r)
		}
	}
	return out
}

// ---- daftar puits ----

// WellView = satu baris daftar puits (phase saat ini bisa "Erreur").
type WellView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
	Phase    string `json:"phase"`
	PhaseKey string `json:"phaseKey"`
}

// WellPhaseAll = sentinel filter daftar puits (kapital, seperti UI décideur).
const WellPhaseAll = "All"

// FilterWells menyaring berdasarkan phase saat ini (dibandingkan per kunci kanonik).
func FilterWells(wells []WellView, phase string) []WellView {
	phase = strings.TrimSpace(phase)
	if phase == "" || strings.EqualFold(phase, WellPhaseAll) {
		return slices.Clone(wells)
	}
	key := NormalizePhase(phase)
	out := make([]WellView, 0, len(wells))
	for _, w := range wells {
		if w.PhaseKey == key {
			out = append(out, w)
		}
	}
	return out
}

// SortWells: name (default), status, phase.
func SortWells(wells []WellView, key string, desc bool) []WellView {
	out := slices.Clone(wells)
	col := french()
	cmpFn := func(a, b WellView) int {
		switch strings.ToLower(key) {
		case "status":
			return col.CompareString(a.Status, b.Status)
		case "phase":
			return cmp.Compare(PhaseRank(a.PhaseKey), PhaseRank(b.PhaseKey))
		default:
			return col.CompareString(a.Name, b.Name)
		}
	}
	slices.SortStableFunc(out, func(a, b WellView) int {
		if desc {
			return cmpFn(b, a)
		}
		return cmpFn(a, b)
	})
	return out
}
