// internal/services/dashboard_service.go
// Orkestrasi fetch konkuren ke backend REST + pembentukan view dashboard

package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/logger"
)

// Backend = subset backend.Client yang dipakai dashboard (di-fake di test).
type Backend interface {
	WellIDs(ctx context.Context) ([]backend.Well, error)
	Well(ctx context.Context, id string) (*backend.Well, error)
	CurrentPhase(ctx context.Context, id string) (string, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	AllReports(ctx context.Context) ([]backend.Report, error)
	ReportsByWell(ctx context.Context, wellID string) ([]backend.Report, error)
	Report(ctx context.Context, id string) (*backend.Report, error)
	ReportOperations(ctx context.Context, id string) ([]backend.OperationLine, error)
	ReportDailyCost(ctx context.Context, id string) (*backend.DailyCost, error)
	PhaseForecasts(ctx context.Context) ([]backend.PhaseForecast, error)
	PhaseForecast(ctx context.Context, wellID, phaseName string) (*backend.PhaseForecast, error)
}

// PhaseUnavailable = phase tampilan saat lookup phase puits gagal.
const PhaseUnavailable = "Erreur"

type Dashboard struct {
	API   Backend
	Limit int // batas goroutine fan-out per request
}

func NewDashboard(api Backend) *Dashboard {
	return &Dashboard{API: api, Limit: 8}
}

func (d *Dashboard) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if d.Limit > 0 {
		g.SetLimit(d.Limit)
	}
	return g, gctx
}

// isolate: error sub-resource ditelan kecuali context dibatalkan.
func isolate(ctx context.Context) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return nil
}

// errs = kumpulan error sub-resource yang di-isolasi (aman dipakai bersamaan).
type errs struct {
	mu sync.Mutex
	m  map[string]string
}

func (e *errs) set(key string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.m == nil {
		e.m = map[string]string{}
	}
	e.m[key] = err.Error()
}

// ---- daftar puits ----

// WellList: daftar id puits lalu phase saat ini per puits secara konkuren.
// Lookup phase yang gagal hanya membuat phase puits itu "Erreur".
func (d *Dashboard) WellList(ctx context.Context) ([]WellView, error) {
	wells, err := d.API.WellIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WellView, len(wells))
	g, gctx := d.group(ctx)
	for i, w := range wells {
		out[i] = WellView{
			ID:       w.PuitID.String(),
			Name:     w.Name,
			Location: w.Location,
			Status:   w.Status,
			Phase:    w.Phase,
		}
		if out[i].Name == "" {
			out[i].Name = out[i].ID
		}
		g.Go(func() error {
			phase, err := d.API.CurrentPhase(gctx, out[i].ID)
			if err != nil {
				logger.With("dashboard.well_phase").WithField("well_id", out[i].ID).WithError(err).Warn("current phase lookup failed")
				out[i].Phase = PhaseUnavailable
				out[i].PhaseKey = ""
				return isolate(gctx)
			}
			out[i].Phase = phase
			out[i].PhaseKey = NormalizePhase(phase)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// StatusCounts = angka KPI (Terminé / En cours / En retard / Suspendu).
func (d *Dashboard) StatusCounts(ctx context.Context) (map[string]int, error) {
	return d.API.CountByStatus(ctx)
}

// ---- prévisions per puits ----

// WellForecasts mengambil état per phase kanonik secara konkuren.
// 404 = phase belum punya prévision (bukan error).
func (d *Dashboard) WellForecasts(ctx context.Context, wellID string) ForecastSet {
	phases := canonicalPhases
	results := make([]*backend.PhaseForecast, len(phases))
	failures := make([]error, len(phases))

	g, gctx := d.group(ctx)
	for i, p := range phases {
		g.Go(func() error {
			f, err := d.API.PhaseForecast(gctx, wellID, p.Label)
			switch {
			case err == nil:
				results[i] = f
			case backend.IsNotFound(err):
			default:
				failures[i] = err
			}
			return isolate(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return ForecastSet{Err: err}
	}

	fs := ForecastSet{}
	failed := 0
	for i, p := range phases {
		if failures[i] != nil {
			if fs.Failed == nil {
				fs.Failed = map[string]error{}
			}
			fs.Failed[p.Key] = failures[i]
			failed++
			continue
		}
		if results[i] != nil {
			fs.Items = append(fs.Items, *results[i])
		}
	}
	if failed == len(phases) {
		fs.Err = errors.Join(failures...)
	}
	return fs
}

// ---- détail puits ----

type WellDetails struct {
	Well         backend.Well      `json:"well"`
	CurrentPhase string            `json:"currentPhase"`
	Rows         []Row             `json:"rows"`
	PhaseStatus  []Row             `json:"phaseStatus"`
	Phases       []PhaseBreakdown  `json:"phases"`
	Errors       map[string]string `json:"errors,omitempty"`
}

// WellDetails: puits wajib ada; rapport / phase / prévision gagal → kosong + Errors.
func (d *Dashboard) WellDetails(ctx context.Context, id string) (*WellDetails, error) {
	var (
		well    *backend.Well
		phase   string
		reports []backend.Report
		fs      ForecastSet
		failed  errs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w, err := d.API.Well(gctx, id)
		if err != nil {
			return err
		}
		well = w
		return nil
	})
	g.Go(func() error {
		p, err := d.API.CurrentPhase(gctx, id)
		if err != nil {
			failed.set("currentPhase", err)
			phase = PhaseUnavailable
			return isolate(gctx)
		}
		phase = p
		return nil
	})
	g.Go(func() error {
		r, err := d.API.ReportsByWell(gctx, id)
		if err != nil {
			failed.set("reports", err)
			return isolate(gctx)
		}
		reports = r
		return nil
	})
	g.Go(func() error {
		fs = d.WellForecasts(gctx, id)
		if fs.Err != nil {
			failed.set("forecasts", fs.Err)
		}
		return isolate(gctx)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := SortRows(Reconcile(reports, fs), SortByDate, true)
	sanitizeRows(rows)
	return &WellDetails{
		Well:         *well,
		CurrentPhase: phase,
		Rows:         rows,
		PhaseStatus:  PhaseRows(id, fs),
		Phases:       SummarizePhases(rows),
		Errors:       failed.m,
	}, nil
}

func sanitizeRows(rows []Row) {
	for i := range rows {
		rows[i].Operation = SanitizeText(rows[i].Operation)
		rows[i].Site = SanitizeText(rows[i].Site)
	}
}

// WellReports: rapport satu puits, difilter plannedOperation lalu diurutkan.
func (d *Dashboard) WellReports(ctx context.Context, id string, key SortKey, desc bool, operation string) ([]backend.Report, error) {
	reports, err := d.API.ReportsByWell(ctx, id)
	if err != nil {
		return nil, err
	}
	out := SortReports(FilterReports(reports, operation), key, desc)
	for i := range out {
		out[i].Remarks = sanitizeAll(out[i].Remarks)
		out[i].Anomalies = sanitizePtr(out[i].Anomalies)
		out[i].Analysis = sanitizePtr(out[i].Analysis)
	}
	return out, nil
}

// SummaryQuery = parameter sort/filter ringkasan coût/délai per puits.
type SummaryQuery struct {
	Filter RowFilter
	Sort   SortKey
	Desc   bool
}

func (d *Dashboard) phaseView(ctx context.Context, id string, q SummaryQuery) ([]Row, error) {
	fs := d.WellForecasts(ctx, id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SortRows(FilterRows(PhaseRows(id, fs), q.Filter), q.Sort, q.Desc), nil
}

// CostSummary per phase kanonik; prévision gagal → baris Erreur, bukan error.
func (d *Dashboard) CostSummary(ctx context.Context, id string, q SummaryQuery) (CostSummary, error) {
	rows, err := d.phaseView(ctx, id, q)
	if err != nil {
		return CostSummary{}, err
	}
	return BuildCostSummary(rows), nil
}

func (d *Dashboard) DelaySummary(ctx context.Context, id string, q SummaryQuery) (DelaySummary, error) {
	rows, err := d.phaseView(ctx, id, q)
	if err != nil {
		return DelaySummary{}, err
	}
	return BuildDelaySummary(rows), nil
}

// ---- analyse & historique (opérateur) ----

type AnalyseQuery struct {
	Filter  RowFilter
	Sort    SortKey
	Desc    bool
	Page    int
	PerPage int
}

// AnalyseRows: semua rapport + état global per phase (konkuren), join, filter,
// sort, paginate. Prévision gagal → semua baris Erreur.
func (d *Dashboard) AnalyseRows(ctx context.Context, q AnalyseQuery) (Page[Row], error) {
	var (
		reports []backend.Report
		fs      ForecastSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := d.API.AllReports(gctx)
		if err != nil {
			return err
		}
		reports = r
		return nil
	})
	g.Go(func() error {
		items, err := d.API.PhaseForecasts(gctx)
		if err != nil {
			logger.With("dashboard.forecasts").WithError(err).Warn("phase forecasts unavailable")
			fs.Err = err
			return isolate(gctx)
		}
		fs.Items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page[Row]{}, err
	}

	rows := Reconcile(reports, fs)
	sanitizeRows(rows)
	rows = SortRows(FilterRows(rows, q.Filter), q.Sort, q.Desc)
	return Paginate(rows, q.Page, q.PerPage), nil
}

// History = daftar rapport tanpa join prévision (page historique).
func (d *Dashboard) History(ctx context.Context, q AnalyseQuery) (Page[Row], error) {
	reports, err := d.API.AllReports(ctx)
	if err != nil {
		return Page[Row]{}, err
	}
	rows := ReportRows(reports)
	sanitizeRows(rows)
	rows = SortRows(FilterRows(rows, q.Filter), q.Sort, q.Desc)
	return Paginate(rows, q.Page, q.PerPage), nil
}

// ---- détail rapport ----

type ReportDetail struct {
	Report      backend.Report          `json:"report"`
	Status      string                  `json:"status"`
	Operations  []backend.OperationLine `json:"operations"`
	DailyCost   *backend.DailyCost      `json:"dailyCost"`
	CostBuckets []backend.CostBucket    `json:"costBuckets,omitempty"`
	TotalCost   string                  `json:"totalCost,omitempty"`
	Errors      map[string]string       `json:"errors,omitempty"`
}

// ReportDetail: rapport + opérations + coût journalier konkuren. Kegagalan
// opérations / coût hanya meng-null-kan sub-resource itu.
func (d *Dashboard) ReportDetail(ctx context.Context, id string) (*ReportDetail, error) {
	var (
		rep    *backend.Report
		ops    []backend.OperationLine
		cost   *backend.DailyCost
		failed errs
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := d.API.Report(gctx, id)
		if err != nil {
			return err
		}
		rep = r
		return nil
	})
	g.Go(func() error {
		o, err := d.API.ReportOperations(gctx, id)
		if err != nil {
			failed.set("operations", err)
			return isolate(gctx)
		}
		ops = o
		return nil
	})
	g.Go(func() error {
		c, err := d.API.ReportDailyCost(gctx, id)
		if err != nil {
			failed.set("dailyCost", err)
			return isolate(gctx)
		}
		cost = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ReportDetail{
		Report:     *rep,
		Status:     reportStatus(*rep),
		Operations: ops,
		DailyCost:  cost,
		Errors:     failed.m,
	}
	out.Report.Remarks = sanitizeAll(rep.Remarks)
	out.Report.Anomalies = sanitizePtr(rep.Anomalies)
	out.Report.Analysis = sanitizePtr(rep.Analysis)
	for i := range out.Operations {
		out.Operations[i].Description = SanitizeText(out.Operations[i].Description)
	}
	if cost != nil {
		out.CostBuckets = cost.Buckets()
		out.TotalCost = FormatMoney(float64(cost.Total))
	}
	return out, nil
}

// ---- alert per puits (worker) ----

// WellAlerts merekonsiliasi satu puits dan menurunkan alert-nya.
func (d *Dashboard) WellAlerts(ctx context.Context, w WellView, minZ float64, now time.Time) ([]Notification, error) {
	var (
		reports []backend.Report
		fs      ForecastSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := d.API.ReportsByWell(gctx, w.ID)
		if err != nil {
			return err
		}
		reports = r
		return nil
	})
	g.Go(func() error {
		fs = d.WellForecasts(gctx, w.ID)
		return isolate(gctx)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var anomalies []Anomaly
	if series := DailyCostSeries(w.ID, reports); len(series.Points) >= 3 {
		anomalies, _ = ZScoreAnomalies(series, minZ)
	}
	name := strings.TrimSpace(w.Name)
	return DeriveAlerts(w.ID, name, PhaseRows(w.ID, fs), anomalies, now), nil
}
