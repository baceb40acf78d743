// Package servicestest menyediakan backend in-memory untuk test handler.
package servicestest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"drilling-dashboard/internal/backend"
	"drilling-dashboard/internal/util"
)

// Backend memenuhi services.Backend dan kebutuhan route opérateur.
// Map Fail: nama method → error yang dikembalikan.
type Backend struct {
	mu sync.Mutex

	Wells     []backend.Well
	Phases    map[string]string
	Counts    map[string]int
	Reports   []backend.Report
	Ops       map[string][]backend.OperationLine
	Costs     map[string]*backend.DailyCost
	Forecasts []backend.PhaseForecast
	PerWell   map[string]backend.PhaseForecast // key: wellID + "|" + phase label
	Files     map[string][]byte
	Fail      map[string]error

	Calls []string
	Token string // token terakhir yang diteruskan
}

func (b *Backend) hit(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, name)
	if tok := backend.TokenFrom(ctx); tok != "" {
		b.Token = tok
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Fail[name]
}

func (b *Backend) WellIDs(ctx context.Context) ([]backend.Well, error) {
	if err := b.hit(ctx, "WellIDs"); err != nil {
		return nil, err
	}
	return append([]backend.Well(nil), b.Wells...), nil
}

func (b *Backend) Well(ctx context.Context, id string) (*backend.Well, error) {
	if err := b.hit(ctx, "Well"); err != nil {
		return nil, err
	}
	for _, w := range b.Wells {
		if w.PuitID.String() == id {
			w := w
			return &w, nil
		}
	}
	return nil, &backend.StatusError{Method: "GET", Path: "/api/puits/" + id, Status: 404}
}

func (b *Backend) CurrentPhase(ctx context.Context, id string) (string, error) {
	if err := b.hit(ctx, "CurrentPhase"); err != nil {
		return "", err
	}
	return b.Phases[id], nil
}

func (b *Backend) CountByStatus(ctx context.Context) (map[string]int, error) {
	if err := b.hit(ctx, "CountByStatus"); err != nil {
		return nil, err
	}
	return b.Counts, nil
}

func (b *Backend) AllReports(ctx context.Context) ([]backend.Report, error) {
	if err := b.hit(ctx, "AllReports"); err != nil {
		return nil, err
	}
	return append([]backend.Report(nil), b.Reports...), nil
}

func (b *Backend) ReportsByWell(ctx context.Context, wellID string) ([]backend.Report, error) {
	if err := b.hit(ctx, "ReportsByWell"); err != nil {
		return nil, err
	}
	var out []backend.Report
	for _, r := range b.Reports {
		if r.PuitID.String() == wellID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *Backend) Report(ctx context.Context, id string) (*backend.Report, error) {
	if err := b.hit(ctx, "Report"); err != nil {
		return nil, err
	}
	for _, r := range b.Reports {
		if r.ID.String() == id {
			r := r
			return &r, nil
		}
	}
	return nil, &backend.StatusError{Method: "GET", Path: "/api/reports/" + id, Status: 404}
}

func (b *Backend) ReportOperations(ctx context.Context, id string) ([]backend.OperationLine, error) {
	if err := b.hit(ctx, "ReportOperations"); err != nil {
		return nil, err
	}
	return b.Ops[id], nil
}

func (b *Backend) ReportDailyCost(ctx context.Context, id string) (*backend.DailyCost, error) {
	if err := b.hit(ctx, "ReportDailyCost"); err != nil {
		return nil, err
	}
	c, ok := b.Costs[id]
	if !ok {
		return nil, &backend.StatusError{Method: "GET", Path: "/api/reports/" + id + "/dailycost", Status: 404}
	}
	return c, nil
}

func (b *Backend) PhaseForecasts(ctx context.Context) ([]backend.PhaseForecast, error) {
	if err := b.hit(ctx, "PhaseForecasts"); err != nil {
		return nil, err
	}
	return b.Forecasts, nil
}

func (b *Backend) PhaseForecast(ctx context.Context, wellID, phaseName string) (*backend.PhaseForecast, error) {
	if err := b.hit(ctx, "PhaseForecast"); err != nil {
		return nil, err
	}
	f, ok := b.PerWell[wellID+"|"+phaseName]
	if !ok {
		return nil, &backend.StatusError{Method: "GET", Path: "/previsions/etat-par-phase/" + wellID, Status: 404}
	}
	return &f, nil
}

func (b *Backend) DownloadReport(ctx context.Context, id string) (*backend.Download, error) {
	if err := b.hit(ctx, "DownloadReport"); err != nil {
		return nil, err
	}
	data, ok := b.Files[id]
	if !ok {
		return nil, util.NotFound("report file " + id)
	}
	return &backend.Download{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		ContentLength: int64(len(data)),
	}, nil
}

// ---- opérateur passthrough ----

func (b *Backend) SignIn(ctx context.Context, in backend.SignInRequest) (*backend.SignInResponse, error) {
	if err := b.hit(ctx, "SignIn"); err != nil {
		return nil, err
	}
	if in.Password != "secret" {
		return nil, &backend.StatusError{Method: "POST", Path: "/api/auth/signin", Status: 401, Body: "bad credentials"}
	}
	return &backend.SignInResponse{Token: "tok-" + in.Email, Username: in.Email, Email: in.Email, Roles: []string{"ROLE_EXPERT"}}, nil
}

func (b *Backend) SignUp(ctx context.Context, in backend.SignUpRequest) (json.RawMessage, error) {
	if err := b.hit(ctx, "SignUp"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"message":"User registered successfully!"}`), nil
}

func (b *Backend) Profile(ctx context.Context, username string) (json.RawMessage, error) {
	if err := b.hit(ctx, "Profile"); err != nil {
		return nil, err
	}
	out, _ := json.Marshal(map[string]string{"username": username})
	return out, nil
}

func (b *Backend) UpdateProfile(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if err := b.hit(ctx, "UpdateProfile"); err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *Backend) UpdatePassword(ctx context.Context, in backend.PasswordUpdate) error {
	return b.hit(ctx, "UpdatePassword")
}

func (b *Backend) ExtractReport(ctx context.Context, wellID, filename string, file io.Reader) (json.RawMessage, error) {
	if err := b.hit(ctx, "ExtractReport"); err != nil {
		return nil, err
	}
	data, _ := io.ReadAll(file)
	out, _ := json.Marshal(map[string]any{"puitId": wellID, "filename": filename, "bytes": len(data)})
	return out, nil
}

func (b *Backend) ConfirmReport(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if err := b.hit(ctx, "ConfirmReport"); err != nil {
		return nil, err
	}
	return payload, nil
}

func (b *Backend) ReviewReport(ctx context.Context, id string, payload json.RawMessage) (json.RawMessage, error) {
	if err := b.hit(ctx, "ReviewReport"); err != nil {
		return nil, err
	}
	return payload, nil
}

// Called true bila method pernah dipanggil.
func (b *Backend) Called(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.Calls {
		if c == name {
			return true
		}
	}
	return false
}
