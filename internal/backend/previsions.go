// internal/backend/previsions.go
package backend

import (
	"context"
	"net/url"
)

// Forecasts memanggil GET /previsions.
func (c *Client) Forecasts(ctx context.Context) ([]Forecast, error) {
	var out []Forecast
	if err := c.getJSON(ctx, "/previsions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PhaseForecasts memanggil GET /previsions/etat-par-phase (semua phase).
func (c *Client) PhaseForecasts(ctx context.Context) ([]PhaseForecast, error) {
	var out []PhaseForecast
	if err := c.getJSON(ctx, "/previsions/etat-par-phase", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PhaseForecast memanggil GET /previsions/etat-par-phase/{wellId}/{phaseName}.
func (c *Client) PhaseForecast(ctx context.Context, wellID, phaseName string) (*PhaseForecast, error) {
	var out PhaseForecast
	path := "/previsions/etat-par-phase/" + url.PathEscape(wellID) + "/" + url.PathEscape(phaseName)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	if out.PhaseName == "" {
		out.PhaseName = phaseName
	}
	return &out, nil
}
