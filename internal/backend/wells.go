// internal/backend/wells.go
package backend

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// WellIDs memanggil GET /api/puits/ids (daftar ringkas puits).
func (c *Client) WellIDs(ctx context.Context) ([]Well, error) {
	var out []Well
	if err := c.getJSON(ctx, "/api/puits/ids", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Wells memanggil GET /api/puits (dipakai filter site di view opérateur).
func (c *Client) Wells(ctx context.Context) ([]Well, error) {
	var out []Well
	if err := c.getJSON(ctx, "/api/puits", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Well(ctx context.Context, id string) (*Well, error) {
	var out Well
	if err := c.getJSON(ctx, "/api/puits/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentPhase: backend membalas text/plain (kadang JSON string).
func (c *Client) CurrentPhase(ctx context.Context, id string) (string, error) {
	s, err := c.getText(ctx, "/api/puits/"+url.PathEscape(id)+"/current-phase")
	if err != nil {
		return "", err
	}
	return strings.Trim(s, `"`), nil
}

func (c *Client) CountByStatus(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	if err := c.getJSON(ctx, "/api/puits/count-by-status", &out); err != nil {
		return nil, fmt.Errorf("count-by-status: %w", err)
	}
	return out, nil
}
