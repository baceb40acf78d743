// internal/backend/reports.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
)

func (c *Client) AllReports(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, "/api/reports", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReportsByWell(ctx context.Context, wellID string) ([]Report, error) {
	var out []Report
	if err := c.getJSON(ctx, "/api/reports/puit/"+url.PathEscape(wellID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Report(ctx context.Context, id string) (*Report, error) {
	var out Report
	if err := c.getJSON(ctx, "/api/reports/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReportOperations(ctx context.Context, id string) ([]OperationLine, error) {
	var out []OperationLine
	if err := c.getJSON(ctx, "/api/reports/"+url.PathEscape(id)+"/operations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReportDailyCost(ctx context.Context, id string) (*DailyCost, error) {
	var out DailyCost
	if err := c.getJSON(ctx, "/api/reports/"+url.PathEscape(id)+"/dailycost", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReport membuka stream file rapport; pemanggil wajib menutup Body.
func (c *Client) DownloadReport(ctx context.Context, id string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Download{Body: resp.Body, ContentType: ct, ContentLength: resp.ContentLength}, nil
}

// ExtractReport mengirim file Excel rapport (multipart: file + puitId) untuk diekstrak.
// Hasil ekstraksi dikembalikan apa adanya untuk dikonfirmasi operator.
func (c *Client) ExtractReport(ctx context.Context, wellID, filename string, file io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("multipart file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.WriteField("puitId", wellID); err != nil {
		return nil, fmt.Errorf("multipart field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("multipart close: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/reports/extract", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read extract: %w", err)
	}
	return json.RawMessage(data), nil
}

func (c *Client) ConfirmReport(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPost, "/api/reports/confirm", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReviewReport(ctx context.Context, id string, payload json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.sendJSON(ctx, http.MethodPatch, "/api/reports/"+url.PathEscape(id)+"/review", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}
