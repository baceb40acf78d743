// internal/backend/client.go
// Client HTTP ke backend REST (8098 décideur / 8099 opérateur)
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/util"
)

// StatusError = respons non-2xx dari backend.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap memetakan status ke AppError supaya handler bisa pakai util.HTTPStatus.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return util.NotFound(e.Path)
	case e.Status == http.StatusUnauthorized:
		return util.Unauthorized(strings.TrimSpace(e.Body))
	case e.Status == http.StatusForbidden:
		return util.Forbidden(strings.TrimSpace(e.Body))
	case e.Status == http.StatusBadRequest:
		return util.BadInput(strings.TrimSpace(e.Body))
	default:
		return util.Upstream(fmt.Sprintf("%s %s -> %d", e.Method, e.Path, e.Status))
	}
}

// IsNotFound true bila backend membalas 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

type Options struct {
	Timeout time.Duration
	RPS     int
	Burst   int
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Limiter *rate.Limiter // nil = tanpa batas
}

func New(baseURL string, opt Options) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = 8 * time.Second
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: opt.Timeout},
	}
	if opt.RPS > 0 {
		burst := opt.Burst
		if burst <= 0 {
			burst = opt.RPS
		}
		c.Limiter = rate.NewLimiter(rate.Limit(opt.RPS), burst)
	}
	return c
}

// ---- token Bearer diteruskan dari request browser ----

type ctxKey string

const tokenKey ctxKey = "backendToken"

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey).(string)
	return s
}

// ---- transport ----

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return req, nil
}

// do mengirim request; respons non-2xx dikonversi ke *StatusError dan body ditutup.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	entry := logger.With("backend.call").
		WithField("method", req.Method).
		WithField("path", req.URL.Path).
		WithField("duration_ms", time.Since(start).Milliseconds())
	if err != nil {
		entry.WithError(err).Warn("backend call failed")
		return nil, fmt.Errorf("backend %s %s: %w", req.Method, req.URL.Path, err)
	}
	entry.WithField("status", resp.StatusCode).Debug("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Status: resp.StatusCode,
			Body:   string(data),
		}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

// sendJSON: in == nil → tanpa body; out == nil → body dibuang.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		switch v := in.(type) {
		case json.RawMessage:
			body = bytes.NewReader(v)
		default:
			b, err := json.Marshal(in)
			if err != nil {
				return fmt.Errorf("marshal %s body: %w", path, err)
			}
			body = bytes.NewReader(b)
		}
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			data = []byte("null")
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain, application/json")
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Ping dipakai /debug/upstreams.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getText(ctx, "/api/puits/count-by-status")
	return err
}
