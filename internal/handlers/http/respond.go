// internal/handlers/http/respond.go
// Helper respons JSON + error seragam {"error": code, "message": msg}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/util"
)

const maxJSONBody = 1 << 20

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// AsAppError: AppError di rantai error dipakai apa adanya (StatusError backend
// sudah unwrap ke AppError); error transport / timeout → upstream.
func AsAppError(err error) util.AppError {
	var ae util.AppError
	if errors.As(err, &ae) {
		return ae
	}
	var ue *url.Error
	if errors.As(err, &ue) || errors.Is(err, context.DeadlineExceeded) {
		return util.Upstream(err.Error())
	}
	return util.Internal(err.Error())
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	ae := AsAppError(err)
	status := util.HTTPStatus(ae)
	if status >= http.StatusInternalServerError {
		logger.With("http.error").
			WithField("path", r.URL.Path).
			WithField("code", ae.Code).
			WithError(err).Error("request failed")
	}
	WriteJSON(w, status, map[string]string{"error": ae.Code, "message": ae.Message})
}

// DecodeJSON membaca body JSON (maks 1 MiB) ke out.
func DecodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(out); err != nil {
		return util.BadInput("invalid json body: " + err.Error())
	}
	return nil
}

// ReadRaw membaca body JSON apa adanya (payload diteruskan ke backend).
func ReadRaw(r *http.Request) (json.RawMessage, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return nil, util.BadInput("read body: " + err.Error())
	}
	if !json.Valid(raw) {
		return nil, util.BadInput("invalid json body")
	}
	return json.RawMessage(raw), nil
}
