// internal/util/errors.go
// Definisi error aplikasi standar

package util

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string // bad_input | not_found | unauthorized | forbidden | upstream | internal
	Message string
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func BadInput(msg string) AppError     { return AppError{Code: "bad_input", Message: msg} }
func NotFound(msg string) AppError     { return AppError{Code: "not_found", Message: msg} }
func Unauthorized(msg string) AppError { return AppError{Code: "unauthorized", Message: msg} }
func Forbidden(msg string) AppError    { return AppError{Code: "forbidden", Message: msg} }
func Upstream(msg string) AppError     { return AppError{Code: "upstream", Message: msg} }
func Internal(msg string) AppError     { return AppError{Code: "internal", Message: msg} }

// CodeOf mengambil kode AppError di rantai error; default "internal".
func CodeOf(err error) string {
	var ae AppError
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal"
}

// HTTPStatus memetakan kode AppError ke status HTTP.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case "bad_input":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "unauthorized":
		return http.StatusUnauthorized
	case "forbidden":
		return http.StatusForbidden
	case "upstream":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
