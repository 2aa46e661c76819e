package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a machine-readable key.
// Message is sent to the client as is and must not carry internal details.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

// NewHTTPError builds an HTTPError; an empty message falls back to the
// status text.
func NewHTTPError(code int, key, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Key: key, Message: message}
}

var (
	ErrBadRequest           = NewHTTPError(http.StatusBadRequest, "bad_request", "")
	ErrUnauthorized         = NewHTTPError(http.StatusUnauthorized, "unauthorized", "")
	ErrNotFound             = NewHTTPError(http.StatusNotFound, "not_found", "")
	ErrConflict             = NewHTTPError(http.StatusConflict, "conflict", "")
	ErrUnsupportedMediaType = NewHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type", "")
	ErrRequestTooLarge      = NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large", "")
	ErrInternal             = NewHTTPError(http.StatusInternalServerError, "internal_error", "internal server error")
)
