package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/validator"
)

// JSONResponse is the response envelope. Exactly one of Data and Error is set.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON wraps v in the data envelope with status 200.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Data: v},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err in the error envelope. HTTPError, validation and
// binding errors keep their meaning; anything else becomes a generic 500
// so internal causes never reach the client.
func JSONError(err error, opts ...JSONOption) Response {
	status, detail := errorToDetail(err)
	r := &jsonResponse{
		status: status,
		body:   JSONResponse{Error: detail},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StatusOf reports the status JSONError would answer err with.
func StatusOf(err error) int {
	status, _ := errorToDetail(err)
	return status
}

func errorToDetail(err error) (int, *ErrorDetail) {
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		return http.StatusBadRequest, &ErrorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Details: ve.Map(),
		}
	}

	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = bindingError(err)
	}
	return httpErr.Code, &ErrorDetail{Code: httpErr.Key, Message: httpErr.Error()}
}

func bindingError(err error) HTTPError {
	switch {
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrRequestTooLarge
	case errors.Is(err, binder.ErrFailedToParseJSON):
		return NewHTTPError(http.StatusBadRequest, "bad_request", "malformed JSON request body")
	default:
		return ErrInternal
	}
}
