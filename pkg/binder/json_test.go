package binder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/binder"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"token"`
}

func newRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("binds values verbatim", func(t *testing.T) {
		t.Parallel()

		var req loginRequest
		err := binder.JSON()(newRequest(`{"email":"a@example.com","password":"  <p@ss>  ","token":"123 456"}`, "application/json; charset=utf-8"), &req)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", req.Email)
		assert.Equal(t, "  <p@ss>  ", req.Password)
		assert.Equal(t, "123 456", req.Code)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     error
	}{
		{name: "missing content type", body: `{}`, wantErr: binder.ErrMissingContentType},
		{name: "form content type", body: `email=a`, contentType: "application/x-www-form-urlencoded", wantErr: binder.ErrUnsupportedMediaType},
		{name: "empty body", body: ``, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "malformed json", body: `{"email":`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "unknown field", body: `{"admin":true}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "wrong type", body: `{"email":42}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
		{name: "trailing data", body: `{"email":"a"}{"email":"b"}`, contentType: "application/json", wantErr: binder.ErrFailedToParseJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req loginRequest
			err := binder.JSON()(newRequest(tt.body, tt.contentType), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJSONWithLimit(t *testing.T) {
	t.Parallel()

	var req loginRequest
	err := binder.JSONWithLimit(16)(newRequest(`{"email":"someone@example.com"}`, "application/json"), &req)
	assert.ErrorIs(t, err, binder.ErrBodyTooLarge)
}

func TestJSON_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRequest(`{}`, "application/json").WithContext(ctx)

	var req loginRequest
	assert.ErrorIs(t, binder.JSON()(r, &req), binder.ErrFailedToParseJSON)
}
