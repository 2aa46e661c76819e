package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/environment"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

type ctxKey struct{}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))
	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("hello", logger.Component("auth"), logger.Event("login"))
	entry := decode(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "login", entry["event"])
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("development", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(environment.Development, "authd"))
		log.Debug("msg")
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "service=authd")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("production", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithEnvironment(environment.Production, "authd"))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "authd", entry["service"])
		assert.Equal(t, "production", entry["env"])
	})
}

func TestWithConfig(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithEnvironment(environment.Production, "authd"),
		logger.WithConfig(logger.Config{Level: "debug", Format: "TEXT"}),
	)
	log.Debug("msg")
	assert.Contains(t, buf.String(), "level=DEBUG")

	assert.Panics(t, func() { logger.New(logger.WithConfig(logger.Config{Level: "loud"})) })
	assert.Panics(t, func() { logger.New(logger.WithConfig(logger.Config{Format: "xml"})) })
}

func TestContextExtractors(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(nil, logger.StringExtractor("request_id", func(ctx context.Context) (string, bool) {
			v, ok := ctx.Value(ctxKey{}).(string)
			return v, ok
		})),
	)

	log.InfoContext(context.WithValue(context.Background(), ctxKey{}, "req-1"), "msg")
	assert.Equal(t, "req-1", decode(t, buf)["request_id"])

	buf.Reset()
	log.With(slog.String("k", "v")).InfoContext(context.Background(), "msg")
	entry := decode(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.Equal(t, "v", entry["k"])
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
	assert.Equal(t, slog.Attr{}, logger.PrincipalID(nil))
	assert.Equal(t, "principal_id", logger.PrincipalID("p-1").Key)
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))

	http := logger.HTTPRequest("GET", "/healthz", 200, 3)
	assert.Equal(t, "http", http.Key)
	assert.Len(t, http.Value.Group(), 4)
}
