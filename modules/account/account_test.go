package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/modules/account"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/secrets"
	"github.com/dmitrymomot/authkit/pkg/totp"
	"github.com/dmitrymomot/authkit/svc/credstore"
)

var testNow = time.Date(2026, 5, 4, 12, 0, 15, 0, time.UTC)

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

type api struct {
	t      *testing.T
	srv    http.Handler
	tokens *jwt.Service
}

func newAPI(t *testing.T) api {
	t.Helper()

	tokens, err := jwt.NewFromString(strings.Repeat("s", 32))
	require.NoError(t, err)
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	sealer, err := secrets.NewSealer(key)
	require.NoError(t, err)

	svc := auth.NewService(credstore.NewMemory(), tokens, sealer,
		auth.WithClock(func() time.Time { return testNow }),
	)
	return api{
		t:      t,
		srv:    account.Router(account.RouterOptions{Users: account.New(svc, tokens)}),
		tokens: tokens,
	}
}

func (a api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.srv.ServeHTTP(rec, r)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (a api) register(email string) (id, token string) {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Alice", "email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, status)
	return env.Data["id"].(string), env.Data["token"].(string)
}

// enable runs setup and verify, returning the TOTP secret and backup codes.
func (a api) enable(token string) (string, []string) {
	a.t.Helper()

	status, env := a.do(http.MethodGet, "/api/users/2fa/setup", token, nil)
	require.Equal(a.t, http.StatusOK, status)
	secret := env.Data["tempSecret"].(string)

	code, err := totp.GenerateCode(secret, testNow)
	require.NoError(a.t, err)
	status, env = a.do(http.MethodPost, "/api/users/2fa/verify", token, map[string]string{"token": code})
	require.Equal(a.t, http.StatusOK, status)

	var codes []string
	for _, c := range env.Data["backupCodes"].([]any) {
		codes = append(codes, c.(string))
	}
	return secret, codes
}

func TestRegister(t *testing.T) {
	t.Parallel()
	a := newAPI(t)

	status, env := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Alice", "email": "Alice@Example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "alice@example.com", env.Data["email"])
	assert.Equal(t, "Alice", env.Data["name"])
	assert.Equal(t, false, env.Data["twoFactorEnabled"])
	assert.NotContains(t, env.Data, "password")

	sub, err := a.tokens.Verify(env.Data["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, env.Data["id"], sub)

	t.Run("duplicate email", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
			"name": "Other", "email": "alice@EXAMPLE.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "User already exists", env.Error.Message)
	})

	t.Run("validation", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
			"name": "", "email": "nope", "password": "123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "validation_error", env.Error.Code)
		assert.Contains(t, env.Error.Details, "name")
		assert.Contains(t, env.Error.Details, "email")
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("unknown field", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/register", "", map[string]any{
			"name": "Bob", "email": "bob@example.com", "password": "secret123", "twoFactorEnabled": true,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "bad_request", env.Error.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	id, token := a.register("alice@example.com")

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		s1, e1 := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "wrong-pass"})
		s2, e2 := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ghost@example.com", "password": "secret123"})
		assert.Equal(t, http.StatusUnauthorized, s1)
		assert.Equal(t, s1, s2)
		assert.Equal(t, e1.Error, e2.Error)
		assert.Equal(t, "Invalid email or password", e1.Error.Message)
	})

	t.Run("without second factor", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "ALICE@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, env.Data["id"])
		assert.NotEmpty(t, env.Data["token"])
	})

	secret, codes := a.enable(token)

	t.Run("challenge", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, env.Data["requireTwoFactor"])
		assert.Equal(t, "Two-factor authentication code required", env.Data["message"])
		assert.NotContains(t, env.Data, "token")
	})

	t.Run("totp code", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, testNow)
		require.NoError(t, err)
		status, env := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret123", "token": code})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, env.Data["twoFactorEnabled"])
		assert.NotEmpty(t, env.Data["token"])
	})

	t.Run("backup code is single use", func(t *testing.T) {
		var backup string
		for _, c := range codes {
			if !totp.VerifyCode(secret, c, testNow) {
				backup = c
				break
			}
		}
		require.NotEmpty(t, backup)

		body := map[string]string{"email": "alice@example.com", "password": "secret123", "token": backup}
		status, _ := a.do(http.MethodPost, "/api/users/login", "", body)
		assert.Equal(t, http.StatusOK, status)

		status, env := a.do(http.MethodPost, "/api/users/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid authentication code", env.Error.Message)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	id, token := a.register("alice@example.com")
	a.register("bob@example.com")

	t.Run("requires a valid token", func(t *testing.T) {
		status, env := a.do(http.MethodGet, "/api/users/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "unauthorized", env.Error.Code)

		status, _ = a.do(http.MethodGet, "/api/users/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, status)

		notUUID, err := a.tokens.Issue("not-a-uuid")
		require.NoError(t, err)
		status, _ = a.do(http.MethodGet, "/api/users/profile", notUUID, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("unknown principal", func(t *testing.T) {
		ghost, err := a.tokens.Issue(uuid.NewString())
		require.NoError(t, err)
		status, env := a.do(http.MethodGet, "/api/users/profile", ghost, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "User not found", env.Error.Message)
	})

	t.Run("get", func(t *testing.T) {
		status, env := a.do(http.MethodGet, "/api/users/profile", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, id, env.Data["id"])
		assert.Equal(t, "alice@example.com", env.Data["email"])
		assert.NotContains(t, env.Data, "token")
	})

	t.Run("update", func(t *testing.T) {
		status, env := a.do(http.MethodPut, "/api/users/profile", token, map[string]string{"name": "Alice Smith", "email": "smith@example.com"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Alice Smith", env.Data["name"])
		assert.Equal(t, "smith@example.com", env.Data["email"])
		assert.NotEmpty(t, env.Data["token"])

		status, _ = a.do(http.MethodPut, "/api/users/profile", token, map[string]string{"email": "bob@example.com"})
		assert.Equal(t, http.StatusConflict, status)
	})
}

func TestSecondFactorLifecycle(t *testing.T) {
	t.Parallel()
	a := newAPI(t)
	_, token := a.register("alice@example.com")

	t.Run("verify without setup", func(t *testing.T) {
		status, env := a.do(http.MethodPost, "/api/users/2fa/verify", token, map[string]string{"token": "123456"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "No temporary secret found", env.Error.Message)
	})

	t.Run("setup artifacts", func(t *testing.T) {
		status, env := a.do(http.MethodGet, "/api/users/2fa/setup", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, env.Data["tempSecret"])
		assert.True(t, strings.HasPrefix(env.Data["qrCodeUrl"].(string), "data:image/png;base64,"))
		assert.True(t, strings.HasPrefix(env.Data["provisioningUri"].(string), "otpauth://totp/"))
		assert.Equal(t, "Temporary secret generated", env.Data["message"])
	})

	t.Run("wrong verification code", func(t *testing.T) {
		status, env := a.do(http.MethodGet, "/api/users/2fa/setup", token, nil)
		require.Equal(t, http.StatusOK, status)
		secret := env.Data["tempSecret"].(string)

		wrong := "000000"
		if totp.VerifyCode(secret, wrong, testNow) {
			wrong = "999999"
		}
		status, env = a.do(http.MethodPost, "/api/users/2fa/verify", token, map[string]string{"token": wrong})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid verification code", env.Error.Message)
	})

	_, codes := a.enable(token)
	assert.NotEmpty(t, codes)

	status, env := a.do(http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, env.Data["twoFactorEnabled"])

	t.Run("disable with wrong password", func(t *testing.T) {
		status, env := a.do(http.MethodDelete, "/api/users/2fa", token, map[string]string{"password": "wrong-pass"})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Password is incorrect", env.Error.Message)
	})

	status, env = a.do(http.MethodDelete, "/api/users/2fa", token, map[string]string{"password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Two-factor authentication disabled successfully", env.Data["message"])

	status, env = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, env.Data, "requireTwoFactor")
	assert.Equal(t, false, env.Data["twoFactorEnabled"])
}

type failingAuth struct {
	account.Authenticator
	err error
}

func (f failingAuth) Login(context.Context, auth.LoginInput) (*auth.LoginResult, error) {
	return nil, f.err
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.NewFromString(strings.Repeat("s", 32))
	require.NoError(t, err)

	for _, cause := range []error{
		errors.Join(auth.ErrInternal, errors.New("dial tcp 10.0.0.7:5432: connection refused")),
		errors.New("dial tcp 10.0.0.7:5432: connection refused"),
	} {
		a := api{t: t, tokens: tokens, srv: account.Router(account.RouterOptions{
			Users: account.New(failingAuth{err: cause}, tokens),
		})}

		status, env := a.do(http.MethodPost, "/api/users/login", "", map[string]string{"email": "a@example.com", "password": "secret123"})
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal_error", env.Error.Code)
		assert.NotContains(t, env.Error.Message, "10.0.0.7")
	}
}
