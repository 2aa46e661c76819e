package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/handler"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/binder"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Authenticator is the subset of auth.Service the HTTP API drives.
type Authenticator interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
	Login(ctx context.Context, in auth.LoginInput) (*auth.LoginResult, error)
	GetProfile(ctx context.Context, principalID uuid.UUID) (*auth.Profile, error)
	UpdateProfile(ctx context.Context, principalID uuid.UUID, in auth.ProfileUpdate) (*auth.Session, error)
	BeginEnrollment(ctx context.Context, principalID uuid.UUID) (*auth.Enrollment, error)
	ConfirmEnrollment(ctx context.Context, principalID uuid.UUID, code string) ([]string, error)
	DisableSecondFactor(ctx context.Context, principalID uuid.UUID, password string) error
}

// Users serves the /api/users endpoints.
type Users struct {
	auth   Authenticator
	tokens *jwt.Service
	logger *slog.Logger
}

type Option func(*Users)

func WithLogger(l *slog.Logger) Option {
	return func(u *Users) {
		if l != nil {
			u.logger = l
		}
	}
}

// New wires the user endpoints. tokens verifies bearer tokens on protected routes.
func New(authenticator Authenticator, tokens *jwt.Service, opts ...Option) *Users {
	u := &Users{
		auth:   authenticator,
		tokens: tokens,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *Users) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", handler.Wrap(u.register,
		handler.WithBinders[handler.Context, registerRequest](binder.JSON()),
	))
	r.Post("/login", handler.Wrap(u.login,
		handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
	))

	r.Group(func(r chi.Router) {
		r.Use(u.requireAuth)

		r.Get("/profile", handler.Wrap(u.getProfile))
		r.Put("/profile", handler.Wrap(u.updateProfile,
			handler.WithBinders[handler.Context, updateProfileRequest](binder.JSON()),
		))

		r.Get("/2fa/setup", handler.Wrap(u.setupSecondFactor))
		r.Post("/2fa/verify", handler.Wrap(u.verifySecondFactor,
			handler.WithBinders[handler.Context, verifyRequest](binder.JSON()),
		))
		r.Delete("/2fa", handler.Wrap(u.disableSecondFactor,
			handler.WithBinders[handler.Context, disableRequest](binder.JSON()),
		))
	})

	return r
}
