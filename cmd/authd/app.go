package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authkit/modules/account"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/environment"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/requestid"
	"github.com/dmitrymomot/authkit/pkg/secrets"
)

func newLogger(cfg Config, env environment.Environment) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(env, cfg.AppName),
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(
			logger.StringExtractor("request_id", requestid.FromContext),
		),
	)
}

// newHandler builds the credential service on top of store and returns the
// root HTTP handler.
func newHandler(cfg Config, env environment.Environment, log *slog.Logger, store backend) (http.Handler, error) {
	tokens, err := jwt.NewFromString(cfg.SigningKey,
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithTTL(cfg.TokenTTL),
	)
	if err != nil {
		return nil, err
	}

	key, err := cfg.TOTP.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	sealer, err := secrets.NewSealer(key)
	if err != nil {
		return nil, err
	}

	svc := auth.NewService(store.store, tokens, sealer,
		auth.WithLogger(log),
		auth.WithTOTPIssuer(cfg.TOTP.Issuer),
		auth.WithBackupCodeCount(cfg.TOTP.BackupCodeCount),
		auth.WithQRCodeSize(cfg.TOTP.QRCodeSize),
	)

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		environment.Middleware(env),
		httpserver.AccessLog(log),
		middleware.Recoverer,
	)
	r.Get("/healthz", httpserver.HealthCheckHandler(log, cfg.HealthTimeout, store.checks...))
	r.Mount("/", account.Router(account.RouterOptions{
		Users: account.New(svc, tokens, account.WithLogger(log)),
	}))

	return r, nil
}

func run(ctx context.Context, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	env := environment.Parse(cfg.AppEnv)
	log := newLogger(cfg, env)

	store, err := openStore(ctx, cfg.StoreDriver, log)
	if err != nil {
		return err
	}

	h, err := newHandler(cfg, env, log, store)
	if err != nil {
		store.close()
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(store.close),
	)

	log.InfoContext(ctx, "starting authkit",
		slog.String("store", cfg.StoreDriver),
		slog.String("addr", cfg.HTTP.Addr),
	)
	return srv.Run(ctx, h)
}
