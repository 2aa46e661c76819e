package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/mongo"
	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/svc/credstore"
	"github.com/dmitrymomot/authkit/svc/credstore/migrations"
)

// backend is an opened credential store with its health probes and a
// release function run on shutdown.
type backend struct {
	store  auth.Storage
	checks []httpserver.Check
	close  func()
}

func openStore(ctx context.Context, driver string, log *slog.Logger) (backend, error) {
	switch driver {
	case DriverPostgres:
		return openPostgres(ctx, log)
	case DriverMongo:
		return openMongo(ctx)
	case DriverRedis:
		return openRedis(ctx)
	case DriverMemory:
		log.WarnContext(ctx, "using in-memory credential store, records are lost on restart")
		return backend{store: credstore.NewMemory(), close: func() {}}, nil
	default:
		return backend{}, errors.Join(ErrFailedToOpenStore, ErrUnknownStoreDriver)
	}
}

func openPostgres(ctx context.Context, log *slog.Logger) (backend, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
		pool.Close()
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	return backend{
		store:  credstore.NewPostgres(pool),
		checks: []httpserver.Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}},
		close:  pool.Close,
	}, nil
}

func openMongo(ctx context.Context) (backend, error) {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	db, err := mongo.ConnectDatabase(ctx, cfg)
	if err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	disconnect := func() { _ = db.Client().Disconnect(context.Background()) }

	store, err := credstore.NewMongo(ctx, db)
	if err != nil {
		disconnect()
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	return backend{
		store:  store,
		checks: []httpserver.Check{{Name: "mongo", Probe: mongo.Healthcheck(db.Client())}},
		close:  disconnect,
	}, nil
}

func openRedis(ctx context.Context) (backend, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return backend{}, errors.Join(ErrFailedToOpenStore, err)
	}
	return backend{
		store:  credstore.NewRedis(client, credstore.WithKeyPrefix(cfg.KeyPrefix)),
		checks: []httpserver.Check{{Name: "redis", Probe: redis.Healthcheck(client)}},
		close:  func() { _ = client.Close() },
	}, nil
}
