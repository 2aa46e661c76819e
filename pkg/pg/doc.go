// Package pg bootstraps the Postgres backend of the credential store on top of
// pgx/v5 and goose/v3.
//
// Connect opens a *pgxpool.Pool from Config, retrying while the database comes
// up. Migrate applies goose migrations read from an fs.FS, so a store can ship
// its schema embedded in the binary:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// IsDuplicateKeyError and IsNotFoundError translate driver errors for the
// storage layer; Healthcheck adapts the pool for a readiness probe.
package pg
