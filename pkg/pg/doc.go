// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: connection pooling with retries, goose schema migrations
// from an embedded filesystem, health checks, and error classification
// helpers used by the notification stores.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
// # Error Handling
//
// [pg.IsNotFoundError] detects [pgx.ErrNoRows] so the stores can translate
// missing rows into their own not-found sentinels.
package pg
