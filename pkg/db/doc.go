// Package db opens PostgreSQL pools and applies migrations.
//
//	pool, err := db.Connect(ctx, cfg) // cfg loaded from DATABASE_* variables
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, session.Migrations, "migrations", cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// [Querier] and [Pool] describe the parts of pgx the rest of the module uses,
// so handlers can run against a pool or a request transaction alike.
// [Finish] ends a transaction exactly once. [Healthcheck] and [Shutdown]
// plug into the monitor endpoints and the server lifecycle.
package db
