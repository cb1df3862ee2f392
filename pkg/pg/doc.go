// Package pg connects to PostgreSQL with pgx and applies goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations, "migrations", pg.WithMigrationsTable(cfg.MigrationsTable)); err != nil {
//		return err
//	}
//
// Migrations are read from an fs.FS so packages can embed their own schema.
package pg
