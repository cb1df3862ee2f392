package pg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/vendingkit/pkg/logger"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// MigrateOption configures Migrate.
type MigrateOption func(*migrateOptions)

type migrateOptions struct {
	table  string
	logger *slog.Logger
}

// WithMigrationsTable sets the goose version table.
func WithMigrationsTable(name string) MigrateOption {
	return func(o *migrateOptions) {
		if name != "" {
			o.table = name
		}
	}
}

// WithMigrationsLogger routes goose output through l.
func WithMigrationsLogger(l *slog.Logger) MigrateOption {
	return func(o *migrateOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Migrate applies every pending migration found in dir of fsys.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string, opts ...MigrateOption) error {
	o := migrateOptions{table: "vending_schema_migrations", logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := fs.Stat(fsys, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			o.logger.ErrorContext(ctx, "failed to close migration connection", logger.Error(err))
		}
	}()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{o.logger})
	goose.SetTableName(o.table)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...), logger.Component("goose"))
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(fmt.Sprintf(format, v...), logger.Component("goose"))
}
