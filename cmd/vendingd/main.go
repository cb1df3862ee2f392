// Command vendingd runs a single vending machine behind an HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/vendingkit/pkg/config"
	"github.com/dmitrymomot/vendingkit/pkg/delivery"
	"github.com/dmitrymomot/vendingkit/pkg/httpserver"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/journal/mongojournal"
	"github.com/dmitrymomot/vendingkit/pkg/journal/pgjournal"
	"github.com/dmitrymomot/vendingkit/pkg/journal/redisjournal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/mongo"
	"github.com/dmitrymomot/vendingkit/pkg/pg"
	"github.com/dmitrymomot/vendingkit/pkg/redis"
	"github.com/dmitrymomot/vendingkit/pkg/seed"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
	"github.com/dmitrymomot/vendingkit/pkg/vending"
	"github.com/dmitrymomot/vendingkit/pkg/vendingapi"
)

const (
	driverMemory   = "memory"
	driverRedis    = "redis"
	driverPostgres = "postgres"
	driverMongo    = "mongo"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	SeedFile string `env:"SEED_FILE" envDefault:"seed.yaml"`

	JournalDriver     string        `env:"JOURNAL_DRIVER" envDefault:"memory"`
	JournalCollection string        `env:"JOURNAL_COLLECTION" envDefault:"journal"`
	JournalBuffer     int           `env:"JOURNAL_BUFFER" envDefault:"256"`
	JournalBatch      int           `env:"JOURNAL_BATCH" envDefault:"32"`
	JournalFlushEvery time.Duration `env:"JOURNAL_FLUSH_EVERY" envDefault:"200ms"`

	HTTP  httpserver.Config
	Redis redis.Config
	PG    pg.Config
	Mongo mongo.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vendingd:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load[appConfig](config.WithEnvFiles(".env"), config.WithOptionalEnvFiles())
	if err != nil {
		return err
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "vendingd"),
		logger.WithContextExtractors(logger.RequestIDExtractor(), logger.TransactionIDExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(opts...)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	st, inv, err := snapshot.Build(stock.WithLogger(log))
	if err != nil {
		return err
	}

	store, checks, closeStore, err := openJournal(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	async := journal.NewAsync(store, journal.AsyncOptions{
		BufferSize: cfg.JournalBuffer,
		BatchSize:  cfg.JournalBatch,
		FlushEvery: cfg.JournalFlushEvery,
		Logger:     log,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := async.Close(closeCtx); err != nil {
			log.Error("journal did not drain", logger.Error(err))
		}
	}()

	machine, err := vending.New(st, inv, delivery.NewLog(log),
		vending.WithLogger(log),
		vending.WithJournal(async),
	)
	if err != nil {
		return err
	}

	apiOpts := []vendingapi.Option{
		vendingapi.WithLogger(log),
		vendingapi.WithJournal(async),
	}
	for name, check := range checks {
		apiOpts = append(apiOpts, vendingapi.WithHealthCheck(name, check))
	}
	api := vendingapi.New(machine, apiOpts...)

	srv := httpserver.New(append(cfg.HTTP.Options(),
		httpserver.WithLogger(log),
		httpserver.OnStart(func(addr string) {
			log.Info("vending machine ready",
				slog.String("addr", addr),
				slog.String("journal", cfg.JournalDriver),
				slog.Int("products", len(machine.Catalogue())),
				logger.Amount(machine.CashSnapshot().Total()),
			)
		}),
	)...)
	return srv.Run(ctx, api.Router())
}

// openJournal connects the configured journal backend.
func openJournal(ctx context.Context, cfg appConfig, log *slog.Logger) (journal.Recorder, map[string]httpserver.Check, func(), error) {
	noop := func() {}

	switch cfg.JournalDriver {
	case driverMemory, "":
		return journal.NewMemory(), nil, noop, nil

	case driverRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, noop, err
		}
		checks := map[string]httpserver.Check{"redis": redis.Healthcheck(client)}
		return redisjournal.New(client), checks, func() { _ = client.Close() }, nil

	case driverPostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, nil, noop, err
		}
		if err := pgjournal.Migrate(ctx, pool, cfg.PG.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, nil, noop, err
		}
		checks := map[string]httpserver.Check{"postgres": pg.Healthcheck(pool)}
		return pgjournal.New(pool), checks, pool.Close, nil

	case driverMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, noop, err
		}
		disconnect := func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
		store := mongojournal.New(client.Database(cfg.Mongo.Database), cfg.JournalCollection)
		if err := store.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, noop, err
		}
		checks := map[string]httpserver.Check{"mongo": mongo.Healthcheck(client)}
		return store, checks, disconnect, nil
	}

	return nil, nil, noop, errors.New("unknown journal driver: " + cfg.JournalDriver)
}
