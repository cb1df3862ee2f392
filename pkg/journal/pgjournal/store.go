// Package pgjournal stores journal entries in PostgreSQL.
//
// The schema ships with the package; call Migrate once at startup before
// recording.
package pgjournal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/pg"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrDuplicateEntry is returned when an entry id was already recorded.
var ErrDuplicateEntry = errors.New("pgjournal: entry already recorded")

// Migrate applies the journal schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, migrations, "migrations",
		pg.WithMigrationsTable(table),
		pg.WithMigrationsLogger(log),
	)
}

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store is a journal.Journal backed by PostgreSQL.
type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

const insertEntry = `INSERT INTO journal_entries
	(id, transaction_id, kind, product_id, product_name, price, paid, change_owed,
	 change, shortfall, refund, supply, units, error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const selectEntries = `SELECT id, transaction_id, kind, product_id, product_name, price, paid,
	change_owed, change, shortfall, refund, supply, units, error, created_at
FROM journal_entries`

func (s *Store) Record(ctx context.Context, e journal.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, insertEntry, insertArgs(e)...); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Store) RecordBatch(ctx context.Context, entries []journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		b.Queue(insertEntry, insertArgs(e)...)
	}
	if err := s.db.SendBatch(ctx, b).Close(); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, f journal.Filter) ([]journal.Entry, error) {
	query, args := listQuery(f)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var (
			e                      journal.Entry
			id                     string
			kind                   string
			change, refund, supply cash.Coins
		)
		if err := rows.Scan(
			&id, &e.TransactionID, &kind, &e.ProductID, &e.ProductName, &e.Price, &e.Paid,
			&e.ChangeOwed, &change, &e.Shortfall, &refund, &supply, &e.Units, &e.Error, &e.CreatedAt,
		); err != nil {
			return nil, errors.Join(journal.ErrListFailed, err)
		}
		e.ID = id
		e.Kind = journal.Kind(kind)
		e.Change, e.Refund, e.Supply = change, refund, supply
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(journal.ErrListFailed, err)
	}
	return out, nil
}

func insertArgs(e journal.Entry) []any {
	return []any{
		e.ID, e.TransactionID, string(e.Kind), e.ProductID, e.ProductName, e.Price, e.Paid,
		e.ChangeOwed, nullableCoins(e.Change), e.Shortfall, nullableCoins(e.Refund),
		nullableCoins(e.Supply), e.Units, e.Error, e.CreatedAt,
	}
}

// nullableCoins keeps empty multisets as SQL NULL.
func nullableCoins(c cash.Coins) any {
	if c.Count() == 0 {
		return nil
	}
	return c
}

func listQuery(f journal.Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.TransactionID != "" {
		args = append(args, f.TransactionID)
		where = append(where, fmt.Sprintf("transaction_id = $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(selectEntries)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at, id")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

func storeError(err error) error {
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(journal.ErrStoreFailed, ErrDuplicateEntry, err)
	}
	return errors.Join(journal.ErrStoreFailed, err)
}
