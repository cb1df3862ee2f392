package pgjournal_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/journal/pgjournal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/pg"
)

// Runs against a live database when PG_TEST_URL is set.
func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}
	ctx := context.Background()

	pool, err := pg.Connect(ctx, pg.Config{ConnectionString: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pgjournal.Migrate(ctx, pool, "vending_schema_migrations", logger.Discard()))

	s := pgjournal.New(pool)
	tx := uuid.NewString()
	sale := journal.NewEntry(journal.KindSale)
	sale.TransactionID = tx
	sale.Change = cash.Coins{20: 1, 5: 1}
	require.NoError(t, s.Record(ctx, sale))
	require.ErrorIs(t, s.Record(ctx, sale), pgjournal.ErrDuplicateEntry)

	cancel := journal.NewEntry(journal.KindCancel)
	cancel.TransactionID = tx
	require.NoError(t, s.RecordBatch(ctx, []journal.Entry{cancel}))

	got, err := s.List(ctx, journal.Filter{TransactionID: tx})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sale.ID, got[0].ID)
	assert.Equal(t, cash.Coins{20: 1, 5: 1}, got[0].Change)
	assert.WithinDuration(t, sale.CreatedAt, got[0].CreatedAt, time.Millisecond)
}
