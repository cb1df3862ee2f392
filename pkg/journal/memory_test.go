package journal_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
)

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := journal.NewMemory()

	sale := journal.NewEntry(journal.KindSale)
	sale.TransactionID = "tx-1"
	sale.Change = cash.Coins{10: 1}
	require.NoError(t, mem.Record(ctx, sale))

	cancel := journal.NewEntry(journal.KindCancel)
	cancel.TransactionID = "tx-2"
	require.NoError(t, mem.Record(ctx, cancel))

	reload := journal.NewEntry(journal.KindReload)
	require.NoError(t, mem.Record(ctx, reload))

	assert.Equal(t, 3, mem.Len())

	all, err := mem.List(ctx, journal.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, sale.ID, all[0].ID)

	sales, err := mem.List(ctx, journal.Filter{Kind: journal.KindSale})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, cash.Coins{10: 1}, sales[0].Change)

	byTx, err := mem.List(ctx, journal.Filter{TransactionID: "tx-2"})
	require.NoError(t, err)
	require.Len(t, byTx, 1)
	assert.Equal(t, journal.KindCancel, byTx[0].Kind)

	limited, err := mem.List(ctx, journal.Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	future, err := mem.List(ctx, journal.Filter{Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestMemoryRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	mem := journal.NewMemory()
	err := mem.Record(context.Background(), journal.Entry{Kind: journal.KindSale})
	require.ErrorIs(t, err, journal.ErrInvalidEntry)

	e := journal.NewEntry("")
	require.ErrorIs(t, mem.Record(context.Background(), e), journal.ErrInvalidEntry)

	e = journal.NewEntry(journal.KindSale)
	e.CreatedAt = time.Time{}
	require.ErrorIs(t, mem.Record(context.Background(), e), journal.ErrInvalidEntry)
	assert.Zero(t, mem.Len())
}

func TestMemoryConcurrent(t *testing.T) {
	t.Parallel()

	mem := journal.NewMemory()
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mem.Record(context.Background(), journal.NewEntry(journal.KindSale))
			_, _ = mem.List(context.Background(), journal.Filter{Limit: 5})
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, mem.Len())
}

func TestNop(t *testing.T) {
	t.Parallel()

	var j journal.Journal = journal.Nop{}
	require.NoError(t, j.Record(context.Background(), journal.Entry{}))
	entries, err := j.List(context.Background(), journal.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
