package mongojournal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
)

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	e := journal.NewEntry(journal.KindSaleReducedChange)
	e.TransactionID = "tx-9"
	e.ProductID = 3
	e.Change = cash.Coins{50: 1}
	e.Shortfall = 30

	d := toDocument(e)
	assert.Equal(t, map[string]int{"50": 1}, d.Change)
	assert.Nil(t, d.Refund)

	raw, err := bson.Marshal(d)
	require.NoError(t, err)
	var back document
	require.NoError(t, bson.Unmarshal(raw, &back))

	got, err := back.entry()
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Kind, got.Kind)
	assert.Equal(t, cash.Coins{50: 1}, got.Change)
	assert.Nil(t, got.Refund)
	assert.WithinDuration(t, e.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestDecodeCoinsRejectsBadKeys(t *testing.T) {
	t.Parallel()

	_, err := decodeCoins(map[string]int{"abc": 1})
	require.Error(t, err)
	_, err = decodeCoins(map[string]int{"3": 1})
	require.ErrorIs(t, err, cash.ErrInvalidDenomination)
}

func TestFilterDocument(t *testing.T) {
	t.Parallel()

	assert.Empty(t, filterDocument(journal.Filter{}))

	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	q := filterDocument(journal.Filter{Kind: journal.KindReload, TransactionID: "t", Since: since})
	assert.Equal(t, bson.D{
		{Key: "kind", Value: "reload"},
		{Key: "transaction_id", Value: "t"},
		{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}},
	}, q)
}
