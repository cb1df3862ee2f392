package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/logger"
)

type name string

func (n name) String() string { return string(n) }

func TestAttrs(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	assert.Equal(t, "component", logger.Component("vending").Key)
	assert.Equal(t, "event", logger.Event("insert").Key)
	assert.Equal(t, "idle", logger.State(name("idle")).Value.String())
	assert.Equal(t, "tx", logger.TransactionID("tx").Value.String())
	assert.Equal(t, int64(7), logger.ProductID(7).Value.Int64())
	assert.Equal(t, int64(210), logger.Amount(210).Value.Int64())
	assert.Equal(t, "1 x £1", logger.Coins(name("1 x £1")).Value.String())

	tr := logger.Transition(name("idle"), name("selecting"))
	require.Equal(t, slog.KindGroup, tr.Value.Kind())
	g := tr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "idle", g[0].Value.String())
	assert.Equal(t, "selecting", g[1].Value.String())
}
