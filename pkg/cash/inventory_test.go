package cash_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
)

func TestNewInventory(t *testing.T) {
	t.Parallel()

	inv, err := cash.NewInventory(cash.Coins{100: 5, 10: 3, 50: 0})
	require.NoError(t, err)
	assert.Equal(t, cash.Coins{100: 5, 10: 3}, inv.Snapshot())
	assert.Equal(t, 530, inv.TotalValue())

	_, err = cash.NewInventory(cash.Coins{3: 1})
	assert.ErrorIs(t, err, cash.ErrInvalidDenomination)

	_, err = cash.NewInventory(cash.Coins{10: -2})
	assert.ErrorIs(t, err, cash.ErrInvalidQuantity)

	empty, err := cash.NewInventory(nil)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalValue())
}

func TestInventoryDeposit(t *testing.T) {
	t.Parallel()

	inv, err := cash.NewInventory(nil)
	require.NoError(t, err)

	require.NoError(t, inv.Deposit(100))
	require.NoError(t, inv.Deposit(100))
	require.NoError(t, inv.Deposit(20))
	assert.Equal(t, 2, inv.Count(100))
	assert.Equal(t, 220, inv.TotalValue())

	assert.ErrorIs(t, inv.Deposit(3), cash.ErrInvalidDenomination)
	assert.Equal(t, 220, inv.TotalValue())
}

func TestInventoryWithdraw(t *testing.T) {
	t.Parallel()

	t.Run("removes the multiset", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(cash.Coins{100: 2, 10: 3})
		require.NoError(t, err)

		require.NoError(t, inv.Withdraw(cash.Coins{100: 2, 10: 1}))
		assert.Equal(t, cash.Coins{10: 2}, inv.Snapshot())
	})

	t.Run("all or nothing", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(cash.Coins{100: 2, 10: 1})
		require.NoError(t, err)

		err = inv.Withdraw(cash.Coins{100: 1, 10: 2})
		require.ErrorIs(t, err, cash.ErrInsufficientInventory)
		assert.Equal(t, cash.Coins{100: 2, 10: 1}, inv.Snapshot())
	})

	t.Run("rejects invalid multisets", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(cash.Coins{100: 2})
		require.NoError(t, err)

		assert.ErrorIs(t, inv.Withdraw(cash.Coins{100: -1}), cash.ErrInvalidQuantity)
		assert.ErrorIs(t, inv.Withdraw(cash.Coins{7: 1}), cash.ErrInvalidDenomination)
		assert.Equal(t, cash.Coins{100: 2}, inv.Snapshot())
	})
}

func TestInventoryReload(t *testing.T) {
	t.Parallel()

	inv, err := cash.NewInventory(cash.Coins{100: 5, 10: 3})
	require.NoError(t, err)

	err = inv.Reload(nil, cash.Coins{50: 10})
	require.ErrorIs(t, err, maintenance.ErrNotInMaintenance)

	s := maintenance.Begin()
	require.NoError(t, inv.Reload(s, cash.Coins{50: 10}))
	assert.Equal(t, cash.Coins{100: 5, 10: 3, 50: 10}, inv.Snapshot())

	require.ErrorIs(t, inv.Reload(s, cash.Coins{25: 1}), cash.ErrInvalidDenomination)

	s.End()
	require.ErrorIs(t, inv.Reload(s, cash.Coins{50: 1}), maintenance.ErrNotInMaintenance)
	assert.Equal(t, 10, inv.Count(50))
}

func TestInventoryReloadOverflow(t *testing.T) {
	t.Parallel()

	s := maintenance.Begin()

	t.Run("total value", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(cash.Coins{10: 3})
		require.NoError(t, err)

		err = inv.Reload(s, cash.Coins{200: math.MaxInt / 100})
		require.ErrorIs(t, err, cash.ErrInvalidQuantity)
		assert.Equal(t, cash.Coins{10: 3}, inv.Snapshot())
		assert.Equal(t, 30, inv.TotalValue())
	})

	t.Run("repeated reloads", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(nil)
		require.NoError(t, err)

		half := math.MaxInt / 2
		require.NoError(t, inv.Reload(s, cash.Coins{1: half}))
		require.ErrorIs(t, inv.Reload(s, cash.Coins{1: half + 2}), cash.ErrInvalidQuantity)
		assert.Equal(t, half, inv.Count(1))
		assert.Positive(t, inv.TotalValue())
	})

	t.Run("deposit into a full inventory", func(t *testing.T) {
		t.Parallel()
		inv, err := cash.NewInventory(cash.Coins{1: math.MaxInt})
		require.NoError(t, err)

		require.ErrorIs(t, inv.Deposit(1), cash.ErrInvalidQuantity)
		assert.Equal(t, math.MaxInt, inv.Count(1))
	})

	t.Run("initial contents", func(t *testing.T) {
		t.Parallel()
		_, err := cash.NewInventory(cash.Coins{200: math.MaxInt / 100})
		require.ErrorIs(t, err, cash.ErrInvalidQuantity)
	})
}

func TestInventoryComputeChangeIsReadOnly(t *testing.T) {
	t.Parallel()

	inv, err := cash.NewInventory(cash.Coins{100: 5, 10: 3})
	require.NoError(t, err)

	ch, err := inv.ComputeChange(10)
	require.NoError(t, err)
	assert.Equal(t, cash.Coins{10: 1}, ch.Coins)
	assert.Equal(t, cash.Coins{100: 5, 10: 3}, inv.Snapshot())
}

func TestInventoryConcurrentWithdraw(t *testing.T) {
	t.Parallel()

	inv, err := cash.NewInventory(cash.Coins{10: 100})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for range 150 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := inv.Withdraw(cash.Coins{10: 1}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, success)
	assert.Zero(t, inv.Count(10))
}
