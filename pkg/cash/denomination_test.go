package cash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
)

func TestDenominations(t *testing.T) {
	t.Parallel()

	ds := cash.Denominations()
	require.Equal(t, []cash.Denomination{200, 100, 50, 20, 10, 5, 2, 1}, ds)

	// Mutating the returned slice must not leak into the package.
	ds[0] = 7
	assert.Equal(t, cash.Denomination(200), cash.Denominations()[0])
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, v := range []int{1, 2, 5, 10, 20, 50, 100, 200} {
		d, err := cash.Parse(v)
		require.NoError(t, err)
		assert.Equal(t, v, d.Value())
		assert.True(t, d.Valid())
	}

	for _, v := range []int{0, -1, 3, 25, 500, 2000} {
		_, err := cash.Parse(v)
		assert.ErrorIs(t, err, cash.ErrInvalidDenomination, "value %d", v)
	}
}

func TestDenominationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1p", cash.Denomination(1).String())
	assert.Equal(t, "50p", cash.Denomination(50).String())
	assert.Equal(t, "£1", cash.Denomination(100).String())
	assert.Equal(t, "£2", cash.Denomination(200).String())
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	assert.Contains(t, cash.FormatAmount(210), "2.10")
	assert.Contains(t, cash.FormatAmount(5), "0.05")
}
