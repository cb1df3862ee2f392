package cash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
)

func TestCoins(t *testing.T) {
	t.Parallel()

	c := cash.Coins{100: 2, 10: 1, 5: 0}

	assert.Equal(t, 210, c.Total())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, []cash.Denomination{100, 10}, c.Sorted())
	assert.Equal(t, "2 x £1, 1 x 10p", c.String())
	assert.Equal(t, "none", cash.Coins{}.String())

	compact := c.Compact()
	_, hasZero := compact[5]
	assert.False(t, hasZero)
	assert.True(t, c.Equal(compact))

	sum := c.Add(cash.Coins{10: 2, 50: 1})
	assert.Equal(t, cash.Coins{100: 2, 10: 3, 50: 1}, sum)
	assert.Equal(t, 1, c[10], "Add must not mutate the receiver")

	assert.True(t, cash.FromValues(100, 100, 20).Equal(cash.Coins{100: 2, 20: 1}))
}

func TestCoinsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, cash.Coins{200: 1, 1: 0}.Validate())
	assert.ErrorIs(t, cash.Coins{3: 1}.Validate(), cash.ErrInvalidDenomination)
	assert.ErrorIs(t, cash.Coins{10: -1}.Validate(), cash.ErrInvalidQuantity)
}
