package cash

import "fmt"

// Change is the outcome of a change computation.
type Change struct {
	Owed      int   // requested amount
	Coins     Coins // selected units, value never above Owed
	Shortfall int   // Owed minus the value of Coins
}

// Value returns the value of the selected coins.
func (c Change) Value() int {
	return c.Coins.Total()
}

// Exact reports whether the selected coins cover the owed amount precisely.
func (c Change) Exact() bool {
	return c.Shortfall == 0
}

// ComputeChange selects coins from available summing to owed.
// Denominations are walked largest first, each capped by availability.
// When the walk cannot reach zero the partial selection is returned along with
// ErrExactChangeUnavailable; the partial value is strictly below owed.
func ComputeChange(owed int, available Coins) (Change, error) {
	if owed < 0 {
		return Change{}, fmt.Errorf("%w: %d", ErrNegativeAmount, owed)
	}

	remaining := owed
	selected := make(Coins)
	for _, d := range denominations {
		if remaining == 0 {
			break
		}
		have := available[d]
		if have <= 0 {
			continue
		}
		n := min(have, remaining/int(d))
		if n == 0 {
			continue
		}
		selected[d] = n
		remaining -= n * int(d)
	}

	ch := Change{Owed: owed, Coins: selected, Shortfall: remaining}
	if remaining > 0 {
		return ch, fmt.Errorf("%w: %s short of %s", ErrExactChangeUnavailable, FormatAmount(remaining), FormatAmount(owed))
	}
	return ch, nil
}
