package cash

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Coins is a multiset of denominations: face value to number of units.
type Coins map[Denomination]int

// Total returns the value of the multiset in minor units.
func (c Coins) Total() int {
	total := 0
	for d, n := range c {
		total += int(d) * n
	}
	return total
}

// Count returns the number of physical units in the multiset.
func (c Coins) Count() int {
	n := 0
	for _, q := range c {
		n += q
	}
	return n
}

// Clone returns a copy without zero counts.
func (c Coins) Clone() Coins {
	return c.Compact()
}

// Compact returns a copy with zero counts removed.
func (c Coins) Compact() Coins {
	out := make(Coins, len(c))
	for d, n := range c {
		if n != 0 {
			out[d] = n
		}
	}
	return out
}

// Add returns a new multiset holding the units of both c and other.
func (c Coins) Add(other Coins) Coins {
	out := c.Compact()
	for d, n := range other {
		if n == 0 {
			continue
		}
		out[d] += n
	}
	return out
}

// Sorted returns the denominations present in c, largest first.
func (c Coins) Sorted() []Denomination {
	out := make([]Denomination, 0, len(c))
	for d, n := range c {
		if n > 0 {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b Denomination) int { return int(b) - int(a) })
	return out
}

// Equal reports whether both multisets hold the same units.
func (c Coins) Equal(other Coins) bool {
	a, b := c.Compact(), other.Compact()
	if len(a) != len(b) {
		return false
	}
	for d, n := range a {
		if b[d] != n {
			return false
		}
	}
	return true
}

// Validate checks that every denomination is legal, no count is negative and
// the total value fits in an int.
func (c Coins) Validate() error {
	for d, n := range c {
		if !d.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidDenomination, int(d))
		}
		if n < 0 {
			return fmt.Errorf("%w: %d x %s", ErrInvalidQuantity, n, d)
		}
	}
	if !fits(c, nil) {
		return fmt.Errorf("%w: total value overflows", ErrInvalidQuantity)
	}
	return nil
}

// fits reports whether the union of two valid multisets keeps every count and
// the total value within int.
func fits(a, b Coins) bool {
	total := 0
	for _, d := range denominations {
		n, add := a[d], b[d]
		if add > math.MaxInt-n {
			return false
		}
		n += add
		if n > (math.MaxInt-total)/int(d) {
			return false
		}
		total += n * int(d)
	}
	return true
}

// String renders the multiset as "2 x £1, 1 x 10p".
func (c Coins) String() string {
	sorted := c.Sorted()
	if len(sorted) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(sorted))
	for _, d := range sorted {
		parts = append(parts, fmt.Sprintf("%d x %s", c[d], d))
	}
	return strings.Join(parts, ", ")
}

// FromValues builds a multiset from a sequence of inserted face values.
func FromValues(values ...Denomination) Coins {
	out := make(Coins, len(values))
	for _, d := range values {
		out[d]++
	}
	return out
}
