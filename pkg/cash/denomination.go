package cash

import (
	"fmt"
	"slices"
	"strconv"
)

// Denomination is a coin or note face value in minor units.
type Denomination int

// denominations is the legal set, largest first.
var denominations = []Denomination{200, 100, 50, 20, 10, 5, 2, 1}

// Denominations returns the legal face values ordered from largest to smallest.
func Denominations() []Denomination {
	return slices.Clone(denominations)
}

// Parse converts a raw face value into a Denomination.
func Parse(v int) (Denomination, error) {
	d := Denomination(v)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDenomination, v)
	}
	return d, nil
}

// Valid reports whether d belongs to the legal set.
func (d Denomination) Valid() bool {
	return slices.Contains(denominations, d)
}

// Value returns the face value in minor units.
func (d Denomination) Value() int {
	return int(d)
}

func (d Denomination) String() string {
	if d < 100 {
		return strconv.Itoa(int(d)) + "p"
	}
	if d%100 == 0 {
		return "£" + strconv.Itoa(int(d)/100)
	}
	return FormatAmount(int(d))
}
