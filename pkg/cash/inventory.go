package cash

import (
	"fmt"
	"sync"

	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
)

// Inventory holds the physical coins and notes inside the machine.
// All methods are safe for concurrent use.
type Inventory struct {
	mu     sync.Mutex
	counts Coins
}

// NewInventory creates an inventory preloaded with initial.
func NewInventory(initial Coins) (*Inventory, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Inventory{counts: initial.Compact()}, nil
}

// Deposit adds one inserted unit of d.
func (i *Inventory) Deposit(d Denomination) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDenomination, int(d))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if !fits(i.counts, Coins{d: 1}) {
		return fmt.Errorf("%w: inventory is full of %s", ErrInvalidQuantity, d)
	}
	i.counts[d]++
	return nil
}

// TotalValue returns the value of everything in the inventory.
func (i *Inventory) TotalValue() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.counts.Total()
}

// Count returns the number of units of d.
func (i *Inventory) Count(d Denomination) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.counts[d]
}

// Snapshot returns a copy of the non-zero counts.
func (i *Inventory) Snapshot() Coins {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.counts.Compact()
}

// ComputeChange previews change for owed against the current counts.
// It does not reserve or remove anything.
func (i *Inventory) ComputeChange(owed int) (Change, error) {
	return ComputeChange(owed, i.Snapshot())
}

// Withdraw removes c from the inventory. Either every unit is removed or,
// on error, nothing is.
func (i *Inventory) Withdraw(c Coins) error {
	if err := c.Validate(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for d, n := range c {
		if have := i.counts[d]; have < n {
			return fmt.Errorf("%w: requested %d x %s, available %d", ErrInsufficientInventory, n, d, have)
		}
	}
	for d, n := range c {
		if n == 0 {
			continue
		}
		i.counts[d] -= n
		if i.counts[d] == 0 {
			delete(i.counts, d)
		}
	}
	return nil
}

// Reload adds supply to the inventory. Requires an active maintenance session.
// A supply that would overflow a count or the total value is rejected whole.
func (i *Inventory) Reload(s *maintenance.Session, supply Coins) error {
	if err := maintenance.Require(s); err != nil {
		return err
	}
	if err := supply.Validate(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if !fits(i.counts, supply) {
		return fmt.Errorf("%w: reload of %s overflows the inventory", ErrInvalidQuantity, supply)
	}
	i.counts = i.counts.Add(supply)
	return nil
}
