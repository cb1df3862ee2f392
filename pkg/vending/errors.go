package vending

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// Kind classifies controller failures.
type Kind string

const (
	KindInvalidState           Kind = "invalid_state"
	KindUnknownProduct         Kind = "unknown_product"
	KindOutOfStock             Kind = "out_of_stock"
	KindInsufficientInventory  Kind = "insufficient_inventory"
	KindExactChangeUnavailable Kind = "exact_change_unavailable"
	KindInvalidDenomination    Kind = "invalid_denomination"
	KindInvalidQuantity        Kind = "invalid_quantity"
	KindNotInMaintenance       Kind = "not_in_maintenance"
	KindInsufficientFunds      Kind = "insufficient_funds"
	KindInternal               Kind = "internal"
)

var (
	ErrInvalidState      = errors.New("vending: operation not allowed in current state")
	ErrInsufficientFunds = errors.New("vending: inserted amount is below the price")
	ErrNilDependency     = errors.New("vending: required dependency is nil")

	// Re-exported so callers only need this package to match failures.
	ErrUnknownProduct         = stock.ErrUnknownProduct
	ErrOutOfStock             = stock.ErrOutOfStock
	ErrInsufficientInventory  = cash.ErrInsufficientInventory
	ErrExactChangeUnavailable = cash.ErrExactChangeUnavailable
	ErrInvalidDenomination    = cash.ErrInvalidDenomination
	ErrInvalidQuantity        = cash.ErrInvalidQuantity
	ErrNotInMaintenance       = maintenance.ErrNotInMaintenance
)

// Error is returned by every controller operation.
type Error struct {
	Kind  Kind
	Op    string
	State State // state when the operation was attempted
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("vending: %s in state %s: %v", e.Op, e.State, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or an empty Kind for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return classify(err)
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, ErrNotInMaintenance):
		return KindNotInMaintenance
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrUnknownProduct):
		return KindUnknownProduct
	case errors.Is(err, ErrOutOfStock):
		return KindOutOfStock
	case errors.Is(err, ErrInvalidDenomination):
		return KindInvalidDenomination
	case errors.Is(err, ErrInvalidQuantity):
		return KindInvalidQuantity
	case errors.Is(err, ErrExactChangeUnavailable):
		return KindExactChangeUnavailable
	case errors.Is(err, ErrInsufficientInventory):
		return KindInsufficientInventory
	}
	return KindInternal
}

// ReducedChangeOffer describes change that can be paid when exact change cannot.
type ReducedChangeOffer struct {
	Owed      int        `json:"owed"`
	Offered   cash.Coins `json:"offered"`
	Shortfall int        `json:"shortfall"`
}

// ChangeUnavailableError is returned by Checkout when the machine cannot pay
// the exact change. The transaction stays open awaiting AcceptReducedChange
// or Cancel.
type ChangeUnavailableError struct {
	Offer ReducedChangeOffer
}

func (e *ChangeUnavailableError) Error() string {
	return fmt.Sprintf("%v: owed %s, can offer %s (%s short)",
		ErrExactChangeUnavailable,
		cash.FormatAmount(e.Offer.Owed),
		cash.FormatAmount(e.Offer.Offered.Total()),
		cash.FormatAmount(e.Offer.Shortfall),
	)
}

func (e *ChangeUnavailableError) Unwrap() error {
	return ErrExactChangeUnavailable
}
