package cash

import "errors"

var (
	ErrInvalidDenomination    = errors.New("cash: invalid denomination")
	ErrInvalidQuantity        = errors.New("cash: invalid quantity")
	ErrNegativeAmount         = errors.New("cash: amount cannot be negative")
	ErrInsufficientInventory  = errors.New("cash: insufficient coins in inventory")
	ErrExactChangeUnavailable = errors.New("cash: exact change unavailable")
)
