package vending

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// Receipt summarises a completed sale. Amounts are in minor units.
type Receipt struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Product       stock.Product     `json:"product"`
	Info          stock.ProductInfo `json:"info"`
	Price         int               `json:"price"`
	Paid          int               `json:"paid"`
	Inserted      cash.Coins        `json:"inserted"`
	ChangeOwed    int               `json:"change_owed"`
	Change        cash.Coins        `json:"change"`
	Shortfall     int               `json:"shortfall"`
}

// ChangeValue returns the value of the coins actually returned.
func (r Receipt) ChangeValue() int {
	return r.Change.Total()
}

// Reduced reports whether the customer accepted less change than owed.
func (r Receipt) Reduced() bool {
	return r.Shortfall > 0
}

// Refund summarises a cancelled transaction.
type Refund struct {
	TransactionID uuid.UUID  `json:"transaction_id"`
	Coins         cash.Coins `json:"coins"`
}

// Amount returns the refunded value.
func (r Refund) Amount() int {
	return r.Coins.Total()
}
