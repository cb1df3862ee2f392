package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
)

// Kind classifies an entry.
type Kind string

const (
	KindSale               Kind = "sale"
	KindSaleReducedChange  Kind = "sale_reduced_change"
	KindCancel             Kind = "cancel"
	KindSelectFailed       Kind = "select_failed"
	KindReload             Kind = "reload"
	KindRestock            Kind = "restock"
	KindCatalogueUpdate    Kind = "catalogue_update"
	KindMaintenanceStarted Kind = "maintenance_started"
	KindMaintenanceEnded   Kind = "maintenance_ended"
)

// Entry is a single journal record. Amounts are in minor units.
type Entry struct {
	ID            string     `json:"id"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Kind          Kind       `json:"kind"`
	ProductID     int        `json:"product_id,omitempty"`
	ProductName   string     `json:"product_name,omitempty"`
	Price         int        `json:"price,omitempty"`
	Paid          int        `json:"paid,omitempty"`
	ChangeOwed    int        `json:"change_owed,omitempty"`
	Change        cash.Coins `json:"change,omitempty"`
	Shortfall     int        `json:"shortfall,omitempty"`
	Refund        cash.Coins `json:"refund,omitempty"`
	Supply        cash.Coins `json:"supply,omitempty"`
	Units         int        `json:"units,omitempty"` // physical units restocked
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewEntry returns an entry of kind with a fresh id and timestamp.
func NewEntry(kind Kind) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Kind          Kind
	TransactionID string
	Since         time.Time
	Limit         int
}

// Match reports whether e satisfies f, ignoring Limit.
func (f Filter) Match(e Entry) bool {
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.TransactionID != "" && e.TransactionID != f.TransactionID {
		return false
	}
	if !f.Since.IsZero() && e.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// Recorder appends entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Reader lists entries, oldest first.
type Reader interface {
	List(ctx context.Context, f Filter) ([]Entry, error)
}

// Journal is a backend that can both record and list.
type Journal interface {
	Recorder
	Reader
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) List(context.Context, Filter) ([]Entry, error) { return nil, nil }
