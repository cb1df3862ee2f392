package vending

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
	"github.com/dmitrymomot/vendingkit/pkg/statemachine"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// Delivery is the hardware that hands products and coins to the customer.
// Implementations must not call back into the Machine.
type Delivery interface {
	Dispatch(ctx context.Context, p stock.Product)
	ReturnCoins(ctx context.Context, coins cash.Coins)
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithJournal sets where transaction outcomes are recorded.
func WithJournal(r journal.Recorder) Option {
	return func(m *Machine) {
		if r != nil {
			m.journal = r
		}
	}
}

// WithIDGenerator overrides how transaction ids are generated.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(m *Machine) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// Machine is the transaction controller. All methods are safe for concurrent
// use; operations are applied one at a time.
type Machine struct {
	mu       sync.Mutex
	fsm      *statemachine.Machine[State, Event]
	stock    *stock.Stock
	cash     *cash.Inventory
	delivery Delivery
	journal  journal.Recorder
	logger   *slog.Logger
	newID    func() uuid.UUID

	tx      *transaction
	session *maintenance.Session
}

// New creates a Machine in StateIdle.
func New(st *stock.Stock, inv *cash.Inventory, d Delivery, opts ...Option) (*Machine, error) {
	switch {
	case st == nil:
		return nil, fmt.Errorf("%w: stock", ErrNilDependency)
	case inv == nil:
		return nil, fmt.Errorf("%w: cash inventory", ErrNilDependency)
	case d == nil:
		return nil, fmt.Errorf("%w: delivery", ErrNilDependency)
	}

	m := &Machine{
		stock:    st,
		cash:     inv,
		delivery: d,
		journal:  journal.Nop{},
		logger:   logger.Discard(),
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("vending"))

	fsm, err := statemachine.New(m.definition())
	if err != nil {
		return nil, fmt.Errorf("vending: build state graph: %w", err)
	}
	m.fsm = fsm
	return m, nil
}

// transaction is the customer interaction in progress.
type transaction struct {
	id       uuid.UUID
	selected bool
	product  stock.ProductID
	info     stock.ProductInfo
	inserted []cash.Denomination
	offer    *ReducedChangeOffer

	// populated on the way through StateDispensing
	dispensed *stock.Product
	change    cash.Change
}

func (t *transaction) balance() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, d := range t.inserted {
		total += d.Value()
	}
	return total
}

func (t *transaction) insertedCoins() cash.Coins {
	if t == nil {
		return cash.Coins{}
	}
	return cash.FromValues(t.inserted...)
}

// Status is a point-in-time view of the controller.
type Status struct {
	State         State               `json:"state"`
	TransactionID *uuid.UUID          `json:"transaction_id,omitempty"`
	ProductID     *stock.ProductID    `json:"product_id,omitempty"`
	Price         int                 `json:"price,omitempty"`
	Balance       int                 `json:"balance"`
	Inserted      cash.Coins          `json:"inserted,omitempty"`
	Offer         *ReducedChangeOffer `json:"offer,omitempty"`
	Permitted     []Event             `json:"permitted"`
}

// Status returns the current state together with the open transaction, if any.
func (m *Machine) Status(ctx context.Context) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Status{
		State:     m.fsm.Current(),
		Permitted: m.fsm.Permitted(ctx, nil),
	}
	if m.tx == nil {
		return s
	}
	id := m.tx.id
	s.TransactionID = &id
	s.Balance = m.tx.balance()
	s.Inserted = m.tx.insertedCoins()
	if m.tx.selected {
		pid := m.tx.product
		s.ProductID = &pid
		s.Price = m.tx.info.Price
	}
	if m.tx.offer != nil {
		offer := cloneOffer(*m.tx.offer)
		s.Offer = &offer
	}
	return s
}

// State returns the current controller state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Current()
}

// Permitted lists the events accepted in the current state.
func (m *Machine) Permitted(ctx context.Context) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Permitted(ctx, nil)
}

// Balance returns the amount inserted in the open transaction.
func (m *Machine) Balance() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx.balance()
}

// Inserted returns the coins inserted in the open transaction.
func (m *Machine) Inserted() cash.Coins {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tx.insertedCoins()
}

// TransactionID returns the id of the open transaction.
func (m *Machine) TransactionID() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil {
		return uuid.Nil, false
	}
	return m.tx.id, true
}

// Selected returns the product chosen in the open transaction.
func (m *Machine) Selected() (stock.ProductID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil || !m.tx.selected {
		return 0, false
	}
	return m.tx.product, true
}

// PendingOffer returns the reduced change awaiting the customer's decision.
func (m *Machine) PendingOffer() (ReducedChangeOffer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tx == nil || m.tx.offer == nil {
		return ReducedChangeOffer{}, false
	}
	return cloneOffer(*m.tx.offer), true
}

// Offer returns the products currently in stock.
func (m *Machine) Offer() stock.Catalogue {
	return m.stock.Offer()
}

// Catalogue returns every catalogued product, in stock or not.
func (m *Machine) Catalogue() stock.Catalogue {
	return m.stock.Catalogue()
}

// CashSnapshot returns the coins held by the machine.
func (m *Machine) CashSnapshot() cash.Coins {
	return m.cash.Snapshot()
}

// StockLevels returns the unit count per product.
func (m *Machine) StockLevels() map[stock.ProductID]int {
	return m.stock.Levels()
}

// MaintenanceSession returns the active maintenance session, or nil.
func (m *Machine) MaintenanceSession() *maintenance.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

func cloneOffer(o ReducedChangeOffer) ReducedChangeOffer {
	o.Offered = o.Offered.Clone()
	return o
}

// withTx attaches the open transaction id to ctx for logging.
func (m *Machine) withTx(ctx context.Context) context.Context {
	if m.tx == nil {
		return ctx
	}
	return logger.WithTransactionID(ctx, m.tx.id.String())
}

func (m *Machine) record(ctx context.Context, e journal.Entry) {
	if err := m.journal.Record(ctx, e); err != nil {
		m.logger.ErrorContext(ctx, "failed to record journal entry",
			logger.Event(string(e.Kind)),
			logger.Error(err),
		)
	}
}

// fail wraps err into an *Error. Graph rejections become InvalidState, or
// NotInMaintenance for maintenance-only events.
func (m *Machine) fail(op string, from State, event Event, err error) error {
	if statemachine.IsNoTransitionAvailableError(err) || statemachine.IsTransitionRejectedError(err) {
		if maintenanceEvents[event] {
			return &Error{Kind: KindNotInMaintenance, Op: op, State: from, Err: fmt.Errorf("%w: %w", ErrNotInMaintenance, err)}
		}
		return &Error{Kind: KindInvalidState, Op: op, State: from, Err: fmt.Errorf("%w: %w", ErrInvalidState, err)}
	}
	return &Error{Kind: classify(err), Op: op, State: from, Err: err}
}

// rejected builds the error for an event the current state does not accept.
func (m *Machine) rejected(op string, from State, event Event) error {
	return m.fail(op, from, event, &statemachine.ErrNoTransitionAvailable{
		StateName: string(from),
		EventName: string(event),
	})
}
