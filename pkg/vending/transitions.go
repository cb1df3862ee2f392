package vending

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
	"github.com/dmitrymomot/vendingkit/pkg/statemachine"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

type (
	guard      = statemachine.Guard[State, Event]
	action     = statemachine.Action[State, Event]
	transition = statemachine.Transition[State, Event]
)

type insertPayload struct {
	coin   cash.Denomination
	funded bool
}

type checkoutPayload struct {
	change cash.Change
}

// definition is the controller state graph. Actions run with the controller
// mutex held and must only touch the open transaction, stock, cash and delivery.
func (m *Machine) definition() statemachine.Definition[State, Event] {
	funded := []guard{isFunded}
	exact := []guard{hasExactChange}
	deposit := []action{m.deposit}
	refund := []action{m.refund}

	return statemachine.Definition[State, Event]{
		Initial: StateIdle,
		States:  allStates,
		Events:  allEvents,
		Transitions: []transition{
			{From: StateIdle, Event: EventStart, To: StateSelecting, Actions: []action{m.open}},
			{From: StateSelecting, Event: EventSelect, To: StateCollectingPayment, Actions: []action{m.choose}},
			{From: StateSelecting, Event: EventAbort, To: StateIdle, Actions: []action{m.drop}},
			{From: StateSelecting, Event: EventCancel, To: StateIdle, Actions: refund},

			{From: StateCollectingPayment, Event: EventInsert, To: StateReadyToCheckout, Guards: funded, Actions: deposit},
			{From: StateCollectingPayment, Event: EventInsert, To: StateCollectingPayment, Actions: deposit},
			{From: StateCollectingPayment, Event: EventCancel, To: StateIdle, Actions: refund},

			{From: StateReadyToCheckout, Event: EventInsert, To: StateReadyToCheckout, Actions: deposit},
			{From: StateReadyToCheckout, Event: EventCheckout, To: StateDispensing, Guards: exact, Actions: []action{m.settleExact}},
			{From: StateReadyToCheckout, Event: EventCheckout, To: StateAwaitingChangeDecision, Actions: []action{m.offerReduced}},
			{From: StateReadyToCheckout, Event: EventCancel, To: StateIdle, Actions: refund},

			{From: StateAwaitingChangeDecision, Event: EventAcceptReducedChange, To: StateDispensing, Actions: []action{m.settleReduced}},
			{From: StateAwaitingChangeDecision, Event: EventCancel, To: StateIdle, Actions: refund},

			{From: StateDispensing, Event: EventComplete, To: StateIdle, Actions: []action{m.deliver}},

			{From: StateIdle, Event: EventStartMaintenance, To: StateMaintenance, Actions: []action{m.beginSession}},
			{From: StateMaintenance, Event: EventEndMaintenance, To: StateIdle, Actions: []action{m.endSession}},
			{From: StateMaintenance, Event: EventReloadChange, To: StateMaintenance, Actions: []action{m.reload}},
			{From: StateMaintenance, Event: EventAddProducts, To: StateMaintenance, Actions: []action{m.restock}},
			{From: StateMaintenance, Event: EventUpdateCatalogue, To: StateMaintenance, Actions: []action{m.replaceCatalogue}},
		},
	}
}

func isFunded(_ context.Context, _ State, _ Event, data any) bool {
	p, ok := data.(insertPayload)
	return ok && p.funded
}

func hasExactChange(_ context.Context, _ State, _ Event, data any) bool {
	p, ok := data.(checkoutPayload)
	return ok && p.change.Exact()
}

func payload[T any](event Event, data any) (T, error) {
	v, ok := data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("vending: unexpected %T payload for event %s", data, event)
	}
	return v, nil
}

func (m *Machine) open(context.Context, State, State, Event, any) error {
	m.tx = &transaction{id: m.newID()}
	return nil
}

func (m *Machine) drop(context.Context, State, State, Event, any) error {
	m.tx = nil
	return nil
}

func (m *Machine) choose(_ context.Context, _, _ State, event Event, data any) error {
	id, err := payload[stock.ProductID](event, data)
	if err != nil {
		return err
	}
	ok, err := m.stock.IsAvailable(id)
	if err != nil {
		return err
	}
	if !ok {
		return &stock.ProductError{ID: id, Err: stock.ErrOutOfStock}
	}
	info, err := m.stock.Info(id)
	if err != nil {
		return err
	}
	m.tx.selected = true
	m.tx.product = id
	m.tx.info = info
	return nil
}

func (m *Machine) deposit(_ context.Context, _, _ State, event Event, data any) error {
	p, err := payload[insertPayload](event, data)
	if err != nil {
		return err
	}
	if err := m.cash.Deposit(p.coin); err != nil {
		return err
	}
	m.tx.inserted = append(m.tx.inserted, p.coin)
	return nil
}

func (m *Machine) settleExact(_ context.Context, _, _ State, event Event, data any) error {
	p, err := payload[checkoutPayload](event, data)
	if err != nil {
		return err
	}
	return m.settle(p.change)
}

func (m *Machine) offerReduced(_ context.Context, _, _ State, event Event, data any) error {
	p, err := payload[checkoutPayload](event, data)
	if err != nil {
		return err
	}
	m.tx.offer = &ReducedChangeOffer{
		Owed:      p.change.Owed,
		Offered:   p.change.Coins.Compact(),
		Shortfall: p.change.Shortfall,
	}
	return nil
}

func (m *Machine) settleReduced(context.Context, State, State, Event, any) error {
	if m.tx.offer == nil {
		return fmt.Errorf("%w: no pending offer", ErrInvalidState)
	}
	offer := m.tx.offer
	return m.settle(cash.Change{
		Owed:      offer.Owed,
		Coins:     offer.Offered.Clone(),
		Shortfall: offer.Shortfall,
	})
}

// settle takes the product, then withdraws the change. A failed withdrawal
// puts the product back so neither inventory is left half-updated.
func (m *Machine) settle(ch cash.Change) error {
	p, err := m.stock.Take(m.tx.product)
	if err != nil {
		return err
	}
	if err := m.cash.Withdraw(ch.Coins); err != nil {
		if rerr := m.stock.Restore(p); rerr != nil {
			m.logger.Error("failed to restore product after change withdrawal failed",
				logger.ProductID(int(p.ID)),
				logger.Error(rerr),
			)
		}
		return err
	}
	m.tx.dispensed = &p
	m.tx.change = ch
	return nil
}

func (m *Machine) deliver(ctx context.Context, _, _ State, event Event, data any) error {
	r, err := payload[*Receipt](event, data)
	if err != nil {
		return err
	}
	tx := m.tx
	if tx.dispensed == nil {
		return fmt.Errorf("%w: nothing to dispense", ErrInvalidState)
	}

	m.delivery.Dispatch(ctx, *tx.dispensed)
	change := tx.change.Coins.Compact()
	if change.Count() > 0 {
		m.delivery.ReturnCoins(ctx, change)
	}

	*r = Receipt{
		TransactionID: tx.id,
		Product:       *tx.dispensed,
		Info:          tx.info,
		Price:         tx.info.Price,
		Paid:          tx.balance(),
		Inserted:      tx.insertedCoins(),
		ChangeOwed:    tx.change.Owed,
		Change:        change,
		Shortfall:     tx.change.Shortfall,
	}
	m.tx = nil
	return nil
}

// refund returns the very coins the customer inserted.
func (m *Machine) refund(ctx context.Context, _, _ State, event Event, data any) error {
	r, err := payload[*Refund](event, data)
	if err != nil {
		return err
	}
	coins := m.tx.insertedCoins()
	if coins.Count() > 0 {
		if err := m.cash.Withdraw(coins); err != nil {
			return err
		}
		m.delivery.ReturnCoins(ctx, coins)
	}
	*r = Refund{TransactionID: m.tx.id, Coins: coins}
	m.tx = nil
	return nil
}

func (m *Machine) beginSession(context.Context, State, State, Event, any) error {
	m.session = maintenance.Begin()
	return nil
}

func (m *Machine) endSession(context.Context, State, State, Event, any) error {
	m.session.End()
	m.session = nil
	return nil
}

func (m *Machine) reload(_ context.Context, _, _ State, event Event, data any) error {
	supply, err := payload[cash.Coins](event, data)
	if err != nil {
		return err
	}
	return m.cash.Reload(m.session, supply)
}

func (m *Machine) restock(_ context.Context, _, _ State, event Event, data any) error {
	products, err := payload[[]stock.Product](event, data)
	if err != nil {
		return err
	}
	return m.stock.Add(m.session, products...)
}

func (m *Machine) replaceCatalogue(_ context.Context, _, _ State, event Event, data any) error {
	next, err := payload[stock.Catalogue](event, data)
	if err != nil {
		return err
	}
	return m.stock.UpdateCatalogue(m.session, next)
}
