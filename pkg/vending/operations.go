package vending

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/statemachine"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// Start opens a new transaction and returns its id.
func (m *Machine) Start(ctx context.Context) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "start"
	from := m.fsm.Current()
	to, err := m.fsm.Fire(ctx, EventStart, nil)
	if err != nil {
		return uuid.Nil, m.fail(op, from, EventStart, err)
	}

	ctx = m.withTx(ctx)
	m.logger.InfoContext(ctx, "transaction started", logger.Transition(from, to))
	return m.tx.id, nil
}

// Select chooses the product for the open transaction. When the product is
// unknown or sold out the transaction is dropped and the machine returns to
// StateIdle.
func (m *Machine) Select(ctx context.Context, id stock.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "select"
	from := m.fsm.Current()
	ctx = m.withTx(ctx)

	to, err := m.fsm.Fire(ctx, EventSelect, id)
	if err == nil {
		m.logger.InfoContext(ctx, "product selected",
			logger.ProductID(int(id)),
			logger.Amount(m.tx.info.Price),
			logger.Transition(from, to),
		)
		return nil
	}
	if !errors.Is(err, statemachine.ErrActionFailed) {
		return m.fail(op, from, EventSelect, err)
	}

	txID := m.tx.id
	if _, aerr := m.fsm.Fire(ctx, EventAbort, nil); aerr != nil {
		m.logger.ErrorContext(ctx, "failed to abort transaction", logger.Error(aerr))
	}

	verr := m.fail(op, from, EventSelect, err)
	m.logger.WarnContext(ctx, "selection failed, transaction aborted",
		logger.ProductID(int(id)),
		logger.Error(verr),
	)

	e := journal.NewEntry(journal.KindSelectFailed)
	e.TransactionID = txID.String()
	e.ProductID = int(id)
	e.Error = string(KindOf(verr))
	m.record(ctx, e)
	return verr
}

// Insert accepts one coin of value minor units and returns the new balance.
// The coin joins the machine's inventory straight away.
func (m *Machine) Insert(ctx context.Context, value int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "insert"
	from := m.fsm.Current()
	ctx = m.withTx(ctx)

	if from != StateCollectingPayment && from != StateReadyToCheckout {
		return m.tx.balance(), m.rejected(op, from, EventInsert)
	}

	coin, err := cash.Parse(value)
	if err != nil {
		m.logger.WarnContext(ctx, "coin rejected", logger.Amount(value))
		return m.tx.balance(), &Error{Kind: KindInvalidDenomination, Op: op, State: from, Err: err}
	}

	funded := m.tx.balance()+coin.Value() >= m.tx.info.Price
	to, err := m.fsm.Fire(ctx, EventInsert, insertPayload{coin: coin, funded: funded})
	if err != nil {
		return m.tx.balance(), m.fail(op, from, EventInsert, err)
	}

	balance := m.tx.balance()
	m.logger.DebugContext(ctx, "coin accepted",
		logger.Amount(coin.Value()),
		"balance", balance,
		logger.Transition(from, to),
	)
	return balance, nil
}

// Checkout completes the sale when the exact change can be paid. Otherwise the
// machine moves to StateAwaitingChangeDecision and the returned error wraps a
// *ChangeUnavailableError describing the reduced change on offer.
func (m *Machine) Checkout(ctx context.Context) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "checkout"
	from := m.fsm.Current()
	ctx = m.withTx(ctx)

	switch from {
	case StateReadyToCheckout:
	case StateCollectingPayment:
		return Receipt{}, &Error{
			Kind:  KindInsufficientFunds,
			Op:    op,
			State: from,
			Err: fmt.Errorf("%w: %w: balance %s, price %s",
				ErrInvalidState, ErrInsufficientFunds,
				cash.FormatAmount(m.tx.balance()), cash.FormatAmount(m.tx.info.Price)),
		}
	default:
		return Receipt{}, m.rejected(op, from, EventCheckout)
	}

	owed := m.tx.balance() - m.tx.info.Price
	change, err := m.cash.ComputeChange(owed)
	if err != nil && !errors.Is(err, cash.ErrExactChangeUnavailable) {
		return Receipt{}, m.fail(op, from, EventCheckout, err)
	}

	to, err := m.fsm.Fire(ctx, EventCheckout, checkoutPayload{change: change})
	if err != nil {
		return Receipt{}, m.fail(op, from, EventCheckout, err)
	}

	if to == StateAwaitingChangeDecision {
		offer := cloneOffer(*m.tx.offer)
		m.logger.InfoContext(ctx, "exact change unavailable, awaiting customer decision",
			logger.Amount(offer.Owed),
			logger.Coins(offer.Offered),
			"shortfall", offer.Shortfall,
			logger.Transition(from, to),
		)
		return Receipt{}, &Error{
			Kind:  KindExactChangeUnavailable,
			Op:    op,
			State: from,
			Err:   &ChangeUnavailableError{Offer: offer},
		}
	}
	return m.complete(ctx, op)
}

// AcceptReducedChange completes a sale with the change offered by Checkout.
func (m *Machine) AcceptReducedChange(ctx context.Context) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "accept_reduced_change"
	from := m.fsm.Current()
	ctx = m.withTx(ctx)

	if _, err := m.fsm.Fire(ctx, EventAcceptReducedChange, nil); err != nil {
		return Receipt{}, m.fail(op, from, EventAcceptReducedChange, err)
	}
	return m.complete(ctx, op)
}

// complete hands over the product and change. Must be called in StateDispensing.
func (m *Machine) complete(ctx context.Context, op string) (Receipt, error) {
	var r Receipt
	if _, err := m.fsm.Fire(ctx, EventComplete, &r); err != nil {
		return Receipt{}, m.fail(op, StateDispensing, EventComplete, err)
	}

	kind := journal.KindSale
	if r.Reduced() {
		kind = journal.KindSaleReducedChange
	}
	e := journal.NewEntry(kind)
	e.TransactionID = r.TransactionID.String()
	e.ProductID = int(r.Product.ID)
	e.ProductName = r.Info.Name
	e.Price = r.Price
	e.Paid = r.Paid
	e.ChangeOwed = r.ChangeOwed
	e.Change = r.Change
	e.Shortfall = r.Shortfall
	m.record(ctx, e)

	m.logger.InfoContext(ctx, "sale completed",
		logger.ProductID(int(r.Product.ID)),
		logger.Amount(r.Paid),
		logger.Coins(r.Change),
		"shortfall", r.Shortfall,
	)
	return r, nil
}

// Cancel ends the open transaction and returns the inserted coins.
func (m *Machine) Cancel(ctx context.Context) (Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "cancel"
	from := m.fsm.Current()
	ctx = m.withTx(ctx)

	var r Refund
	to, err := m.fsm.Fire(ctx, EventCancel, &r)
	if err != nil {
		return Refund{}, m.fail(op, from, EventCancel, err)
	}

	e := journal.NewEntry(journal.KindCancel)
	e.TransactionID = r.TransactionID.String()
	e.Refund = r.Coins
	m.record(ctx, e)

	m.logger.InfoContext(ctx, "transaction cancelled",
		logger.Amount(r.Amount()),
		logger.Coins(r.Coins),
		logger.Transition(from, to),
	)
	return r, nil
}
