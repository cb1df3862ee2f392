// Package vending implements the transaction controller of a vending machine.
//
// A Machine owns the customer-facing state graph and coordinates the product
// stock, the coin inventory and the delivery hardware:
//
//	Idle -> Selecting -> CollectingPayment -> ReadyToCheckout -> Dispensing -> Idle
//	                                           ReadyToCheckout -> AwaitingChangeDecision -> Dispensing
//	Idle <-> Maintenance
//
// At most one transaction is active at a time. Inserted coins are deposited into
// the inventory as soon as they are accepted and become available as change for
// the same transaction. A sale only happens when the exact change can be paid
// or the customer explicitly accepts a reduced amount; cancelling returns the
// very coins that were inserted.
//
// Basic usage:
//
//	m, err := vending.New(st, inv, delivery.NewLog(logger))
//	if err != nil {
//		return err
//	}
//	_, _ = m.Start(ctx)
//	_ = m.Select(ctx, 1)
//	_, _ = m.Insert(ctx, 200)
//	_, _ = m.Insert(ctx, 20)
//	receipt, err := m.Checkout(ctx)
//	var unavailable *vending.ChangeUnavailableError
//	if errors.As(err, &unavailable) {
//		receipt, err = m.AcceptReducedChange(ctx) // or m.Cancel(ctx)
//	}
//
// Maintenance operations (restocking, reloading coins, replacing the
// catalogue) are only accepted between StartMaintenance and EndMaintenance.
package vending
