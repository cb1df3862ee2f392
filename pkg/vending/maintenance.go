package vending

import (
	"context"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// StartMaintenance opens a maintenance session. Only allowed from StateIdle.
func (m *Machine) StartMaintenance(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "start_maintenance"
	from := m.fsm.Current()
	to, err := m.fsm.Fire(ctx, EventStartMaintenance, nil)
	if err != nil {
		return m.fail(op, from, EventStartMaintenance, err)
	}

	m.record(ctx, journal.NewEntry(journal.KindMaintenanceStarted))
	m.logger.InfoContext(ctx, "maintenance started",
		"session_id", m.session.ID().String(),
		logger.Transition(from, to),
	)
	return nil
}

// EndMaintenance closes the maintenance session and returns to StateIdle.
func (m *Machine) EndMaintenance(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "end_maintenance"
	from := m.fsm.Current()
	session := m.session
	to, err := m.fsm.Fire(ctx, EventEndMaintenance, nil)
	if err != nil {
		return m.fail(op, from, EventEndMaintenance, err)
	}

	m.record(ctx, journal.NewEntry(journal.KindMaintenanceEnded))
	m.logger.InfoContext(ctx, "maintenance ended",
		"session_id", session.ID().String(),
		logger.Transition(from, to),
	)
	return nil
}

// ReloadChange adds supply to the coin inventory.
func (m *Machine) ReloadChange(ctx context.Context, supply cash.Coins) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "reload_change"
	from := m.fsm.Current()
	if _, err := m.fsm.Fire(ctx, EventReloadChange, supply); err != nil {
		return m.fail(op, from, EventReloadChange, err)
	}

	e := journal.NewEntry(journal.KindReload)
	e.Supply = supply.Compact()
	m.record(ctx, e)
	m.logger.InfoContext(ctx, "change reloaded",
		logger.Coins(e.Supply),
		logger.Amount(e.Supply.Total()),
	)
	return nil
}

// AddProducts restocks the given units. Every unit must be catalogued.
func (m *Machine) AddProducts(ctx context.Context, products ...stock.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "add_products"
	from := m.fsm.Current()
	if _, err := m.fsm.Fire(ctx, EventAddProducts, products); err != nil {
		return m.fail(op, from, EventAddProducts, err)
	}

	e := journal.NewEntry(journal.KindRestock)
	e.Units = len(products)
	m.record(ctx, e)
	m.logger.InfoContext(ctx, "products added", "units", len(products))
	return nil
}

// UpdateCatalogue merges next into the catalogue. Entries for products still
// in stock are kept.
func (m *Machine) UpdateCatalogue(ctx context.Context, next stock.Catalogue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	const op = "update_catalogue"
	from := m.fsm.Current()
	if _, err := m.fsm.Fire(ctx, EventUpdateCatalogue, next); err != nil {
		return m.fail(op, from, EventUpdateCatalogue, err)
	}

	m.record(ctx, journal.NewEntry(journal.KindCatalogueUpdate))
	m.logger.InfoContext(ctx, "catalogue updated", "entries", len(next))
	return nil
}
