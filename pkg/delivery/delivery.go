package delivery

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/logger"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

// Target receives products and coins.
type Target interface {
	Dispatch(ctx context.Context, p stock.Product)
	ReturnCoins(ctx context.Context, coins cash.Coins)
}

// Log reports hand-overs through slog.
type Log struct {
	logger *slog.Logger
}

func NewLog(l *slog.Logger) *Log {
	if l == nil {
		l = logger.Discard()
	}
	return &Log{logger: l.With(logger.Component("delivery"))}
}

func (d *Log) Dispatch(ctx context.Context, p stock.Product) {
	d.logger.InfoContext(ctx, "product dispatched", logger.ProductID(int(p.ID)))
}

func (d *Log) ReturnCoins(ctx context.Context, coins cash.Coins) {
	d.logger.InfoContext(ctx, "coins returned",
		logger.Coins(coins),
		logger.Amount(coins.Total()),
	)
}

// Contents is what sits in the tray.
type Contents struct {
	Products []stock.Product `json:"products"`
	Coins    cash.Coins      `json:"coins"`
}

// Empty reports whether there is nothing to collect.
func (c Contents) Empty() bool {
	return len(c.Products) == 0 && c.Coins.Count() == 0
}

// Tray accumulates hand-overs until collected. Safe for concurrent use.
type Tray struct {
	mu       sync.Mutex
	products []stock.Product
	coins    cash.Coins
}

func NewTray() *Tray {
	return &Tray{coins: cash.Coins{}}
}

func (t *Tray) Dispatch(_ context.Context, p stock.Product) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.products = append(t.products, p)
}

func (t *Tray) ReturnCoins(_ context.Context, coins cash.Coins) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.coins = t.coins.Add(coins)
}

// Peek returns the tray contents without emptying it.
func (t *Tray) Peek() Contents {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Contents{
		Products: slices.Clone(t.products),
		Coins:    t.coins.Clone(),
	}
}

// Collect empties the tray and returns what was in it.
func (t *Tray) Collect() Contents {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := Contents{Products: t.products, Coins: t.coins.Compact()}
	t.products = nil
	t.coins = cash.Coins{}
	return c
}

// Multi forwards every hand-over to each target in order.
type Multi []Target

func NewMulti(targets ...Target) Multi {
	out := make(Multi, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (m Multi) Dispatch(ctx context.Context, p stock.Product) {
	for _, t := range m {
		t.Dispatch(ctx, p)
	}
}

func (m Multi) ReturnCoins(ctx context.Context, coins cash.Coins) {
	for _, t := range m {
		t.ReturnCoins(ctx, coins.Clone())
	}
}
