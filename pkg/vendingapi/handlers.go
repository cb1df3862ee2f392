package vendingapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/journal"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

const (
	maxBodyBytes = 1 << 20
	// maxRestockUnits bounds the units a single restock request may load.
	maxRestockUnits = 10_000
)

type selectRequest struct {
	ProductID stock.ProductID `json:"product_id"`
}

type insertRequest struct {
	Value int `json:"value"`
}

type productsRequest struct {
	Products []struct {
		ID    stock.ProductID `json:"id"`
		Units int             `json:"units"`
	} `json:"products"`
}

type cashRequest struct {
	Coins cash.Coins `json:"coins"`
}

type catalogueRequest struct {
	Catalogue []struct {
		ID    stock.ProductID `json:"id"`
		Name  string          `json:"name"`
		Price int             `json:"price"`
	} `json:"catalogue"`
}

type inventoryResponse struct {
	Coins      cash.Coins              `json:"coins"`
	CoinsValue int                     `json:"coins_value"`
	Stock      map[stock.ProductID]int `json:"stock"`
	Catalogue  stock.Catalogue         `json:"catalogue"`
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest(err)
	}
	return nil
}

func (a *API) state(w http.ResponseWriter, r *http.Request) {
	a.ok(w, a.machine.Status(r.Context()))
}

func (a *API) offer(w http.ResponseWriter, _ *http.Request) {
	a.ok(w, a.machine.Offer())
}

func (a *API) inventory(w http.ResponseWriter, _ *http.Request) {
	coins := a.machine.CashSnapshot()
	a.ok(w, inventoryResponse{
		Coins:      coins,
		CoinsValue: coins.Total(),
		Stock:      a.machine.StockLevels(),
		Catalogue:  a.machine.Catalogue(),
	})
}

func (a *API) start(w http.ResponseWriter, r *http.Request) {
	id, err := a.machine.Start(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.created(w, map[string]any{"transaction_id": id})
}

func (a *API) selectProduct(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.machine.Select(r.Context(), req.ProductID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.Status(r.Context()))
}

func (a *API) insert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	balance, err := a.machine.Insert(r.Context(), req.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, map[string]any{
		"balance": balance,
		"state":   a.machine.State(),
	})
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := a.machine.Checkout(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, receipt)
}

func (a *API) accept(w http.ResponseWriter, r *http.Request) {
	receipt, err := a.machine.AcceptReducedChange(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, receipt)
}

func (a *API) cancel(w http.ResponseWriter, r *http.Request) {
	refund, err := a.machine.Cancel(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, refund)
}

func (a *API) startMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := a.machine.StartMaintenance(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.Status(r.Context()))
}

func (a *API) endMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := a.machine.EndMaintenance(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.Status(r.Context()))
}

func (a *API) addProducts(w http.ResponseWriter, r *http.Request) {
	var req productsRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	total := 0
	for _, p := range req.Products {
		if p.Units < 0 {
			a.fail(w, r, badRequest(fmt.Errorf("product %d: negative units", p.ID)))
			return
		}
		if p.Units > maxRestockUnits-total {
			a.fail(w, r, badRequest(fmt.Errorf("at most %d units per request", maxRestockUnits)))
			return
		}
		total += p.Units
	}
	units := make([]stock.Product, 0, total)
	for _, p := range req.Products {
		units = append(units, stock.Units(p.ID, p.Units)...)
	}
	if err := a.machine.AddProducts(r.Context(), units...); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.StockLevels())
}

func (a *API) reloadCash(w http.ResponseWriter, r *http.Request) {
	var req cashRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.machine.ReloadChange(r.Context(), req.Coins); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.CashSnapshot())
}

func (a *API) updateCatalogue(w http.ResponseWriter, r *http.Request) {
	var req catalogueRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	next := make(stock.Catalogue, len(req.Catalogue))
	for _, item := range req.Catalogue {
		if _, dup := next[item.ID]; dup {
			a.fail(w, r, badRequest(fmt.Errorf("duplicate product id %d", item.ID)))
			return
		}
		next[item.ID] = stock.ProductInfo{Name: item.Name, Price: item.Price}
	}
	if err := a.machine.UpdateCatalogue(r.Context(), next); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, a.machine.Catalogue())
}

func (a *API) listJournal(w http.ResponseWriter, r *http.Request) {
	if a.journal == nil {
		a.fail(w, r, ErrJournalDisabled)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	entries, err := a.journal.List(r.Context(), f)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Data: entries,
		Meta: map[string]any{"count": len(entries)},
	})
}

func parseFilter(r *http.Request) (journal.Filter, error) {
	q := r.URL.Query()
	f := journal.Filter{
		Kind:          journal.Kind(q.Get("kind")),
		TransactionID: q.Get("transaction_id"),
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, badRequest(fmt.Errorf("since: %w", err))
		}
		f.Since = since
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return f, badRequest(errors.New("limit must be a non-negative integer"))
		}
		f.Limit = limit
	}
	return f, nil
}
