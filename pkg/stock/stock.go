package stock

import (
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/vendingkit/pkg/maintenance"
)

// Stock holds the catalogue and the units available for sale.
// All methods are safe for concurrent use.
type Stock struct {
	mu        sync.Mutex
	catalogue Catalogue
	units     map[ProductID]int
	logger    *slog.Logger
}

// Option configures a Stock.
type Option func(*Stock)

// WithLogger sets the logger used to report stock changes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stock) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Stock from a catalogue and the initial units.
func New(catalogue Catalogue, units []Product, opts ...Option) (*Stock, error) {
	if err := catalogue.Validate(); err != nil {
		return nil, err
	}

	s := &Stock{
		catalogue: catalogue.Clone(),
		units:     make(map[ProductID]int),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if s.catalogue == nil {
		s.catalogue = make(Catalogue)
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.checkCatalogued(units); err != nil {
		return nil, err
	}
	for _, p := range units {
		s.units[p.ID]++
	}
	return s, nil
}

// IsAvailable reports whether at least one unit of id can be sold.
func (s *Stock) IsAvailable(id ProductID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogue[id]; !ok {
		return false, &ProductError{ID: id, Err: ErrUnknownProduct}
	}
	return s.units[id] > 0, nil
}

// Info returns the catalogue entry for id.
func (s *Stock) Info(id ProductID) (ProductInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.catalogue[id]
	if !ok {
		return ProductInfo{}, &ProductError{ID: id, Err: ErrUnknownProduct}
	}
	return info, nil
}

// PriceOf returns the price of id in minor units.
func (s *Stock) PriceOf(id ProductID) (int, error) {
	info, err := s.Info(id)
	if err != nil {
		return 0, err
	}
	return info.Price, nil
}

// Take removes one unit of id and returns it.
func (s *Stock) Take(id ProductID) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogue[id]; !ok {
		return Product{}, &ProductError{ID: id, Err: ErrUnknownProduct}
	}
	if s.units[id] == 0 {
		return Product{}, &ProductError{ID: id, Err: ErrOutOfStock}
	}
	s.units[id]--
	return Product{ID: id}, nil
}

// Restore puts back a unit obtained from Take whose sale could not complete.
func (s *Stock) Restore(p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalogue[p.ID]; !ok {
		return &ProductError{ID: p.ID, Err: ErrUnknownProduct}
	}
	s.units[p.ID]++
	return nil
}

// Add loads units into the machine. Every id must be catalogued; if one is
// not, nothing is added.
func (s *Stock) Add(session *maintenance.Session, products ...Product) error {
	if err := maintenance.Require(session); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCatalogued(products); err != nil {
		return err
	}
	for _, p := range products {
		s.units[p.ID]++
	}
	s.logger.Debug("stock loaded", slog.Int("units", len(products)))
	return nil
}

// UpdateCatalogue merges next into the catalogue. Entries in next win; ids
// missing from next keep their previous entry while units remain in stock,
// otherwise they are dropped.
func (s *Stock) UpdateCatalogue(session *maintenance.Session, next Catalogue) error {
	if err := maintenance.Require(session); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(Catalogue, len(next))
	for id, info := range s.catalogue {
		if s.units[id] > 0 {
			merged[id] = info
		}
	}
	for id, info := range next {
		merged[id] = info
	}
	s.catalogue = merged
	s.logger.Debug("catalogue updated", slog.Int("entries", len(merged)))
	return nil
}

// Offer returns the catalogue entries with at least one unit in stock.
func (s *Stock) Offer() Catalogue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Catalogue)
	for id, info := range s.catalogue {
		if s.units[id] > 0 {
			out[id] = info
		}
	}
	return out
}

// Catalogue returns a copy of the full catalogue.
func (s *Stock) Catalogue() Catalogue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogue.Clone()
}

// Count returns the number of units of id.
func (s *Stock) Count(id ProductID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[id]
}

// Levels returns the unit count of every catalogued product.
func (s *Stock) Levels() map[ProductID]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[ProductID]int, len(s.catalogue))
	for id := range s.catalogue {
		out[id] = s.units[id]
	}
	return out
}

// checkCatalogued must be called with mu held or before s is shared.
func (s *Stock) checkCatalogued(products []Product) error {
	for _, p := range products {
		if _, ok := s.catalogue[p.ID]; !ok {
			return &ProductError{ID: p.ID, Err: ErrUnknownProduct}
		}
	}
	return nil
}
