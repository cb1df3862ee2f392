// Package seed loads the initial machine contents from a YAML snapshot.
//
//	catalogue:
//	  - {id: 1, name: Soda, price: 210, units: 2}
//	cash:
//	  100: 5
//	  10: 3
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/vendingkit/pkg/cash"
	"github.com/dmitrymomot/vendingkit/pkg/stock"
)

var (
	ErrReadFailed    = errors.New("seed: failed to read snapshot")
	ErrInvalidFormat = errors.New("seed: invalid snapshot format")
	ErrDuplicateID   = errors.New("seed: duplicate product id")
)

// Item is a catalogue entry together with its initial unit count.
type Item struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Price int    `yaml:"price"`
	Units int    `yaml:"units"`
}

// Snapshot is the parsed seed document.
type Snapshot struct {
	Catalogue []Item      `yaml:"catalogue"`
	Cash      map[int]int `yaml:"cash"`
}

// Parse decodes and validates a YAML snapshot.
func Parse(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidFormat, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Load reads and parses the snapshot at path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Join(ErrReadFailed, err)
	}
	return Parse(data)
}

// Validate checks ids, prices, unit counts and coin denominations.
func (s Snapshot) Validate() error {
	seen := make(map[int]struct{}, len(s.Catalogue))
	for _, it := range s.Catalogue {
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
		if it.Units < 0 {
			return fmt.Errorf("%w: product %d has negative units", ErrInvalidFormat, it.ID)
		}
	}
	if err := s.catalogue().Validate(); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}
	if _, err := s.coins(); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}
	return nil
}

func (s Snapshot) catalogue() stock.Catalogue {
	c := make(stock.Catalogue, len(s.Catalogue))
	for _, it := range s.Catalogue {
		c[stock.ProductID(it.ID)] = stock.ProductInfo{Name: it.Name, Price: it.Price}
	}
	return c
}

func (s Snapshot) units() []stock.Product {
	var out []stock.Product
	for _, it := range s.Catalogue {
		out = append(out, stock.Units(stock.ProductID(it.ID), it.Units)...)
	}
	return out
}

func (s Snapshot) coins() (cash.Coins, error) {
	out := make(cash.Coins, len(s.Cash))
	for v, n := range s.Cash {
		d, err := cash.Parse(v)
		if err != nil {
			return nil, err
		}
		out[d] = n
	}
	return out, out.Validate()
}

// Build creates the stock and the coin inventory described by the snapshot.
func (s Snapshot) Build(opts ...stock.Option) (*stock.Stock, *cash.Inventory, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	st, err := stock.New(s.catalogue(), s.units(), opts...)
	if err != nil {
		return nil, nil, err
	}
	coins, err := s.coins()
	if err != nil {
		return nil, nil, err
	}
	inv, err := cash.NewInventory(coins)
	if err != nil {
		return nil, nil, err
	}
	return st, inv, nil
}
