package stock

import (
	"maps"
	"slices"
	"strconv"
)

// ProductID identifies a catalogue entry.
type ProductID int

func (id ProductID) String() string {
	return strconv.Itoa(int(id))
}

// ProductInfo describes a product on sale. Price is in minor units.
type ProductInfo struct {
	Name  string `json:"name" yaml:"name"`
	Price int    `json:"price" yaml:"price"`
}

// Product is a single physical unit.
type Product struct {
	ID ProductID `json:"id"`
}

// Catalogue maps product ids to their descriptions.
type Catalogue map[ProductID]ProductInfo

// Clone returns a shallow copy of the catalogue.
func (c Catalogue) Clone() Catalogue {
	return maps.Clone(c)
}

// IDs returns the catalogued ids in ascending order.
func (c Catalogue) IDs() []ProductID {
	return slices.Sorted(maps.Keys(c))
}

// Validate rejects entries with a non-positive price.
func (c Catalogue) Validate() error {
	for id, info := range c {
		if info.Price <= 0 {
			return &ProductError{ID: id, Err: ErrInvalidPrice}
		}
	}
	return nil
}

// Units returns n units of id.
func Units(id ProductID, n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{ID: id}
	}
	return out
}
