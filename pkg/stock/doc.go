// Package stock tracks the products a machine can sell and the physical units
// it currently holds.
//
// A Stock pairs a catalogue (product id to name and price) with per-id unit
// counts. Units are interchangeable, so only counts are kept. Every unit's id
// must exist in the catalogue; the invariant is checked on construction, on
// Add and when the catalogue is updated.
//
// Reads and Take are available at any time. Add and UpdateCatalogue require
// an active maintenance.Session.
//
//	st, err := stock.New(stock.Catalogue{
//	    1: {Name: "Soda", Price: 210},
//	}, []stock.Product{{ID: 1}})
//	if err != nil {
//	    return err
//	}
//	p, err := st.Take(1)
package stock
