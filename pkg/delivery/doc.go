// Package delivery provides implementations of the hardware that hands
// products and coins to the customer.
//
// Log writes every hand-over to a structured logger, Tray collects them in
// memory until the customer picks them up, and Multi fans out to several
// targets. All implementations satisfy vending.Delivery.
package delivery
