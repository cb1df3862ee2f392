// Package maintenance provides the session marker that authorizes inventory
// reloads.
//
// A Session is opened by the transaction controller when the machine enters
// maintenance mode and closed when it leaves it. Stock and cash inventories
// accept reload operations only when handed an active session, which keeps
// maintenance mutually exclusive with customer transactions without the
// inventories knowing anything about the controller's state graph.
//
// # Usage
//
//	s := maintenance.Begin()
//	defer s.End()
//
//	if err := inventory.Reload(s, cash.Coins{50: 10}); err != nil {
//	    // handle error
//	}
//
// A nil or ended session is rejected with ErrNotInMaintenance.
package maintenance
