// Package cash models the machine's money: the fixed denomination set, the
// denominated cash inventory and the change engine.
//
// All amounts are integers in minor units (pence). The legal denominations are
// 1, 2, 5, 10, 20, 50, 100 and 200; anything else is rejected with
// ErrInvalidDenomination.
//
// # Inventory
//
// Inventory is a mutex-guarded mapping from denomination to count. Deposit
// accepts a single inserted coin, Withdraw removes a multiset all-or-nothing
// and Reload adds a supply during an active maintenance session:
//
//	inv, err := cash.NewInventory(cash.Coins{100: 5, 10: 3})
//	if err != nil {
//	    return err
//	}
//	_ = inv.Deposit(cash.Denomination(200))
//
// # Change
//
// ComputeChange walks the denominations from the largest face value down and
// takes as many coins of each as are available and fit in the remaining owed
// amount. If the walk ends with a remainder the call reports
// ErrExactChangeUnavailable together with the partial result, whose value is
// always strictly below the owed amount. The engine never returns more than
// is owed.
//
//	ch, err := inv.ComputeChange(50)
//	if errors.Is(err, cash.ErrExactChangeUnavailable) {
//	    // ch.Coins is the best the machine can do, ch.Shortfall is what is missing
//	}
package cash
