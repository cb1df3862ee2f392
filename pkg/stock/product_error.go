package stock

import "fmt"

// ProductError binds a stock error to the product it concerns.
type ProductError struct {
	ID  ProductID
	Err error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("%v (product id=%d)", e.Err, e.ID)
}

func (e *ProductError) Unwrap() error {
	return e.Err
}
