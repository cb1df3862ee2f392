package stock

import "errors"

var (
	ErrUnknownProduct = errors.New("stock: product is not in the catalogue")
	ErrOutOfStock     = errors.New("stock: product is out of stock")
	ErrInvalidPrice   = errors.New("stock: price must be positive")
)
