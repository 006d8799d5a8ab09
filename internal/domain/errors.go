package domain

import "errors"

// ErrInsufficientStock is returned by ReduceStock when the product cannot cover the
// requested quantity
var ErrInsufficientStock = errors.New("stock quantity is not enough")

// ErrStockLimitExceeded is returned by IncreaseStock when the new count would pass
// MaxStockQuantity
var ErrStockLimitExceeded = errors.New("stock quantity limit exceeded")
