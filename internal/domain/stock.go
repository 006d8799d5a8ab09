package domain

import (
	"math"
	"strconv"
)

// Stock is the stock quantity of a product. A product either tracks a non-negative
// count or does not track stock at all.
type Stock struct {
	tracked bool
	count   int
}

// MaxStockQuantity is the largest count a product can hold. It matches the INTEGER
// stock_quantity column.
const MaxStockQuantity = math.MaxInt32

// StockUnits returns |quantity| and whether that many units is a representable stock
// amount. Quantities beyond MaxStockQuantity in either direction are not.
func StockUnits(quantity int) (int, bool) {
	if quantity < -MaxStockQuantity || quantity > MaxStockQuantity {
		return 0, false
	}
	if quantity < 0 {
		return -quantity, true
	}
	return quantity, true
}

// TrackedStock returns a stock value holding count units
func TrackedStock(count int) Stock {
	return Stock{tracked: true, count: count}
}

// UntrackedStock returns the "stock not tracked" value
func UntrackedStock() Stock {
	return Stock{}
}

// Quantity returns the tracked count and whether stock is tracked at all
func (s Stock) Quantity() (int, bool) {
	return s.count, s.tracked
}

// IsTracked reports whether the product tracks stock
func (s Stock) IsTracked() bool {
	return s.tracked
}

// Covers reports whether at least quantity units are available. Untracked stock never
// covers anything.
func (s Stock) Covers(quantity int) bool {
	if !s.tracked {
		return false
	}
	return s.count >= quantity
}

func (s Stock) String() string {
	if !s.tracked {
		return "untracked"
	}
	return strconv.Itoa(s.count)
}
