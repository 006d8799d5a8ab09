package domain

import (
	"fmt"

	"catalog-stock/internal/assertion"

	"github.com/shopspring/decimal"
)

// Dimensions is an immutable value object describing the physical size of a product
type Dimensions struct {
	height decimal.Decimal
	width  decimal.Decimal
	depth  decimal.Decimal
}

// Measures are stored as NUMERIC(10,2)
const MeasurePlaces = 2

var maxMeasure = decimal.RequireFromString("99999999.99")

// NewDimensions validates that every measure is strictly positive and fits the stored
// precision, so a measure never changes between a write and the next read
func NewDimensions(height, width, depth decimal.Decimal) (Dimensions, error) {
	if err := checkMeasure(height, "Height"); err != nil {
		return Dimensions{}, err
	}
	if err := checkMeasure(width, "Width"); err != nil {
		return Dimensions{}, err
	}
	if err := checkMeasure(depth, "Depth"); err != nil {
		return Dimensions{}, err
	}
	return Dimensions{height: height, width: width, depth: depth}, nil
}

func checkMeasure(value decimal.Decimal, name string) error {
	return assertion.First(
		assertion.DecimalLessThanOrEqual(value, decimal.Zero, name+" must be greater than zero"),
		assertion.DecimalPlaces(value, MeasurePlaces, fmt.Sprintf("%s cannot have more than %d decimal places", name, MeasurePlaces)),
		assertion.DecimalGreaterThan(value, maxMeasure, name+" is too large"),
	)
}

func (d Dimensions) Height() decimal.Decimal { return d.height }
func (d Dimensions) Width() decimal.Decimal { return d.width }
func (d Dimensions) Depth() decimal.Decimal { return d.depth }

// Equal compares by value, so 1.0 and 1.00 are the same height
func (d Dimensions) Equal(other Dimensions) bool {
	return d.height.Equal(other.height) && d.width.Equal(other.width) && d.depth.Equal(other.depth)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%s x %s x %s", d.height, d.width, d.depth)
}
