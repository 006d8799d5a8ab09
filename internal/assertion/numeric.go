package assertion

import "github.com/shopspring/decimal"

// Number covers every built-in integer and float width
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Range fails when value is outside [min, max]
func Range[T Number](value, min, max T, message string) error {
	if value < min || value > max {
		return fail(message)
	}
	return nil
}

// LessThan fails when value < min
func LessThan[T Number](value, min T, message string) error {
	if value < min {
		return fail(message)
	}
	return nil
}

// GreaterThan fails when value > max
func GreaterThan[T Number](value, max T, message string) error {
	if value > max {
		return fail(message)
	}
	return nil
}

// LessThanOrEqual fails when value <= min
func LessThanOrEqual[T Number](value, min T, message string) error {
	if value <= min {
		return fail(message)
	}
	return nil
}

// GreaterThanOrEqual fails when value >= max
func GreaterThanOrEqual[T Number](value, max T, message string) error {
	if value >= max {
		return fail(message)
	}
	return nil
}

// DecimalRange fails when value is outside [min, max]
func DecimalRange(value, min, max decimal.Decimal, message string) error {
	if value.LessThan(min) || value.GreaterThan(max) {
		return fail(message)
	}
	return nil
}

// DecimalLessThan fails when value < min
func DecimalLessThan(value, min decimal.Decimal, message string) error {
	if value.LessThan(min) {
		return fail(message)
	}
	return nil
}

// DecimalGreaterThan fails when value > max
func DecimalGreaterThan(value, max decimal.Decimal, message string) error {
	if value.GreaterThan(max) {
		return fail(message)
	}
	return nil
}

// DecimalLessThanOrEqual fails when value <= min
func DecimalLessThanOrEqual(value, min decimal.Decimal, message string) error {
	if value.LessThanOrEqual(min) {
		return fail(message)
	}
	return nil
}

// DecimalGreaterThanOrEqual fails when value >= max
func DecimalGreaterThanOrEqual(value, max decimal.Decimal, message string) error {
	if value.GreaterThanOrEqual(max) {
		return fail(message)
	}
	return nil
}

// DecimalPlaces fails when value carries more than places significant fractional digits.
// Trailing zeros do not count, so 1.500 passes with places = 2.
func DecimalPlaces(value decimal.Decimal, places int32, message string) error {
	if !value.Equal(value.Round(places)) {
		return fail(message)
	}
	return nil
}
