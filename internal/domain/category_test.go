package domain

import (
	"testing"

	"catalog-stock/internal/assertion"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Feature: catalog-stock, Property 7: Category code must be positive
func TestProperty_CategoryCodeMustBePositive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("construction succeeds iff code > 0", prop.ForAll(
		func(code int) bool {
			c, err := NewCategory("Desserts", code)
			if code > 0 {
				return err == nil && c.Code() == code && c.ID != uuid.Nil
			}
			return c == nil && assertion.IsValidationError(err)
		},
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewCategoryRejectsEmptyName(t *testing.T) {
	c, err := NewCategory(" ", 3)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.Equal(t, "Category Name cannot be empty", err.Error())
}

func TestRehydrateCategory(t *testing.T) {
	id := uuid.New()
	c, err := RehydrateCategory(id, "Drinks", 2)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "Drinks [2]", c.String())

	_, err = RehydrateCategory(uuid.Nil, "Drinks", 2)
	assert.True(t, assertion.IsValidationError(err))
}

func TestDimensions(t *testing.T) {
	d, err := NewDimensions(decimal.NewFromInt(10), decimal.RequireFromString("20.5"), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, "10 x 20.5 x 3", d.String())

	same, err := NewDimensions(decimal.RequireFromString("10.00"), decimal.RequireFromString("20.50"), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, d.Equal(same))

	other, err := NewDimensions(decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.False(t, d.Equal(other))
}

func TestDimensionsMustFitStoredPrecision(t *testing.T) {
	one := decimal.NewFromInt(1)

	_, err := NewDimensions(decimal.RequireFromString("0.001"), one, one)
	require.Error(t, err)
	assert.Equal(t, "Height cannot have more than 2 decimal places", err.Error())

	_, err = NewDimensions(one, decimal.RequireFromString("2.345"), one)
	require.Error(t, err)
	assert.Equal(t, "Width cannot have more than 2 decimal places", err.Error())

	_, err = NewDimensions(one, one, decimal.RequireFromString("100000000"))
	require.Error(t, err)
	assert.Equal(t, "Depth is too large", err.Error())

	d, err := NewDimensions(decimal.RequireFromString("0.01"), decimal.RequireFromString("1.500"), one)
	require.NoError(t, err)
	assert.True(t, d.Height().Equal(decimal.RequireFromString("0.01")))
}

func TestDimensionsMustBeStrictlyPositive(t *testing.T) {
	one := decimal.NewFromInt(1)
	tests := []struct {
		name                 string
		height, width, depth decimal.Decimal
		message              string
	}{
		{"zero height", decimal.Zero, one, one, "Height must be greater than zero"},
		{"negative width", one, decimal.NewFromInt(-1), one, "Width must be greater than zero"},
		{"zero depth", one, one, decimal.Zero, "Depth must be greater than zero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDimensions(tt.height, tt.width, tt.depth)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestStockValues(t *testing.T) {
	u := UntrackedStock()
	_, tracked := u.Quantity()
	assert.False(t, tracked)
	assert.False(t, u.Covers(0))
	assert.Equal(t, "untracked", u.String())

	s := TrackedStock(0)
	assert.True(t, s.Covers(0))
	assert.False(t, s.Covers(1))
	assert.Equal(t, "0", s.String())
}

func TestProductStockLowEvent(t *testing.T) {
	id := uuid.New()
	e := NewProductStockLowEvent(id, 9)

	assert.Equal(t, id, e.AggregateID())
	assert.Equal(t, 9, e.QuantityLeft)
	assert.Equal(t, EventProductStockLow, e.EventName())
	assert.False(t, e.OccurredAt().IsZero())

	assert.True(t, IsLowStock(9))
	assert.False(t, IsLowStock(10))
}
