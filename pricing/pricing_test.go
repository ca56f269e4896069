package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	calc := NewCalculator(3000, 0.1)

	totals := calc.ComputeTotals([]Line{
		{UnitPrice: 100, Quantity: 2},
		{UnitPrice: 50, Quantity: 1},
	})

	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 3000.0, totals.Shipping)
	assert.Equal(t, 25.0, totals.Tax)
	assert.Equal(t, 3275.0, totals.Total)
}

func TestComputeTotals_Rounding(t *testing.T) {
	calc := NewCalculator(0, 0.1)

	totals := calc.ComputeTotals([]Line{
		{UnitPrice: 33.33, Quantity: 3},
	})

	assert.Equal(t, 99.99, totals.Subtotal)
	assert.Equal(t, 10.0, totals.Tax) // 9.999 rounds up
	assert.Equal(t, 109.99, totals.Total)
}

func TestComputeTotals_Empty(t *testing.T) {
	calc := NewCalculator(3000, 0.1)

	totals := calc.ComputeTotals(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.Tax)
	assert.Equal(t, 3000.0, totals.Total)
}
