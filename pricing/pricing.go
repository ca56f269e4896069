// Package pricing derives order totals from frozen line-item prices and the
// store's policy constants. It is pure: no I/O, no state.
package pricing

import "math"

type Line struct {
	UnitPrice float64
	Quantity  int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type Calculator struct {
	shippingFee float64
	taxRate     float64
}

func NewCalculator(shippingFee, taxRate float64) Calculator {
	return Calculator{shippingFee: shippingFee, taxRate: taxRate}
}

// ComputeTotals sums unit price x quantity, applies the flat shipping fee
// and the tax rate, rounding each monetary figure to the currency minor
// unit.
func (c Calculator) ComputeTotals(lines []Line) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	subtotal = round(subtotal)
	tax := round(subtotal * c.taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: c.shippingFee,
		Tax:      tax,
		Total:    round(subtotal + c.shippingFee + tax),
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
