// Package pnl computes realized profit and loss for a journaled trade.
package pnl

import (
	"math"
	"strconv"

	"futures-review/internal/models"
)

// Places is the number of decimals each price leg is rounded to.
const Places = 2

// Round rounds v to the given number of decimal places. The exact binary
// value of v is rounded, with ties going to the even digit, so 2.675 (stored
// as 2.67499...) rounds down to 2.67.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Compute returns the net cash flow of a trade: exit proceeds minus entry
// and addition costs. Each leg is rounded before summation; the result is
// not rounded. Absent legs are zero and contribute nothing.
func Compute(open, add, add1, reduce, reduce1, close float64) float64 {
	return Round(reduce, Places) + Round(reduce1, Places) + Round(close, Places) -
		Round(open, Places) - Round(add, Places) - Round(add1, Places)
}

// ComputeInput applies Compute to the price legs of a trade input.
func ComputeInput(in models.TradeInput) float64 {
	return Compute(in.OpenPrice, in.AddPrice, in.AddPrice1, in.ReducePrice, in.ReducePrice1, in.ClosePrice)
}
