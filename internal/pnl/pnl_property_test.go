package pnl

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any six legs, Compute equals the cash flow of the legs each
// rounded to two places, and repeated calls give identical bits.
func TestProperty_ComputeMatchesRoundedFormula(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)
	priceGen := gen.Float64Range(0, 100000)

	properties.Property("compute rounds every leg before summing", prop.ForAll(
		func(open, add, add1, reduce, reduce1, close float64) bool {
			expected := cashFlow(
				Round(reduce, 2), Round(reduce1, 2), Round(close, 2),
				Round(open, 2), Round(add, 2), Round(add1, 2),
			)
			got := Compute(open, add, add1, reduce, reduce1, close)
			again := Compute(open, add, add1, reduce, reduce1, close)
			return got == expected && math.Float64bits(got) == math.Float64bits(again)
		},
		priceGen, priceGen, priceGen, priceGen, priceGen, priceGen,
	))

	properties.Property("rounding is idempotent", prop.ForAll(
		func(v float64) bool {
			r := Round(v, Places)
			return Round(r, Places) == r && math.Abs(r-v) <= 0.005+1e-9
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}
