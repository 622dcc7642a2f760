package pnl

import (
	"math"
	"testing"

	"futures-review/internal/models"
	"github.com/stretchr/testify/assert"
)

// cashFlow sums already rounded legs in the order Compute does.
func cashFlow(reduce, reduce1, close, open, add, add1 float64) float64 {
	return reduce + reduce1 + close - open - add - add1
}

func TestRound(t *testing.T) {
	testCases := []struct {
		name     string
		in       float64
		expected float64
	}{
		{name: "Already two places", in: 68000.5, expected: 68000.5},
		{name: "Rounds down", in: 10.004, expected: 10.0},
		{name: "Rounds up", in: 10.006, expected: 10.01},
		{name: "Binary value below the tie", in: 2.675, expected: 2.67},
		{name: "Binary value below the tie again", in: 1.005, expected: 1.0},
		{name: "Exact tie goes to even (down)", in: 0.125, expected: 0.12},
		{name: "Exact tie goes to even (up)", in: 0.375, expected: 0.38},
		{name: "Negative", in: -3.456, expected: -3.46},
		{name: "Zero", in: 0, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Round(tc.in, 2))
		})
	}

	t.Run("Non-finite values pass through", func(t *testing.T) {
		assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
		assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
		assert.True(t, math.IsInf(Round(math.Inf(-1), 2), -1))
	})
}

func TestCompute(t *testing.T) {
	testCases := []struct {
		name                                    string
		open, add, add1, reduce, reduce1, close float64
		expected                                float64
	}{
		{
			name:     "Simple long close",
			open:     100, close: 110,
			expected: cashFlow(0, 0, 110, 100, 0, 0),
		},
		{
			name: "Additions and partial exits",
			open: 3500, add: 3520, add1: 3540,
			reduce: 3600, reduce1: 3650, close: 3700,
			expected: cashFlow(3600, 3650, 3700, 3500, 3520, 3540),
		},
		{
			name:     "Legs are rounded before summation",
			open:     100.004, close: 110.006,
			expected: cashFlow(0, 0, 110.01, 100.0, 0, 0),
		},
		{
			name:     "Loss",
			open:     68000.5, close: 67900.25,
			expected: cashFlow(0, 0, 67900.25, 68000.5, 0, 0),
		},
		{
			name:     "All legs missing",
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.open, tc.add, tc.add1, tc.reduce, tc.reduce1, tc.close)
			assert.Equal(t, tc.expected, got)
		})
	}

	t.Run("Rounding applies per leg, not to the result", func(t *testing.T) {
		// Unrounded the flow is 0.001; per-leg rounding makes it 0.01.
		got := Compute(0.004, 0.004, 0, 0, 0, 0.009)
		assert.Equal(t, cashFlow(0, 0, 0.01, 0, 0, 0), got)
		assert.NotEqual(t, Round(0.009-0.004-0.004, 2), got)
	})
}

func TestComputeInput(t *testing.T) {
	in := models.TradeInput{
		OpenPrice:    3500,
		AddPrice:     3520,
		ReducePrice:  3600,
		ReducePrice1: 3610,
		ClosePrice:   3700,
		Drawdown:     999, // not a price leg
	}
	assert.Equal(t, Compute(3500, 3520, 0, 3600, 3610, 3700), ComputeInput(in))
}
