// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZTest_IdenticalProportions(t *testing.T) {
	t.Parallel()

	res := ZTest(50, 100, 50, 100)
	assert.Equal(t, 0.0, res.Statistic)
	assert.InDelta(t, 1.0, res.PValue, 1e-6)
	assert.False(t, res.Significant)
}

func TestZTest_DegenerateInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		sA, nA, sB, nB int
	}{
		{"zero control total", 0, 0, 5, 10},
		{"zero treatment total", 5, 10, 0, 0},
		{"no successes anywhere", 0, 100, 0, 100},
		{"all successes everywhere", 100, 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ZTest(tt.sA, tt.nA, tt.sB, tt.nB)
			assert.Equal(t, TestResult{Statistic: 0, PValue: 1, Significant: false}, res)
		})
	}
}

func TestZTest_KnownValue(t *testing.T) {
	t.Parallel()

	// 10% vs 15% over 1000 each.
	res := ZTest(100, 1000, 150, 1000)
	pooled := 250.0 / 2000
	se := math.Sqrt(pooled * (1 - pooled) * (2.0 / 1000))
	assert.InDelta(t, 0.05/se, res.Statistic, 1e-9)
	assert.InDelta(t, 0.000723, res.PValue, 1e-5)
	assert.True(t, res.Significant)

	// Direction follows treatment minus control.
	rev := ZTest(150, 1000, 100, 1000)
	assert.InDelta(t, -res.Statistic, rev.Statistic, 1e-12)
	assert.InDelta(t, res.PValue, rev.PValue, 1e-12)
}

func TestZTest_SmallDifferenceNotSignificant(t *testing.T) {
	t.Parallel()

	res := ZTest(10, 100, 12, 100)
	assert.False(t, res.Significant)
	assert.Greater(t, res.PValue, SignificanceLevel)
}

func TestTTest(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, 1.0, TTest(nil, []float64{1, 2}).PValue)
		assert.Equal(t, 1.0, TTest([]float64{1, 2}, nil).PValue)
	})

	t.Run("single samples have no variance", func(t *testing.T) {
		res := TTest([]float64{3}, []float64{5})
		assert.False(t, math.IsNaN(res.Statistic))
		assert.Equal(t, 1.0, res.PValue)
	})

	t.Run("identical constant samples", func(t *testing.T) {
		res := TTest([]float64{2, 2, 2}, []float64{2, 2, 2})
		assert.Equal(t, TestResult{Statistic: 0, PValue: 1}, res)
	})

	t.Run("clearly separated means", func(t *testing.T) {
		control := []float64{10, 11, 9, 10, 12, 8, 10, 11, 9, 10}
		treatment := []float64{20, 21, 19, 20, 22, 18, 20, 21, 19, 20}
		res := TTest(control, treatment)
		assert.Greater(t, res.Statistic, 0.0)
		assert.True(t, res.Significant)
		assert.Less(t, res.PValue, 0.001)
	})

	t.Run("pooled variance", func(t *testing.T) {
		control := []float64{1, 2, 3}
		treatment := []float64{2, 3, 4, 5}
		// var(control)=1, var(treatment)=5/3, pooled=(2*1+3*5/3)/5=7/5
		se := math.Sqrt(7.0 / 5 * (1.0/3 + 1.0/4))
		res := TTest(control, treatment)
		assert.InDelta(t, (3.5-2)/se, res.Statistic, 1e-12)
	})
}

func TestConfidenceInterval(t *testing.T) {
	t.Parallel()

	ci := ConfidenceInterval(0.5, 100, 0.95)
	assert.InDelta(t, 0.5-1.96*0.05, ci[0], 1e-12)
	assert.InDelta(t, 0.5+1.96*0.05, ci[1], 1e-12)
	assert.GreaterOrEqual(t, ci[0], 0.0)
	assert.LessOrEqual(t, ci[1], 1.0)

	wide := ConfidenceInterval(0.5, 100, 0.99)
	assert.InDelta(t, 0.5-2.576*0.05, wide[0], 1e-12)

	// Any other level uses the 99% critical value.
	assert.Equal(t, wide, ConfidenceInterval(0.5, 100, 0.9))

	assert.Equal(t, [2]float64{0.3, 0.3}, ConfidenceInterval(0.3, 0, 0.95))

	clipped := ConfidenceInterval(0.02, 10, 0.95)
	assert.Equal(t, 0.0, clipped[0])
	clippedHigh := ConfidenceInterval(0.98, 10, 0.95)
	assert.Equal(t, 1.0, clippedHigh[1])
}

func TestNormalCDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1.96, 0.975},
		{-1.96, 0.025},
		{1, 0.8413447},
		{3, 0.9986501},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalCDF(tt.x), 1e-4, "NormalCDF(%v)", tt.x)
	}
}

func TestErf(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{-3, -1.5, -0.5, 0, 0.25, 0.5, 1, 2, 4} {
		require.InDelta(t, math.Erf(x), Erf(x), 2e-7, "Erf(%v)", x)
	}
	assert.InDelta(t, -Erf(0.7), Erf(-0.7), 1e-15)
}

func TestTwoSidedPValue(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.05, TwoSidedPValue(1.96), 1e-3)
	assert.InDelta(t, TwoSidedPValue(2.2), TwoSidedPValue(-2.2), 1e-15)
	assert.InDelta(t, 1.0, TwoSidedPValue(0), 1e-6)
}
