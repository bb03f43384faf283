// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package stats

import (
	"math"
)

// SignificanceLevel is the two-sided alpha used by ZTest and TTest.
const SignificanceLevel = 0.05

// Critical values for ConfidenceInterval.
const (
	z95 = 1.96
	z99 = 2.576
)

// Abramowitz and Stegun formula 7.1.26 coefficients.
const (
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
	erfP  = 0.3275911
)

// TestResult is the outcome of a two-sample significance test.
type TestResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// insignificant is returned when a test has no usable data.
var insignificant = TestResult{Statistic: 0, PValue: 1, Significant: false}

// ZTest runs a two-proportion z-test with a pooled proportion.
// A zero total or zero standard error yields (0, 1, false).
func ZTest(successA, totalA, successB, totalB int) TestResult {
	if totalA <= 0 || totalB <= 0 {
		return insignificant
	}

	nA, nB := float64(totalA), float64(totalB)
	pA := float64(successA) / nA
	pB := float64(successB) / nB
	pooled := float64(successA+successB) / (nA + nB)

	se := math.Sqrt(pooled * (1 - pooled) * (1/nA + 1/nB))
	if se == 0 || math.IsNaN(se) {
		return insignificant
	}

	z := (pB - pA) / se
	return result(z)
}

// TTest compares two sample means using pooled variance.
//
// The p-value comes from the normal distribution rather than Student's t,
// so it is only a good approximation for large samples.
func TTest(control, treatment []float64) TestResult {
	nA, nB := len(control), len(treatment)
	if nA == 0 || nB == 0 {
		return insignificant
	}

	meanA, varA := meanVariance(control)
	meanB, varB := meanVariance(treatment)

	dof := float64(nA + nB - 2)
	if dof <= 0 {
		return insignificant
	}
	pooled := (float64(nA-1)*varA + float64(nB-1)*varB) / dof

	se := math.Sqrt(pooled * (1/float64(nA) + 1/float64(nB)))
	if se == 0 || math.IsNaN(se) {
		return insignificant
	}

	t := (meanB - meanA) / se
	return result(t)
}

// ConfidenceInterval returns the normal-approximation interval for a
// proportion p observed over n trials, clipped to [0, 1]. level 0.95 uses
// z = 1.96; every other level uses z = 2.576. n == 0 returns [p, p].
func ConfidenceInterval(p float64, n int, level float64) [2]float64 {
	if n <= 0 {
		return [2]float64{p, p}
	}

	z := z99
	if level == 0.95 {
		z = z95
	}

	margin := z * math.Sqrt(p*(1-p)/float64(n))
	return [2]float64{
		math.Max(0, p-margin),
		math.Min(1, p+margin),
	}
}

// NormalCDF returns the standard normal cumulative distribution at x.
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + Erf(x/math.Sqrt2))
}

// Erf approximates the error function with a maximum absolute error of 1.5e-7.
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
	}
	x = math.Abs(x)

	t := 1 / (1 + erfP*x)
	y := 1 - (((((erfA5*t+erfA4)*t)+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)
	return sign * y
}

// TwoSidedPValue returns 2(1 - Φ(|stat|)).
func TwoSidedPValue(stat float64) float64 {
	return 2 * (1 - NormalCDF(math.Abs(stat)))
}

func result(stat float64) TestResult {
	p := TwoSidedPValue(stat)
	return TestResult{
		Statistic:   stat,
		PValue:      p,
		Significant: p < SignificanceLevel,
	}
}

// meanVariance returns the mean and the n-1 sample variance. A single
// sample has zero variance.
func meanVariance(xs []float64) (mean, variance float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))

	if len(xs) < 2 {
		return mean, 0
	}
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, sq / float64(len(xs)-1)
}
