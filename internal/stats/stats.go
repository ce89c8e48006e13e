// Package stats holds the numeric primitives shared by the SLI calculator
// and the metrics analyzer, so both report identical percentile and baseline
// figures for the same input.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation, or 0 for fewer than two
// samples.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// Percentile returns the p-th percentile (0-100) using the nearest-rank
// method: the value at rank ceil(p/100*n) of the sorted samples. No
// interpolation. Returns NaN for an empty slice.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// Quartiles returns Q1 and Q3 (nearest-rank p25/p75).
func Quartiles(values []float64) (q1, q3 float64) {
	return Percentile(values, 25), Percentile(values, 75)
}

// Pearson returns the correlation coefficient of two equal-length slices.
// Returns NaN when either slice has zero variance; callers report that as
// undefined rather than as an error.
func Pearson(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	meanA, meanB := Mean(a), Mean(b)
	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varA*varB)
}

// LinearRegression fits value against sample index (0..n-1) and returns the
// slope, intercept and correlation coefficient r. r is 0 when the values
// have zero variance.
func LinearRegression(values []float64) (slope, intercept, r float64) {
	n := len(values)
	if n < 2 {
		return 0, Mean(values), 0
	}
	meanX := float64(n-1) / 2
	meanY := Mean(values)
	var cov, varX, varY float64
	for i, v := range values {
		dx := float64(i) - meanX
		dy := v - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	slope = cov / varX
	intercept = meanY - slope*meanX
	if varY == 0 {
		return slope, intercept, 0
	}
	r = cov / math.Sqrt(varX*varY)
	return slope, intercept, r
}

// Autocorrelation returns the autocorrelation of values at the given lag,
// or 0 when the lag is out of range or the values have zero variance.
func Autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}
	mean := Mean(values)
	var num, den float64
	for i := 0; i < n; i++ {
		d := values[i] - mean
		den += d * d
	}
	if den == 0 {
		return 0
	}
	for i := 0; i < n-lag; i++ {
		num += (values[i] - mean) * (values[i+lag] - mean)
	}
	return num / den
}
