// Package algo has the statistical primitives shared by the KPI and
// forecast engines.
package algo

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation (ddof=1) of values.
// It returns 0 when fewer than two samples are present; callers that need to
// distinguish that case should use CoV, which reports undefined explicitly.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// CoV returns the coefficient of variation (stddev/mean) of values, or nil
// when it is undefined: fewer than two samples, or a mean of zero. Undefined
// is deliberately not zero, since zero would imply perfect stability on no
// activity.
func CoV(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	m := Mean(values)
	if m == 0 {
		return nil
	}
	cv := StdDev(values) / m
	return &cv
}

// Percentile returns the p-th percentile of values (p in [0,100]) using
// linear interpolation between closest ranks. The input slice is not
// modified. It panics on an empty slice; callers own the empty-pool policy.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		panic("algo: percentile of empty slice")
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Median returns the 50th percentile of values.
func Median(values []float64) float64 {
	return Percentile(values, 50)
}

// TrendSlope returns the mean first difference of values, a cheap signal of
// whether a series is trending up or down. It returns 0 for fewer than two
// samples.
func TrendSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	diffs := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs = append(diffs, values[i]-values[i-1])
	}
	return Mean(diffs)
}

// Tail returns the trailing n elements of values, or all of them when the
// series is shorter than n.
func Tail(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
