package algo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMean tests the arithmetic mean calculation.
func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "empty slice",
			values:   []float64{},
			expected: 0,
		},
		{
			name:     "single value",
			values:   []float64{5},
			expected: 5,
		},
		{
			name:     "two sprints",
			values:   []float64{18, 20},
			expected: 19,
		},
		{
			name:     "negative and positive",
			values:   []float64{-2, 2},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Mean(tt.values), 1e-12)
		})
	}
}

// TestStdDev tests the sample standard deviation (ddof=1).
func TestStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "fewer than two samples",
			values:   []float64{7},
			expected: 0,
		},
		{
			name:     "constant series",
			values:   []float64{4, 4, 4, 4},
			expected: 0,
		},
		{
			name:     "known spread",
			values:   []float64{2, 4, 4, 4, 5, 5, 7, 9},
			expected: math.Sqrt(32.0 / 7.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, StdDev(tt.values), 1e-9)
		})
	}
}

// TestCoV tests the undefined policy for the coefficient of variation.
func TestCoV(t *testing.T) {
	t.Run("undefined on single sample", func(t *testing.T) {
		assert.Nil(t, CoV([]float64{10}))
	})

	t.Run("undefined on zero mean", func(t *testing.T) {
		assert.Nil(t, CoV([]float64{0, 0, 0}))
		assert.Nil(t, CoV([]float64{-3, 3}))
	})

	t.Run("defined on varying series", func(t *testing.T) {
		cv := CoV([]float64{18, 20})
		require.NotNil(t, cv)
		// mean 19, sample stddev sqrt(2)
		assert.InDelta(t, math.Sqrt2/19.0, *cv, 1e-9)
	})

	t.Run("zero on constant nonzero series", func(t *testing.T) {
		cv := CoV([]float64{5, 5, 5})
		require.NotNil(t, cv)
		assert.Zero(t, *cv)
	})
}

// TestPercentile tests linear-interpolation percentiles.
func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{name: "minimum", p: 0, expected: 1},
		{name: "maximum", p: 100, expected: 4},
		{name: "median interpolates", p: 50, expected: 2.5},
		{name: "p25", p: 25, expected: 1.75},
		{name: "p85", p: 85, expected: 3.55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Percentile(values, tt.p), 1e-9)
		})
	}

	t.Run("single element", func(t *testing.T) {
		assert.Equal(t, 7.0, Percentile([]float64{7}, 95))
	})

	t.Run("input not mutated", func(t *testing.T) {
		unsorted := []float64{9, 1, 5}
		_ = Percentile(unsorted, 50)
		assert.Equal(t, []float64{9, 1, 5}, unsorted)
	})

	t.Run("panics on empty", func(t *testing.T) {
		assert.Panics(t, func() { Percentile(nil, 50) })
	})
}

// TestTrendSlope tests the mean-first-difference trend signal.
func TestTrendSlope(t *testing.T) {
	assert.Zero(t, TrendSlope([]float64{10}))
	assert.InDelta(t, 2.0, TrendSlope([]float64{10, 12, 14}), 1e-12)
	assert.InDelta(t, -1.5, TrendSlope([]float64{13, 11.5, 10}), 1e-12)
	assert.Zero(t, TrendSlope([]float64{5, 5, 5}))
}

// TestTail tests trailing-window extraction.
func TestTail(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, []float64{4, 5}, Tail(values, 2))
	assert.Equal(t, values, Tail(values, 5))
	assert.Equal(t, values, Tail(values, 1000))
}

// FuzzPercentile fuzzes the percentile calculation with random sample triples.
func FuzzPercentile(f *testing.F) {
	seeds := []struct {
		a, b, c float64
		p       float64
	}{
		{1, 2, 3, 50},
		{10, 10, 10, 90},
		{-5, 0, 5, 10},
		{0.1, 0.2, 0.3, 85},
	}
	for _, seed := range seeds {
		f.Add(seed.a, seed.b, seed.c, seed.p)
	}

	f.Fuzz(func(t *testing.T, a, b, c, p float64) {
		if math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(c) || math.IsNaN(p) {
			t.Skip()
		}
		values := []float64{a, b, c}
		got := Percentile(values, p)

		lo := math.Min(a, math.Min(b, c))
		hi := math.Max(a, math.Max(b, c))
		if p >= 0 && p <= 100 && (got < lo || got > hi) {
			t.Errorf("Percentile(%v, %v) = %v, outside sample range [%v, %v]", values, p, got, lo, hi)
		}
	})
}

// FuzzCoV fuzzes the coefficient-of-variation calculation.
func FuzzCoV(f *testing.F) {
	seeds := []struct{ a, b, c float64 }{
		{20, 22, 24},
		{0, 0, 0},
		{-1, 1, 0},
		{5, 5, 5},
	}
	for _, seed := range seeds {
		f.Add(seed.a, seed.b, seed.c)
	}

	f.Fuzz(func(t *testing.T, a, b, c float64) {
		values := []float64{a, b, c}
		cv := CoV(values)
		if cv == nil {
			return
		}
		// A non-negative sample set has a non-negative mean, so its CoV
		// carries the sign of the (non-negative) standard deviation.
		if a >= 0 && b >= 0 && c >= 0 && !math.IsNaN(*cv) && !math.IsInf(*cv, 0) && *cv < 0 {
			t.Errorf("CoV(%v) = %v, negative for non-negative samples", values, *cv)
		}
	})
}
