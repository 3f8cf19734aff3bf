package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldcast/domain/field"
)

func TestDescribe_KnownSeries(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	fs := Describe(data)

	assert.InDelta(t, 5.0, fs.Mean, 1e-9)
	assert.InDelta(t, 4.5, fs.Median, 1e-9)
	assert.InDelta(t, 2.0, fs.StdDev, 1e-9)
	assert.InDelta(t, 4.0, fs.Variance, 1e-9)
	assert.InDelta(t, 2.0, fs.Min, 1e-9)
	assert.InDelta(t, 9.0, fs.Max, 1e-9)

	// Sorted split-at-median quartiles: lower [2,4,4,4], upper [5,5,7,9].
	assert.InDelta(t, 4.0, fs.Quartiles.Q1, 1e-9)
	assert.InDelta(t, 4.5, fs.Quartiles.Q2, 1e-9)
	assert.InDelta(t, 6.0, fs.Quartiles.Q3, 1e-9)

	assert.InDelta(t, 0.8184, fs.Skewness, 1e-3)
	assert.InDelta(t, 0.9406, fs.Kurtosis, 1e-3)
	assert.Empty(t, fs.Outliers)
}

func TestDescribe_KurtosisKnownValues(t *testing.T) {
	// Reference sample-adjusted excess kurtosis: a short uniform ramp is
	// platykurtic, not leptokurtic.
	assert.InDelta(t, -1.2, Describe([]float64{1, 2, 3, 4, 5}).Kurtosis, 1e-9)

	revenue := []float64{100, 102, 99, 105, 108, 107, 111, 115, 113, 118, 120, 119}
	assert.InDelta(t, -1.3818, Describe(revenue).Kurtosis, 1e-4)
}

func TestDescribe_FiltersNonFinite(t *testing.T) {
	data := []float64{1, math.NaN(), 2, math.Inf(1), 3, math.Inf(-1)}

	fs := Describe(data)

	assert.InDelta(t, 2.0, fs.Mean, 1e-9)
	assert.InDelta(t, 1.0, fs.Min, 1e-9)
	assert.InDelta(t, 3.0, fs.Max, 1e-9)
}

func TestDescribe_EmptyAndSingle(t *testing.T) {
	for _, data := range [][]float64{nil, {}, {42}} {
		fs := Describe(data)
		assert.Equal(t, field.TrendStable, fs.Trend)
		assert.Zero(t, fs.StdDev)
		assert.Zero(t, fs.Skewness)
		assert.Zero(t, fs.Kurtosis)
		assert.NotNil(t, fs.Outliers)
	}
}

func TestDescribe_ConstantSeries(t *testing.T) {
	// Property: any constant series is stable with zero deviation.
	for _, c := range []float64{-7, 0, 3.25} {
		data := make([]float64, 20)
		for i := range data {
			data[i] = c
		}
		fs := Describe(data)
		assert.Equal(t, field.TrendStable, fs.Trend, "constant %v", c)
		assert.Zero(t, fs.StdDev, "constant %v", c)
	}
}

func TestDescribe_QuartileOrderingInvariant(t *testing.T) {
	// Property: min <= q1 <= median <= q3 <= max for any field with >= 4
	// valid points.
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 100; trial++ {
		n := 4 + rng.Intn(60)
		data := make([]float64, n)
		for i := range data {
			data[i] = rng.NormFloat64() * 50
		}

		fs := Describe(data)
		require.LessOrEqual(t, fs.Min, fs.Quartiles.Q1)
		require.LessOrEqual(t, fs.Quartiles.Q1, fs.Quartiles.Q2)
		require.LessOrEqual(t, fs.Quartiles.Q2, fs.Quartiles.Q3)
		require.LessOrEqual(t, fs.Quartiles.Q3, fs.Max)
	}
}

func TestDescribe_OutliersUseIQRFence(t *testing.T) {
	data := []float64{10, 11, 12, 11, 10, 12, 11, 10, 100}

	fs := Describe(data)

	require.Len(t, fs.Outliers, 1)
	assert.Equal(t, 100.0, fs.Outliers[0])
}

func TestGrowthRate(t *testing.T) {
	assert.InDelta(t, 100.0, GrowthRate([]float64{10, 15, 20}), 1e-9)
	assert.InDelta(t, -50.0, GrowthRate([]float64{10, 5}), 1e-9)
	assert.Zero(t, GrowthRate([]float64{0, 5}))
	assert.Zero(t, GrowthRate([]float64{7}))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.InDelta(t, 0.5, CoefficientOfVariation(5, 10), 1e-9)
	assert.InDelta(t, 0.5, CoefficientOfVariation(5, -10), 1e-9)
	assert.Zero(t, CoefficientOfVariation(5, 0))
}

func TestSanitize(t *testing.T) {
	assert.Zero(t, Sanitize(math.NaN()))
	assert.Zero(t, Sanitize(math.Inf(1)))
	assert.Equal(t, 1.5, Sanitize(1.5))
}
