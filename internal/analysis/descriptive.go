// Package analysis contains the pure statistical primitives: descriptive
// stats, trend classification and seasonality detection. Everything here is a
// pure function of its input slice; inputs are never mutated.
package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"fieldcast/domain/forecast"
)

// Finite returns the finite entries of values, preserving order.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Describe computes the full descriptive profile for a numeric series.
// Non-finite entries are filtered first. Empty or single-element input yields
// degenerate stats (zeros, stable trend) rather than an error.
func Describe(values []float64) forecast.FieldStats {
	data := Finite(values)
	fs := forecast.FieldStats{
		Trend:    Classify(data),
		Outliers: []float64{},
	}
	if len(data) == 0 {
		return fs
	}

	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	stdDev, _ := stats.StandardDeviation(data)
	variance, _ := stats.Variance(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	fs.Mean = mean
	fs.Median = median
	fs.StdDev = stdDev
	fs.Variance = variance
	fs.Min = min
	fs.Max = max
	fs.Quartiles = quartiles(data, median)
	fs.Skewness = skewness(data, mean, stdDev)
	fs.Kurtosis = excessKurtosis(data, mean, stdDev)
	fs.TrendStrength = trendStrength(data)
	fs.GrowthRate = GrowthRate(data)
	fs.Volatility = CoefficientOfVariation(stdDev, mean)
	fs.Outliers = outliers(data, fs.Quartiles)
	return fs
}

// quartiles uses the sorted split-at-median method: q1 is the median of the
// lower half, q3 the median of the upper half, with the middle element
// excluded on odd length. Below four points all three collapse to the median.
func quartiles(data []float64, median float64) forecast.Quartiles {
	if len(data) < 4 {
		return forecast.Quartiles{Q1: median, Q2: median, Q3: median}
	}
	q, err := stats.Quartile(data)
	if err != nil {
		return forecast.Quartiles{Q1: median, Q2: median, Q3: median}
	}
	return forecast.Quartiles{Q1: q.Q1, Q2: q.Q2, Q3: q.Q3}
}

// outliers returns the values outside the IQR fence [q1-1.5*IQR, q3+1.5*IQR].
func outliers(data []float64, q forecast.Quartiles) []float64 {
	if len(data) < 4 {
		return []float64{}
	}
	iqr := q.Q3 - q.Q1
	lower := q.Q1 - 1.5*iqr
	upper := q.Q3 + 1.5*iqr

	out := []float64{}
	for _, v := range data {
		if v < lower || v > upper {
			out = append(out, v)
		}
	}
	return out
}

// skewness computes the adjusted Fisher-Pearson sample skewness.
func skewness(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if n < 3 || stdDev == 0 {
		return 0
	}

	sumCubed := 0.0
	for _, x := range data {
		z := (x - mean) / stdDev
		sumCubed += z * z * z
	}

	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// excessKurtosis computes the sample-adjusted excess kurtosis. The z-scores
// use the population stdDev, so the biased estimate g2 is converted with
// G2 = (n-1)/((n-2)(n-3)) * ((n+1)*g2 + 6), which expects exactly those
// moments.
func excessKurtosis(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	if n < 4 || stdDev == 0 {
		return 0
	}

	sumFourth := 0.0
	for _, x := range data {
		z := (x - mean) / stdDev
		sumFourth += z * z * z * z
	}

	g2 := sumFourth/n - 3
	return (n - 1) / ((n - 2) * (n - 3)) * ((n+1)*g2 + 6)
}

// GrowthRate is the percent change from the first to the last value.
// A zero first value yields 0.
func GrowthRate(data []float64) float64 {
	if len(data) < 2 || data[0] == 0 {
		return 0
	}
	return (data[len(data)-1] - data[0]) / math.Abs(data[0]) * 100
}

// CoefficientOfVariation is stdDev/|mean|, the volatility proxy used across
// the engine. Zero mean yields 0 so results stay JSON-representable.
func CoefficientOfVariation(stdDev, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return stdDev / math.Abs(mean)
}

// MeanStepReturn is the average per-step relative change, skipping steps with
// a zero base.
func MeanStepReturn(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	sum := 0.0
	count := 0
	for i := 1; i < len(data); i++ {
		if data[i-1] == 0 {
			continue
		}
		sum += (data[i] - data[i-1]) / data[i-1]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Sanitize maps NaN and infinities to 0 so returned payloads stay
// JSON-representable.
func Sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
