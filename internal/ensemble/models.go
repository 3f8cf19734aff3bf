package ensemble

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"fieldcast/internal/analysis"
	"fieldcast/internal/projection"
)

// windowSize is the sliding window length of the windowed sub-model.
const windowSize = 3

// windowNoiseScale scales series stdDev into the windowed model's noise term.
const windowNoiseScale = 0.1

// seasonalAmplitude modulates the seasonal-trend model's annual sinusoid.
const seasonalAmplitude = 0.1

// annualPeriod is the assumed cycle length of the seasonal-trend sinusoid.
const annualPeriod = 12

// statisticalModel projects a geometric random walk from the last value. The
// per-step factor carries the series' average step return and the shock
// amplitude is the coefficient of variation.
func (e *Engine) statisticalModel(data []float64, rng *rand.Rand) []float64 {
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	vol := analysis.CoefficientOfVariation(stdDev, mean)
	factor := 1 + analysis.MeanStepReturn(data)

	path, fallbacks := projection.Walk(data[len(data)-1], factor, vol, e.horizon, rng)
	if fallbacks > 0 {
		e.log.Warn().Int("fallbacks", fallbacks).Msg("statistical model steps fell back to last good value")
	}
	return path
}

// windowedModel keeps a sliding window of the last three points and forecasts
// windowMean + windowTrend + noise, then slides the window forward over its
// own predictions (autoregressive).
func (e *Engine) windowedModel(data []float64, rng *rand.Rand) []float64 {
	stdDev, _ := stats.StandardDeviation(data)

	start := len(data) - windowSize
	if start < 0 {
		start = 0
	}
	window := append([]float64(nil), data[start:]...)

	path := make([]float64, 0, e.horizon)
	for i := 0; i < e.horizon; i++ {
		mean, _ := stats.Mean(window)
		trend := 0.0
		if len(window) > 1 {
			trend = (window[len(window)-1] - window[0]) / float64(len(window)-1)
		}
		noise := rng.NormFloat64() * windowNoiseScale * stdDev

		next := mean + trend + noise
		if math.IsNaN(next) || math.IsInf(next, 0) {
			next = window[len(window)-1]
		}
		path = append(path, next)

		copy(window, window[1:])
		window[len(window)-1] = next
	}
	return path
}

// seasonalTrendModel fits a least-squares line over the sample index and
// modulates the extrapolated trend with an annual sinusoid.
func (e *Engine) seasonalTrendModel(data []float64) []float64 {
	xs := make([]float64, len(data))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, data, nil, false)

	n := float64(len(data))
	path := make([]float64, 0, e.horizon)
	for i := 0; i < e.horizon; i++ {
		trend := intercept + slope*(n+float64(i))
		seasonal := 1 + seasonalAmplitude*math.Sin(2*math.Pi*float64(i)/annualPeriod)
		path = append(path, analysis.Sanitize(trend*seasonal))
	}
	return path
}
