// Package projection provides the stochastic path primitive shared by the
// scenario simulator and the ensemble's statistical model, so the geometric
// walk logic lives in exactly one place.
package projection

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
)

// stepScale converts annualized volatility to a per-step (monthly) shock.
const stepScale = 1.0 / 12

// FallbackVolatility replaces log-return volatility when the series has
// non-positive ratios or too few points to measure it.
const FallbackVolatility = 0.15

// Walk projects horizon steps of a geometric walk from start. Each step draws
// a fresh uniform shock in [-1, 1]:
//
//	next = last * max(0, factor * (1 + vol*sqrt(stepScale)*u))
//
// A step that produces NaN or an infinity keeps the last good value instead
// of propagating; the count of such fallbacks is returned so callers can flag
// the resiliency policy firing.
func Walk(start, factor, vol float64, horizon int, rng *rand.Rand) ([]float64, int) {
	path := make([]float64, 0, horizon)
	last := start
	fallbacks := 0
	for i := 0; i < horizon; i++ {
		u := rng.Float64()*2 - 1
		next := last * math.Max(0, factor*(1+vol*math.Sqrt(stepScale)*u))
		if math.IsNaN(next) || math.IsInf(next, 0) {
			next = last
			fallbacks++
		}
		path = append(path, next)
		last = next
	}
	return path, fallbacks
}

// LogReturnVolatility is the standard deviation of ln(v_i/v_{i-1}). When any
// ratio is non-positive, or fewer than two points exist, it falls back to
// FallbackVolatility and reports that it did.
func LogReturnVolatility(data []float64) (vol float64, fellBack bool) {
	if len(data) < 2 {
		return FallbackVolatility, true
	}

	returns := make([]float64, 0, len(data)-1)
	for i := 1; i < len(data); i++ {
		if data[i-1] <= 0 || data[i] <= 0 {
			return FallbackVolatility, true
		}
		returns = append(returns, math.Log(data[i]/data[i-1]))
	}

	sd, err := stats.StandardDeviation(returns)
	if err != nil || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return FallbackVolatility, true
	}
	return sd, false
}
