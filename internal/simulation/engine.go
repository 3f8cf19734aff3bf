// Package simulation runs best/base/worst scenario projections with
// sensitivity analysis over a single numeric field.
package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"fieldcast/domain/field"
	"fieldcast/domain/forecast"
	"fieldcast/internal/analysis"
	"fieldcast/internal/errors"
	"fieldcast/internal/projection"
)

// Trend factors applied before scenario adjustments.
const (
	upFactor     = 1.1
	downFactor   = 0.9
	stableFactor = 1.0
)

// scenarioSpread scales the last value into the summary best/worst cases.
const scenarioSpread = 0.15

// shockLevels are the synthetic percentage shocks applied during sensitivity
// analysis.
var shockLevels = []float64{0.10, 0.20, 0.30}

// Engine produces SimulationResults. It is stateless apart from its
// configuration and safe for concurrent use with independent RNG streams.
type Engine struct {
	horizon   int
	minPoints int
	log       zerolog.Logger
}

func New(horizon, minPoints int, log zerolog.Logger) *Engine {
	return &Engine{horizon: horizon, minPoints: minPoints, log: log}
}

// Simulate runs the three scenarios for one field. The field must be numeric
// with at least minPoints finite values, otherwise a validation error naming
// the field is returned before any work happens.
func (e *Engine) Simulate(f field.DataField, rng *rand.Rand) (*forecast.SimulationResult, error) {
	if !f.IsNumeric() {
		return nil, errors.Validation("field is not numeric", f.Name)
	}
	data := f.Numeric()
	if len(data) < e.minPoints {
		return nil, errors.Validation(
			fmt.Sprintf("field has fewer than %d valid data points", e.minPoints), f.Name)
	}

	trend := analysis.Classify(data)
	factor := trendFactor(trend)
	last := data[len(data)-1]

	vol, fellBack := projection.LogReturnVolatility(data)
	if fellBack {
		e.log.Warn().Str("field", f.Name).Float64("volatility", vol).
			Msg("log-return volatility unavailable, using fallback")
	}

	cases := []struct {
		name        string
		description string
		adjustment  float64
		probability float64
	}{
		{"Best Case", "optimistic scenario with favorable conditions", scenarioSpread, 0.25},
		{"Base Case", "most likely scenario based on current trend", 0, 0.50},
		{"Worst Case", "pessimistic scenario with adverse conditions", -scenarioSpread, 0.25},
	}

	scenarios := make([]forecast.Scenario, 0, len(cases))
	for _, c := range cases {
		path, fallbacks := projection.Walk(last, factor*(1+c.adjustment), vol, e.horizon, rng)
		if fallbacks > 0 {
			e.log.Warn().Str("field", f.Name).Str("scenario", c.name).
				Int("fallbacks", fallbacks).
				Msg("stochastic steps fell back to last good value")
		}
		scenarios = append(scenarios, forecast.Scenario{
			Name:          c.name,
			Description:   c.description,
			Adjustment:    c.adjustment * 100,
			Probability:   c.probability,
			ProjectedPath: path,
		})
	}

	return &forecast.SimulationResult{
		Field:       f.Name,
		Scenarios:   scenarios,
		Sensitivity: []forecast.SensitivityAnalysis{sensitivity(f.Name, data)},
		Summary:     summarize(data, last),
	}, nil
}

func trendFactor(t field.Trend) float64 {
	switch t {
	case field.TrendUp:
		return upFactor
	case field.TrendDown:
		return downFactor
	default:
		return stableFactor
	}
}

// sensitivity measures the field's response to synthetic shocks on its last
// value, plus its elasticity (average percent change per step).
func sensitivity(name string, data []float64) forecast.SensitivityAnalysis {
	base := data[len(data)-1]

	variations := make([]forecast.Variation, 0, 2*len(shockLevels))
	for _, pct := range shockLevels {
		for _, sign := range []float64{1, -1} {
			shocked := base * (1 + sign*pct)
			impact := 0.0
			if base != 0 {
				impact = math.Abs(shocked-base) / math.Abs(base)
			}
			direction := forecast.ShockPositive
			if sign < 0 {
				direction = forecast.ShockNegative
			}
			variations = append(variations, forecast.Variation{
				Percentage: sign * pct * 100,
				Impact:     analysis.Sanitize(impact),
				Direction:  direction,
			})
		}
	}

	elasticity := 0.0
	if len(data) > 1 {
		elasticity = math.Abs(analysis.GrowthRate(data)) / 100 / float64(len(data)-1)
	}

	return forecast.SensitivityAnalysis{
		Variable:   name,
		Variations: variations,
		Elasticity: analysis.Sanitize(elasticity),
	}
}

// summarize spreads the last value into best/base/worst headline numbers and
// derives confidence from the coefficient of variation.
func summarize(data []float64, last float64) forecast.SimulationSummary {
	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)

	confidence := 0.0
	if mean != 0 {
		confidence = clamp01(1 - stdDev/math.Abs(mean))
	}

	best := last * (1 + scenarioSpread)
	worst := last * (1 - scenarioSpread)
	return forecast.SimulationSummary{
		BestCase:   analysis.Sanitize(best),
		BaseCase:   analysis.Sanitize(last),
		WorstCase:  analysis.Sanitize(worst),
		Range:      analysis.Sanitize(best - worst),
		Confidence: confidence,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
