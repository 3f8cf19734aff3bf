package ensemble

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldcast/domain/field"
	"fieldcast/domain/forecast"
	"fieldcast/internal/errors"
	"fieldcast/internal/logging"
)

var revenue = []float64{100, 102, 99, 105, 108, 107, 111, 115, 113, 118, 120, 119}

func defaultWeights() forecast.ModelWeights {
	return forecast.ModelWeights{Statistical: 0.3, Windowed: 0.4, Seasonal: 0.3}
}

func newTestEngine(weights forecast.ModelWeights) *Engine {
	return New(12, 10, weights, 1.96, logging.Nop())
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestForecast_PathAndBandShape(t *testing.T) {
	engine := newTestEngine(defaultWeights())

	result, err := engine.Forecast(field.NumberField("revenue", revenue), seededRand())
	require.NoError(t, err)

	require.Len(t, result.ForecastPath, 12)
	require.Len(t, result.ConfidenceBand.Upper, 12)
	require.Len(t, result.ConfidenceBand.Lower, 12)

	// Property: the confidence band brackets the forecast at every index.
	for i := range result.ForecastPath {
		assert.LessOrEqual(t, result.ConfidenceBand.Lower[i], result.ForecastPath[i], "index %d", i)
		assert.GreaterOrEqual(t, result.ConfidenceBand.Upper[i], result.ForecastPath[i], "index %d", i)
	}
}

func TestForecast_AccuracyWithinUnitRange(t *testing.T) {
	engine := newTestEngine(defaultWeights())

	result, err := engine.Forecast(field.NumberField("revenue", revenue), seededRand())
	require.NoError(t, err)

	acc := result.Accuracy
	assert.GreaterOrEqual(t, acc.Accuracy, 0.0)
	assert.LessOrEqual(t, acc.Accuracy, 1.0)
	assert.GreaterOrEqual(t, acc.RMSE, 0.0)
	assert.GreaterOrEqual(t, acc.MAE, 0.0)
	assert.GreaterOrEqual(t, acc.RMSE, acc.MAE, "RMSE is bounded below by MAE")
}

func TestForecast_Deterministic(t *testing.T) {
	engine := newTestEngine(defaultWeights())
	f := field.NumberField("revenue", revenue)

	a, err := engine.Forecast(f, seededRand())
	require.NoError(t, err)
	b, err := engine.Forecast(f, seededRand())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestForecast_WeightNormalization(t *testing.T) {
	// Weights 3/4/3 normalize to the documented 0.3/0.4/0.3 defaults, so the
	// forecasts must match draw for draw.
	scaled := newTestEngine(forecast.ModelWeights{Statistical: 3, Windowed: 4, Seasonal: 3})
	defaults := newTestEngine(defaultWeights())
	f := field.NumberField("revenue", revenue)

	a, err := scaled.Forecast(f, seededRand())
	require.NoError(t, err)
	b, err := defaults.Forecast(f, seededRand())
	require.NoError(t, err)

	require.Len(t, a.ForecastPath, len(b.ForecastPath))
	for i := range a.ForecastPath {
		assert.InDelta(t, b.ForecastPath[i], a.ForecastPath[i], 1e-9)
	}
}

func TestForecast_RejectsNonPositiveWeightSum(t *testing.T) {
	engine := newTestEngine(forecast.ModelWeights{})

	_, err := engine.Forecast(field.NumberField("revenue", revenue), seededRand())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.CodeOf(err))
}

func TestForecast_MinimumDataRejection(t *testing.T) {
	engine := newTestEngine(defaultWeights())

	short := field.NumberField("short", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	_, err := engine.Forecast(short, seededRand())
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationError, errors.CodeOf(err))
}

func TestForecast_NoNonFiniteOutput(t *testing.T) {
	engine := newTestEngine(defaultWeights())
	values := []float64{10, 0, 10, 5, 10, 0, 10, 5, 10, 5, 10, 5}

	result, err := engine.Forecast(field.NumberField("lumpy", values), seededRand())
	require.NoError(t, err)

	check := func(vs []float64) {
		for _, v := range vs {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	check(result.ForecastPath)
	check(result.ConfidenceBand.Upper)
	check(result.ConfidenceBand.Lower)
}

func TestForecast_InsightsNameTheField(t *testing.T) {
	engine := newTestEngine(defaultWeights())
	result, err := engine.Forecast(field.NumberField("metric", revenue), seededRand())
	require.NoError(t, err)

	for _, insight := range result.Insights {
		assert.Contains(t, insight, "metric")
	}
}
