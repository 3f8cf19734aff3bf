// Package ensemble blends three sub-model forecasts (statistical walk,
// sliding-window extrapolation, seasonal trend) into a single forecast with
// confidence bounds and backtest accuracy, and houses the single-field
// predictor built on the same primitives.
package ensemble

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
)

// highAccuracyThreshold triggers the high-accuracy insight.
const highAccuracyThreshold = 0.9

// volatilityWarnRatio triggers the volatility insight when RMSE relative to
// the mean predicted level exceeds it.
const volatilityWarnRatio = 0.2

// Engine produces EnsembleResults. Safe for concurrent use with independent
// RNG streams.
type Engine struct {
	horizon   int
	minPoints int
	weights   forecast.ModelWeights
	z         float64
	log       zerolog.Logger
}

func New(horizon, minPoints int, weights forecast.ModelWeights, z float64, log zerolog.Logger) *Engine {
	return &Engine{horizon: horizon, minPoints: minPoints, weights: weights, z: z, log: log}
}

// Forecast runs the three sub-models over the same horizon and blends them by
// weighted sum at each step. Preconditions match the scenario simulator: a
// numeric field with at least minPoints finite values.
func (e *Engine) Forecast(f field.DataField, rng *rand.Rand) (*forecast.EnsembleResult, error) {
	if !f.IsNumeric() {
		return nil, errors.Validation("field is not numeric", f.Name)
	}
	data := f.Numeric()
	if len(data) < e.minPoints {
		return nil, errors.Validation(
			fmt.Sprintf("field has fewer than %d valid data points", e.minPoints), f.Name)
	}

	weights, err := normalize(e.weights)
	if err != nil {
		return nil, err
	}

	statistical := e.statisticalModel(data, rng)
	windowed := e.windowedModel(data, rng)
	seasonal := e.seasonalTrendModel(data)

	path := make([]float64, e.horizon)
	for i := range path {
		blended := weights.Statistical*statistical[i] +
			weights.Windowed*windowed[i] +
			weights.Seasonal*seasonal[i]
		path[i] = analysis.Sanitize(blended)
	}

	stdDev, _ := stats.StandardDeviation(data)
	band := e.confidenceBand(path, stdDev)
	accuracy := e.backtest(path, data)

	return &forecast.EnsembleResult{
		Field:          f.Name,
		ForecastPath:   path,
		ConfidenceBand: band,
		Accuracy:       accuracy,
		Insights:       e.insights(f.Name, data, path, accuracy),
	}, nil
}

// normalize scales weights to sum to 1. The documented policy is to normalize
// out-of-range weights rather than reject them; only a non-positive sum is an
// error.
func normalize(w forecast.ModelWeights) (forecast.ModelWeights, error) {
	sum := w.Sum()
	if sum <= 0 || w.Statistical < 0 || w.Windowed < 0 || w.Seasonal < 0 {
		return forecast.ModelWeights{}, errors.ConfigInvalid("ensemble weights must be non-negative with a positive sum")
	}
	if math.Abs(sum-1) <= 1e-9 {
		return w, nil
	}
	return forecast.ModelWeights{
		Statistical: w.Statistical / sum,
		Windowed:    w.Windowed / sum,
		Seasonal:    w.Seasonal / sum,
	}, nil
}

// confidenceBand is a symmetric normal-approximation interval around each
// point: +/- z * stdDev / sqrt(horizon).
func (e *Engine) confidenceBand(path []float64, stdDev float64) forecast.ConfidenceBand {
	margin := e.z * stdDev / math.Sqrt(float64(e.horizon))
	upper := make([]float64, len(path))
	lower := make([]float64, len(path))
	for i, v := range path {
		upper[i] = analysis.Sanitize(v + margin)
		lower[i] = analysis.Sanitize(v - margin)
	}
	return forecast.ConfidenceBand{Upper: upper, Lower: lower}
}

// backtest compares the forecast against the trailing actual points that are
// available and reports RMSE, MAE and a range-normalized accuracy score.
func (e *Engine) backtest(path []float64, data []float64) forecast.AccuracyReport {
	m := e.horizon
	if len(data) < m {
		m = len(data)
	}
	if m > len(path) {
		m = len(path)
	}
	actuals := data[len(data)-m:]

	sumSq := 0.0
	sumAbs := 0.0
	for i := 0; i < m; i++ {
		diff := path[i] - actuals[i]
		sumSq += diff * diff
		sumAbs += math.Abs(diff)
	}
	rmse := math.Sqrt(sumSq / float64(m))
	mae := sumAbs / float64(m)

	min, _ := stats.Min(actuals)
	max, _ := stats.Max(actuals)
	spread := max - min

	accuracy := 0.0
	if spread > 0 {
		accuracy = math.Max(0, 1-mae/spread)
	} else if mae == 0 {
		accuracy = 1
	}

	return forecast.AccuracyReport{
		Accuracy: analysis.Sanitize(accuracy),
		RMSE:     analysis.Sanitize(rmse),
		MAE:      analysis.Sanitize(mae),
	}
}

// insights derives the rule-based natural-language messages for a forecast.
func (e *Engine) insights(name string, data, path []float64, acc forecast.AccuracyReport) []string {
	out := []string{}

	if acc.Accuracy > highAccuracyThreshold {
		out = append(out, fmt.Sprintf(
			"Forecast for %s shows high accuracy (%.0f%%) against recent history", name, acc.Accuracy*100))
	}

	historical := analysis.Classify(data)
	predicted := analysis.Classify(path)
	if predicted != historical {
		out = append(out, fmt.Sprintf(
			"%s may be heading for a reversal: history is %s but the forecast points %s", name, historical, predicted))
	}

	sum := 0.0
	for _, v := range path {
		sum += v
	}
	if sum > 0 && acc.RMSE/sum*float64(len(path)) > volatilityWarnRatio {
		out = append(out, fmt.Sprintf(
			"Expect high volatility in %s: forecast error is large relative to its level", name))
	}
	return out
}
