package ensemble

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"fieldcast/domain/field"
	"fieldcast/domain/forecast"
	"fieldcast/internal/analysis"
	"fieldcast/internal/errors"
)

// smoothingAlpha is the exponential smoothing factor of the non-seasonal
// strategy.
const smoothingAlpha = 0.3

// correlationFloor is the minimum |r| between two fields before a
// recommendation is generated.
const correlationFloor = 0.5

// Strength buckets for recommendation messages.
const (
	strongCorrelation   = 0.8
	moderateCorrelation = 0.65
)

// Predictor is the thin orchestrator that picks a seasonal or smoothing
// forecast strategy per field and scores its confidence from historical fit.
type Predictor struct {
	horizon           int
	minPoints         int
	seasonalThreshold float64
}

func NewPredictor(horizon, minPoints int, seasonalThreshold float64) *Predictor {
	return &Predictor{horizon: horizon, minPoints: minPoints, seasonalThreshold: seasonalThreshold}
}

// Predict forecasts one field. Seasonal fields reuse the trend-plus-pattern
// path; everything else gets exponential smoothing from the last value and
// last observed delta. The forecast is deterministic.
func (p *Predictor) Predict(f field.DataField) (*forecast.Prediction, error) {
	if !f.IsNumeric() {
		return nil, errors.Validation("field is not numeric", f.Name)
	}
	data := f.Numeric()
	if len(data) < p.minPoints {
		return nil, errors.Validation(
			fmt.Sprintf("field has fewer than %d valid data points", p.minPoints), f.Name)
	}

	var path []float64
	var period *int
	if lag := analysis.DetectSeasonality(data, p.seasonalThreshold); lag > 0 {
		lagCopy := lag
		period = &lagCopy
		path = p.seasonalForecast(data, lag)
	} else {
		path = p.smoothingForecast(data)
	}

	last := data[len(data)-1]
	changePercent := 0.0
	if last != 0 {
		changePercent = (path[len(path)-1] - last) / math.Abs(last) * 100
	}

	return &forecast.Prediction{
		Field:          f.Name,
		ForecastPath:   path,
		Confidence:     p.confidence(path, data),
		Trend:          analysis.Classify(data),
		ChangePercent:  analysis.Sanitize(changePercent),
		SeasonalPeriod: period,
	}, nil
}

// seasonalForecast extrapolates the least-squares trend and re-applies the
// observed seasonal pattern: each phase's mean relative level scales the
// trend value at the matching forecast index.
func (p *Predictor) seasonalForecast(data []float64, period int) []float64 {
	indices := seasonalIndices(data, period)

	xs := make([]float64, len(data))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, data, nil, false)

	n := len(data)
	path := make([]float64, 0, p.horizon)
	for i := 0; i < p.horizon; i++ {
		trend := intercept + slope*float64(n+i)
		path = append(path, analysis.Sanitize(trend*indices[(n+i)%period]))
	}
	return path
}

// seasonalIndices computes the mean level of each phase relative to the
// overall mean. A zero overall mean yields flat indices.
func seasonalIndices(data []float64, period int) []float64 {
	overall, _ := stats.Mean(data)

	indices := make([]float64, period)
	for phase := 0; phase < period; phase++ {
		sum := 0.0
		count := 0
		for i := phase; i < len(data); i += period {
			sum += data[i]
			count++
		}
		if count == 0 || overall == 0 {
			indices[phase] = 1
			continue
		}
		indices[phase] = (sum / float64(count)) / overall
	}
	return indices
}

// smoothingForecast projects from the last value and the last observed delta
// with exponential smoothing (alpha = 0.3).
func (p *Predictor) smoothingForecast(data []float64) []float64 {
	last := data[len(data)-1]
	delta := last - data[len(data)-2]

	path := make([]float64, 0, p.horizon)
	level := last
	for i := 0; i < p.horizon; i++ {
		level += smoothingAlpha * delta
		path = append(path, analysis.Sanitize(level))
	}
	return path
}

// confidence is 1 - MAPE over whatever trailing overlap exists between the
// forecast and the observed series, clamped to [0,1].
func (p *Predictor) confidence(path, data []float64) float64 {
	m := len(path)
	if len(data) < m {
		m = len(data)
	}
	actuals := data[len(data)-m:]

	sum := 0.0
	count := 0
	for i := 0; i < m; i++ {
		if actuals[i] == 0 {
			continue
		}
		sum += math.Abs(path[i]-actuals[i]) / math.Abs(actuals[i])
		count++
	}
	if count == 0 {
		return 0
	}
	mape := sum / float64(count)
	return clamp01(1 - mape)
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

// Recommendations cross-references numeric field pairs and emits action
// hints for every pair whose correlation magnitude clears the floor.
// Predictions, when present for a field, enrich the message with the
// predicted direction.
func Recommendations(predictions []forecast.Prediction, fields []field.DataField) []forecast.Recommendation {
	trendByField := make(map[string]field.Trend, len(predictions))
	for _, pr := range predictions {
		trendByField[pr.Field] = pr.Trend
	}

	numeric := make([]field.DataField, 0, len(fields))
	for _, f := range fields {
		if f.IsNumeric() {
			numeric = append(numeric, f)
		}
	}

	out := []forecast.Recommendation{}
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			x := numeric[i].Numeric()
			y := numeric[j].Numeric()
			m := len(x)
			if len(y) < m {
				m = len(y)
			}
			if m < 3 {
				continue
			}

			r := stat.Correlation(x[:m], y[:m], nil)
			if math.IsNaN(r) || math.Abs(r) <= correlationFloor {
				continue
			}

			out = append(out, forecast.Recommendation{
				Fields:      [2]string{numeric[i].Name, numeric[j].Name},
				Correlation: r,
				Strength:    bucketStrength(math.Abs(r)),
				Action:      recommendAction(numeric[i].Name, numeric[j].Name, r, trendByField),
			})
		}
	}
	return out
}

func bucketStrength(absR float64) forecast.CorrelationStrength {
	switch {
	case absR > strongCorrelation:
		return forecast.StrengthStrong
	case absR > moderateCorrelation:
		return forecast.StrengthModerate
	default:
		return forecast.StrengthWeak
	}
}

func recommendAction(a, b string, r float64, trends map[string]field.Trend) string {
	relation := "move together"
	if r < 0 {
		relation = "move inversely"
	}
	msg := fmt.Sprintf("%s and %s %s (r=%.2f); monitor them as a pair", a, b, relation, r)
	if t, ok := trends[a]; ok && t != field.TrendStable {
		msg += fmt.Sprintf("; %s is trending %s", a, t)
	}
	return msg
}
