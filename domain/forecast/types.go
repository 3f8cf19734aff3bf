// Package forecast defines the result types produced by the simulation and
// forecasting engines. All types are plain value objects owned by the caller;
// none of them may carry NaN or infinities (degenerate inputs produce zeros).
package forecast

import "fieldcast/domain/field"

// Quartiles holds the three quartile cut points computed with the sorted
// split-at-median method.
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// FieldStats is the full descriptive profile of one numeric field. It is
// recomputed per request and never cached.
type FieldStats struct {
	Mean          float64     `json:"mean"`
	Median        float64     `json:"median"`
	StdDev        float64     `json:"std_dev"`
	Variance      float64     `json:"variance"`
	Min           float64     `json:"min"`
	Max           float64     `json:"max"`
	Quartiles     Quartiles   `json:"quartiles"`
	Skewness      float64     `json:"skewness"`
	Kurtosis      float64     `json:"kurtosis"` // excess kurtosis
	Trend         field.Trend `json:"trend"`
	TrendStrength float64     `json:"trend_strength"` // 0-1
	GrowthRate    float64     `json:"growth_rate"`    // percent, first to last
	Volatility    float64     `json:"volatility"`     // coefficient of variation
	Outliers      []float64   `json:"outliers"`       // values outside the IQR fence
}

// ShockDirection labels the sign of a synthetic sensitivity shock.
type ShockDirection string

const (
	ShockPositive ShockDirection = "positive"
	ShockNegative ShockDirection = "negative"
)

// Variation is the measured response of a field to one synthetic shock.
type Variation struct {
	Percentage float64        `json:"percentage"`
	Impact     float64        `json:"impact"`
	Direction  ShockDirection `json:"direction"`
}

// SensitivityAnalysis reports elasticity of a field under percentage shocks.
type SensitivityAnalysis struct {
	Variable   string      `json:"variable"`
	Variations []Variation `json:"variations"`
	Elasticity float64     `json:"elasticity"` // >= 0, avg percent change per step
}

// Scenario is one named projection path under an adjusted trend factor.
type Scenario struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Adjustment    float64   `json:"adjustment"`  // percent
	Probability   float64   `json:"probability"` // 0-1, the three sum to 1
	ProjectedPath []float64 `json:"projected_path"`
}

// SimulationSummary condenses a simulation run into headline numbers.
type SimulationSummary struct {
	BestCase   float64 `json:"best_case"`
	BaseCase   float64 `json:"base_case"`
	WorstCase  float64 `json:"worst_case"`
	Range      float64 `json:"range"`
	Confidence float64 `json:"confidence"` // 0-1
}

// SimulationResult is the output of one scenario simulation run.
type SimulationResult struct {
	Field       string                `json:"field"`
	Scenarios   []Scenario            `json:"scenarios"` // always three: best/base/worst
	Sensitivity []SensitivityAnalysis `json:"sensitivity"`
	Summary     SimulationSummary     `json:"summary"`
}

// ModelWeights blends the three ensemble sub-models. Weights are normalized
// to sum to 1 before use; a non-positive sum is rejected.
type ModelWeights struct {
	Statistical float64 `json:"statistical"`
	Windowed    float64 `json:"windowed"`
	Seasonal    float64 `json:"seasonal"`
}

// Sum returns the raw weight total.
func (w ModelWeights) Sum() float64 {
	return w.Statistical + w.Windowed + w.Seasonal
}

// ConfidenceBand is a symmetric interval around each forecast point.
type ConfidenceBand struct {
	Upper []float64 `json:"upper"`
	Lower []float64 `json:"lower"`
}

// AccuracyReport holds backtest metrics for a forecast.
type AccuracyReport struct {
	Accuracy float64 `json:"accuracy"` // 0-1
	RMSE     float64 `json:"rmse"`     // >= 0
	MAE      float64 `json:"mae"`      // >= 0
}

// EnsembleResult is the blended multi-model forecast for one field.
type EnsembleResult struct {
	Field          string         `json:"field"`
	ForecastPath   []float64      `json:"forecast_path"`
	ConfidenceBand ConfidenceBand `json:"confidence_band"`
	Accuracy       AccuracyReport `json:"accuracy"`
	Insights       []string       `json:"insights"`
}

// Prediction is the single-field forecast produced by the predictor.
type Prediction struct {
	Field          string      `json:"field"`
	ForecastPath   []float64   `json:"forecast_path"`
	Confidence     float64     `json:"confidence"` // 0-1
	Trend          field.Trend `json:"trend"`
	ChangePercent  float64     `json:"change_percent"`
	SeasonalPeriod *int        `json:"seasonal_period"` // nil when no period detected
}

// CorrelationStrength buckets an absolute correlation for messaging.
type CorrelationStrength string

const (
	StrengthStrong   CorrelationStrength = "strong"
	StrengthModerate CorrelationStrength = "moderate"
	StrengthWeak     CorrelationStrength = "weak"
)

// Recommendation is an action hint derived from a correlated field pair.
type Recommendation struct {
	Fields      [2]string           `json:"fields"`
	Correlation float64             `json:"correlation"`
	Strength    CorrelationStrength `json:"strength"`
	Action      string              `json:"action"`
}
