// Package config holds the engine's tunable options with their documented
// defaults, loadable from environment variables.
package config

import (
	"os"
	"runtime"
	"strconv"

	"fieldcast/domain/forecast"
	"fieldcast/internal/errors"
)

// Options is the full configuration surface of the engine.
type Options struct {
	// SimulationHorizon is the number of projected steps per scenario.
	SimulationHorizon int
	// ForecastHorizon is the number of steps in ensemble/predictor forecasts.
	ForecastHorizon int
	// Weights blends the three ensemble sub-models. Normalized before use.
	Weights forecast.ModelWeights
	// MinDataPoints is the minimum finite values a numeric field must carry
	// before simulation or forecasting runs.
	MinDataPoints int
	// SeasonalityThreshold is the autocorrelation a lag must exceed to be
	// accepted as a seasonal period.
	SeasonalityThreshold float64
	// ConfidenceZ is the z-score used for forecast confidence bands.
	ConfidenceZ float64
	// Workers caps concurrent per-field pipelines.
	Workers int
	// Seed drives every stochastic component. Fixed seed, identical output.
	Seed int64
}

// Default returns the documented default options.
func Default() Options {
	return Options{
		SimulationHorizon:    5,
		ForecastHorizon:      12,
		Weights:              forecast.ModelWeights{Statistical: 0.3, Windowed: 0.4, Seasonal: 0.3},
		MinDataPoints:        10,
		SeasonalityThreshold: 0.7,
		ConfidenceZ:          1.96,
		Workers:              runtime.NumCPU(),
		Seed:                 1,
	}
}

// Load reads options from environment variables, falling back to defaults,
// and validates the result.
func Load() (Options, error) {
	opts := Default()
	opts.SimulationHorizon = getEnvIntOrDefault("SIMULATION_HORIZON", opts.SimulationHorizon)
	opts.ForecastHorizon = getEnvIntOrDefault("FORECAST_HORIZON", opts.ForecastHorizon)
	opts.MinDataPoints = getEnvIntOrDefault("MIN_DATA_POINTS", opts.MinDataPoints)
	opts.SeasonalityThreshold = getEnvFloatOrDefault("SEASONALITY_THRESHOLD", opts.SeasonalityThreshold)
	opts.ConfidenceZ = getEnvFloatOrDefault("CONFIDENCE_Z", opts.ConfidenceZ)
	opts.Workers = getEnvIntOrDefault("WORKERS", opts.Workers)
	opts.Seed = int64(getEnvIntOrDefault("SEED", int(opts.Seed)))
	opts.Weights.Statistical = getEnvFloatOrDefault("WEIGHT_STATISTICAL", opts.Weights.Statistical)
	opts.Weights.Windowed = getEnvFloatOrDefault("WEIGHT_WINDOWED", opts.Weights.Windowed)
	opts.Weights.Seasonal = getEnvFloatOrDefault("WEIGHT_SEASONAL", opts.Weights.Seasonal)

	if err := opts.Validate(); err != nil {
		return Options{}, errors.Wrap(err, "configuration validation failed")
	}
	return opts, nil
}

// Validate checks ranges. Weights that do not sum to 1 are accepted here and
// normalized at use; only a non-positive sum is rejected.
func (o Options) Validate() error {
	if o.SimulationHorizon < 1 {
		return errors.ConfigInvalid("simulation horizon must be at least 1")
	}
	if o.ForecastHorizon < 1 {
		return errors.ConfigInvalid("forecast horizon must be at least 1")
	}
	if o.MinDataPoints < 2 {
		return errors.ConfigInvalid("minimum data points must be at least 2")
	}
	if o.SeasonalityThreshold <= 0 || o.SeasonalityThreshold > 1 {
		return errors.ConfigInvalid("seasonality threshold must be in (0, 1]")
	}
	if o.ConfidenceZ <= 0 {
		return errors.ConfigInvalid("confidence z-score must be positive")
	}
	if o.Workers < 1 {
		return errors.ConfigInvalid("workers must be at least 1")
	}
	if o.Weights.Sum() <= 0 {
		return errors.ConfigInvalid("ensemble weights must have a positive sum")
	}
	if o.Weights.Statistical < 0 || o.Weights.Windowed < 0 || o.Weights.Seasonal < 0 {
		return errors.ConfigInvalid("ensemble weights must be non-negative")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
