// Package app wires the statistical primitives, simulator, ensemble and
// predictor into a batch pipeline over a set of fields.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fieldcast/domain/field"
	"fieldcast/domain/forecast"
	"fieldcast/internal/analysis"
	"fieldcast/internal/config"
	"fieldcast/internal/ensemble"
	"fieldcast/internal/errors"
	"fieldcast/internal/simulation"
	"fieldcast/ports"
)

// ProgressFunc receives advisory per-field completion events. It has no
// effect on correctness and may be nil.
type ProgressFunc func(fieldName string, percentComplete float64)

// FieldError records a per-field pipeline failure that did not abort the
// batch.
type FieldError struct {
	Field string `json:"field"`
	Err   error  `json:"-"`
	Msg   string `json:"error"`
}

// FieldReport aggregates every engine output for one numeric field.
type FieldReport struct {
	Field      string                     `json:"field"`
	Stats      forecast.FieldStats        `json:"stats"`
	Simulation *forecast.SimulationResult `json:"simulation,omitempty"`
	Ensemble   *forecast.EnsembleResult   `json:"ensemble,omitempty"`
	Prediction *forecast.Prediction       `json:"prediction,omitempty"`
}

// BatchResult is the outcome of one Analyze call. Reports preserve the input
// field order regardless of completion order.
type BatchResult struct {
	RunID           string                    `json:"run_id"`
	Reports         []FieldReport             `json:"reports"`
	Recommendations []forecast.Recommendation `json:"recommendations"`
	FieldErrors     []FieldError              `json:"field_errors,omitempty"`
	Warnings        []string                  `json:"warnings,omitempty"`
}

// AnalysisService is the batch orchestrator. It holds no mutable state and is
// safe for concurrent use.
type AnalysisService struct {
	opts       config.Options
	rng        ports.RNGPort
	simulator  *simulation.Engine
	forecaster *ensemble.Engine
	predictor  *ensemble.Predictor
	log        zerolog.Logger
}

func NewAnalysisService(opts config.Options, rngPort ports.RNGPort, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		opts:       opts,
		rng:        rngPort,
		simulator:  simulation.New(opts.SimulationHorizon, opts.MinDataPoints, log),
		forecaster: ensemble.New(opts.ForecastHorizon, opts.MinDataPoints, opts.Weights, opts.ConfidenceZ, log),
		predictor:  ensemble.NewPredictor(opts.ForecastHorizon, opts.MinDataPoints, opts.SeasonalityThreshold),
		log:        log,
	}
}

// Analyze validates every field up front (naming all offenders in a single
// error), fans the numeric fields out concurrently, and joins results in
// input order. A failure inside one field's pipeline is collected per field
// and does not abort siblings.
func (s *AnalysisService) Analyze(ctx context.Context, fields []field.DataField, progress ProgressFunc) (*BatchResult, error) {
	numeric, warnings, err := s.validate(fields)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunID:    uuid.NewString(),
		Reports:  make([]FieldReport, len(numeric)),
		Warnings: warnings,
	}

	var mu sync.Mutex
	completed := 0
	total := len(numeric)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, f := range numeric {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			report, fieldErr := s.analyzeField(gctx, f)

			mu.Lock()
			result.Reports[i] = report
			if fieldErr != nil {
				result.FieldErrors = append(result.FieldErrors, FieldError{
					Field: f.Name,
					Err:   fieldErr,
					Msg:   fieldErr.Error(),
				})
			}
			completed++
			pct := float64(completed) / float64(total) * 100
			mu.Unlock()

			if progress != nil {
				progress(f.Name, pct)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	predictions := make([]forecast.Prediction, 0, len(result.Reports))
	for _, r := range result.Reports {
		if r.Prediction != nil {
			predictions = append(predictions, *r.Prediction)
		}
	}
	result.Recommendations = ensemble.Recommendations(predictions, numeric)

	return result, nil
}

// validate applies the eager batch validation policy: every problem across
// all fields is reported at once, before any simulation work starts.
func (s *AnalysisService) validate(fields []field.DataField) (numeric []field.DataField, warnings []string, err error) {
	if len(fields) == 0 {
		return nil, nil, errors.Validation("no fields provided")
	}

	var offenders []string
	for _, f := range fields {
		if !f.IsNumeric() {
			warnings = append(warnings, fmt.Sprintf("field %q (%s) skipped: not numeric", f.Name, f.Kind))
			continue
		}
		if len(f.Numeric()) < s.opts.MinDataPoints {
			offenders = append(offenders, f.Name)
			continue
		}
		numeric = append(numeric, f)
	}

	if len(numeric) == 0 && len(offenders) == 0 {
		return nil, nil, errors.Validation("no numeric fields present")
	}
	if len(offenders) > 0 {
		return nil, nil, errors.Validation(
			fmt.Sprintf("fields have fewer than %d valid data points", s.opts.MinDataPoints), offenders...)
	}
	return numeric, warnings, nil
}

// analyzeField runs the full per-field pipeline with a deterministic RNG
// stream derived from the field name, so output is reproducible under a
// fixed seed regardless of scheduling. The simulator always draws before the
// forecaster.
func (s *AnalysisService) analyzeField(ctx context.Context, f field.DataField) (FieldReport, error) {
	report := FieldReport{
		Field: f.Name,
		Stats: analysis.Describe(f.Numeric()),
	}

	rng, err := s.rng.SeededStream(ctx, f.Name, s.opts.Seed)
	if err != nil {
		return report, errors.Computation("failed to derive rng stream", err)
	}

	sim, err := s.simulator.Simulate(f, rng)
	if err != nil {
		return report, err
	}
	report.Simulation = sim

	ens, err := s.forecaster.Forecast(f, rng)
	if err != nil {
		return report, err
	}
	report.Ensemble = ens

	pred, err := s.predictor.Predict(f)
	if err != nil {
		return report, err
	}
	report.Prediction = pred

	s.log.Debug().Str("field", f.Name).Msg("field pipeline complete")
	return report, nil
}
