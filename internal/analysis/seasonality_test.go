package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const acceptThreshold = 0.7

func TestDetectSeasonality_SyntheticPeriodFour(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 40)
	for i := range values {
		values[i] = math.Sin(2*math.Pi*float64(i)/4) + rng.Float64()*0.01
	}

	assert.Equal(t, 4, DetectSeasonality(values, acceptThreshold))
}

func TestDetectSeasonality_WhiteNoiseRarelyDetects(t *testing.T) {
	// Probabilistic property: white noise should clear the 0.7 acceptance
	// threshold in fewer than 5% of trials.
	rng := rand.New(rand.NewSource(23))
	trials := 200
	detections := 0
	for i := 0; i < trials; i++ {
		values := make([]float64, 50)
		for j := range values {
			values[j] = rng.Float64()
		}
		if DetectSeasonality(values, acceptThreshold) != 0 {
			detections++
		}
	}
	assert.LessOrEqual(t, detections, trials/20, "detected seasonality in %d/%d white-noise trials", detections, trials)
}

func TestDetectSeasonality_TooShort(t *testing.T) {
	values := []float64{1, 2, 1, 2, 1, 2, 1}
	assert.Zero(t, DetectSeasonality(values, acceptThreshold))
}

func TestDetectSeasonality_ConstantSeries(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 3
	}
	assert.Zero(t, DetectSeasonality(values, acceptThreshold))
}

func TestAutocorrelation(t *testing.T) {
	// Alternating series correlates perfectly with itself at lag 2 (up to the
	// shrinking numerator window).
	values := []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	r2 := Autocorrelation(values, 2)
	assert.Greater(t, r2, acceptThreshold)

	// Out-of-range lags are zero.
	assert.Zero(t, Autocorrelation(values, 0))
	assert.Zero(t, Autocorrelation(values, len(values)))
}

func TestDetectSeasonality_TiesGoToSmallestLag(t *testing.T) {
	// A period-2 alternation also repeats at lag 4, 6, ...; the truncated
	// numerator makes the smallest lag score highest, and a later lag must
	// score strictly higher to replace it.
	values := []float64{5, 1, 5, 1, 5, 1, 5, 1, 5, 1, 5, 1}
	assert.Equal(t, 2, DetectSeasonality(values, acceptThreshold))
}
