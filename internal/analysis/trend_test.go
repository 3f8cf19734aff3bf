package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldcast/domain/field"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   field.Trend
	}{
		{"rising", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, field.TrendUp},
		{"falling", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, field.TrendDown},
		{"flat within band", []float64{100, 101, 99, 100, 102, 100, 99, 101}, field.TrendStable},
		{"constant", []float64{5, 5, 5, 5}, field.TrendStable},
		{"single point", []float64{42}, field.TrendStable},
		{"empty", nil, field.TrendStable},
		// A 5% band on a level of 100 is 5; a second-half mean shifted by
		// exactly the band stays stable, just past it flips.
		{"just inside band", []float64{100, 100, 104, 104}, field.TrendStable},
		{"past band", []float64{100, 100, 106, 106}, field.TrendUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.values))
		})
	}
}

func TestClassify_ZeroFirstHalfMeanEdge(t *testing.T) {
	// With a zero first-half mean the band collapses to zero, so any nonzero
	// difference picks a direction. Intentional edge behavior.
	assert.Equal(t, field.TrendUp, Classify([]float64{0, 0, 0, 0, 0, 0, 0.001, 0.001}))
	assert.Equal(t, field.TrendDown, Classify([]float64{-1, 1, 1, -1, -0.001, -0.001}))
}

func TestClassify_OddLengthSplitsExtraToFirstHalf(t *testing.T) {
	// n=5 splits [1,1,1] vs [10,10]: first-half mean 1, second 10.
	assert.Equal(t, field.TrendUp, Classify([]float64{1, 1, 1, 10, 10}))
}
