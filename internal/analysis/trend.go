package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"fieldcast/domain/field"
)

// relativeBand is the fraction of |firstHalfMean| beyond which a half-mean
// difference counts as a direction change.
const relativeBand = 0.05

// Classify labels a series up, down or stable by splitting it at the midpoint
// and comparing the two half-means against a 5% relative band. Fewer than two
// points is stable. A zero first-half mean collapses the band to zero, so any
// nonzero difference triggers a direction; that edge behavior is intentional.
func Classify(values []float64) field.Trend {
	data := Finite(values)
	if len(data) < 2 {
		return field.TrendStable
	}

	// The first half gets the extra element on odd length.
	mid := (len(data) + 1) / 2
	firstMean, _ := stats.Mean(data[:mid])
	secondMean, _ := stats.Mean(data[mid:])

	threshold := relativeBand * math.Abs(firstMean)
	diff := secondMean - firstMean
	switch {
	case diff > threshold:
		return field.TrendUp
	case diff < -threshold:
		return field.TrendDown
	default:
		return field.TrendStable
	}
}

// trendStrength measures how far the second half-mean moved relative to the
// first, clamped to [0,1].
func trendStrength(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	mid := (len(data) + 1) / 2
	firstMean, _ := stats.Mean(data[:mid])
	secondMean, _ := stats.Mean(data[mid:])

	diff := math.Abs(secondMean - firstMean)
	if firstMean == 0 {
		if diff == 0 {
			return 0
		}
		return 1
	}
	return math.Min(diff/math.Abs(firstMean), 1)
}
