package analysis

import (
	"github.com/montanaflynn/stats"
)

// minSeasonalPoints is the minimum series length before a seasonal period can
// be trusted at all.
const minSeasonalPoints = 8

// DetectSeasonality scans candidate lags from 2 to n/2 and returns the lag
// with the strongest autocorrelation, provided it exceeds threshold. Ties go
// to the smallest lag (a later lag must score strictly higher to win).
// Returns 0 when the series is too short or no lag clears the threshold.
func DetectSeasonality(values []float64, threshold float64) int {
	data := Finite(values)
	if len(data) < minSeasonalPoints {
		return 0
	}

	bestLag := 0
	bestScore := threshold
	for lag := 2; lag <= len(data)/2; lag++ {
		if r := Autocorrelation(data, lag); r > bestScore {
			bestLag = lag
			bestScore = r
		}
	}
	return bestLag
}

// Autocorrelation computes the lag-l autocorrelation
// sum((v_i - mu)(v_{i+l} - mu)) / sum((v_i - mu)^2), with the denominator
// taken over the whole series.
func Autocorrelation(data []float64, lag int) float64 {
	if lag <= 0 || len(data) <= lag {
		return 0
	}

	mean, _ := stats.Mean(data)

	numerator := 0.0
	for i := 0; i+lag < len(data); i++ {
		numerator += (data[i] - mean) * (data[i+lag] - mean)
	}

	denominator := 0.0
	for _, v := range data {
		denominator += (v - mean) * (v - mean)
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
