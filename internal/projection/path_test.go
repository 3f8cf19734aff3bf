package projection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_Deterministic(t *testing.T) {
	a, _ := Walk(100, 1.05, 0.2, 10, rand.New(rand.NewSource(7)))
	b, _ := Walk(100, 1.05, 0.2, 10, rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestWalk_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	path, _ := Walk(50, 0.5, 5.0, 100, rng)
	require.Len(t, path, 100)
	for i, v := range path {
		assert.GreaterOrEqual(t, v, 0.0, "step %d", i)
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "step %d", i)
	}
}

func TestWalk_FallsBackOnNonFiniteStep(t *testing.T) {
	// A NaN factor would poison every step; the walk keeps the last good
	// value instead and reports how often it had to.
	path, fallbacks := Walk(100, math.NaN(), 0.1, 5, rand.New(rand.NewSource(1)))
	assert.Equal(t, 5, fallbacks)
	for _, v := range path {
		assert.Equal(t, 100.0, v)
	}
}

func TestLogReturnVolatility(t *testing.T) {
	t.Run("steady growth", func(t *testing.T) {
		// Constant ratio means zero volatility.
		vol, fellBack := LogReturnVolatility([]float64{100, 110, 121, 133.1})
		assert.False(t, fellBack)
		assert.InDelta(t, 0, vol, 1e-9)
	})

	t.Run("non-positive value falls back", func(t *testing.T) {
		vol, fellBack := LogReturnVolatility([]float64{100, 0, 90, 95, 100, 105, 100, 95, 100, 105})
		assert.True(t, fellBack)
		assert.Equal(t, FallbackVolatility, vol)
	})

	t.Run("too short falls back", func(t *testing.T) {
		vol, fellBack := LogReturnVolatility([]float64{100})
		assert.True(t, fellBack)
		assert.Equal(t, FallbackVolatility, vol)
	})
}
