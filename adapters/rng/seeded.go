// Package rng implements the RNG port with deterministic per-name streams.
package rng

import (
	"context"
	"math/rand"
)

// SeededAdapter derives an independent deterministic stream per operation name
// so concurrent per-field pipelines stay reproducible under a fixed base seed.
type SeededAdapter struct{}

func New() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	derived := seed
	if name != "" {
		derived += int64(hashString(name))
	}
	return rand.New(rand.NewSource(derived)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
