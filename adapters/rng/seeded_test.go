package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStream_SameNameSameSequence(t *testing.T) {
	adapter := New()
	ctx := context.Background()

	a, err := adapter.SeededStream(ctx, "revenue", 1)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "revenue", 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
}

func TestSeededStream_DifferentNamesDiverge(t *testing.T) {
	adapter := New()
	ctx := context.Background()

	a, err := adapter.SeededStream(ctx, "revenue", 1)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "costs", 1)
	require.NoError(t, err)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "distinct field names must produce distinct streams")
}

func TestSeededStream_SeedChangesStream(t *testing.T) {
	adapter := New()
	ctx := context.Background()

	a, err := adapter.SeededStream(ctx, "revenue", 1)
	require.NoError(t, err)
	b, err := adapter.SeededStream(ctx, "revenue", 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.Float64(), b.Float64())
}

func TestSeededStream_EmptyNameUsesBaseSeed(t *testing.T) {
	adapter := New()

	a, err := adapter.SeededStream(context.Background(), "", 42)
	require.NoError(t, err)
	b, err := adapter.SeededStream(context.Background(), "", 42)
	require.NoError(t, err)

	assert.Equal(t, a.Int63(), b.Int63())
}
