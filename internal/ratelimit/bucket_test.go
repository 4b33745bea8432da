package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeFreshBucketStartsFull(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Unix(1700000000, 0)

	b, ok := Take(Bucket{}, cfg, 5, now)
	require.True(t, ok)
	assert.Equal(t, 5.0, b.Tokens)
	assert.Equal(t, now.UnixMilli(), b.UpdatedAtMS)
}

func TestTakeExhaustsCapacityWithinInterval(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Unix(1700000000, 0)

	var b Bucket
	var ok bool

	// capacity 10, cost 5: two requests fit, the third does not
	b, ok = Take(b, cfg, 5, now)
	require.True(t, ok)
	b, ok = Take(b, cfg, 5, now)
	require.True(t, ok)
	b, ok = Take(b, cfg, 5, now)
	assert.False(t, ok)
	assert.Equal(t, 0.0, b.Tokens)
}

func TestTakeRefillsOverTime(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Unix(1700000000, 0)

	var b Bucket
	var ok bool
	b, _ = Take(b, cfg, 5, now)
	b, _ = Take(b, cfg, 5, now)
	b, ok = Take(b, cfg, 5, now)
	require.False(t, ok)

	// one full interval restores 5 tokens
	b, ok = Take(b, cfg, 5, now.Add(cfg.RefillInterval))
	assert.True(t, ok)

	// immediately after, budget is spent again
	_, ok = Take(b, cfg, 5, now.Add(cfg.RefillInterval))
	assert.False(t, ok)
}

func TestTakeNeverOverfills(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Unix(1700000000, 0)

	b, _ := Take(Bucket{}, cfg, 5, now)
	b, ok := Take(b, cfg, 5, now.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, cfg.Capacity-5, b.Tokens)
}
