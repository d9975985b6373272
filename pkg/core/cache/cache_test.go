package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](DefaultConfig())

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	assert.Equal(t, 0, c.Len())

	hits, misses, rate := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.InDelta(t, 50.0, rate, 0.001)
}

func TestCache_Expiry(t *testing.T) {
	c := New[string, string](Config{MaxItems: 4, TTL: time.Minute})
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(30 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_EvictsOldest(t *testing.T) {
	c := New[int, int](Config{MaxItems: 2})
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { now = now.Add(time.Second); return now }

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(2, 20) // overwrite does not evict
	assert.Equal(t, 2, c.Len())

	c.Set(3, 3)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, 20, v)
}

func TestCache_GetOrSet(t *testing.T) {
	c := New[string, int](DefaultConfig())
	calls := 0
	compute := func() (int, error) { calls++; return 42, nil }

	v, err := c.GetOrSet("x", compute)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	_, _ = c.GetOrSet("x", compute)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrSet("y", func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
