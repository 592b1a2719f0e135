package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Close()

	_, ok := c.Get("borough=Queens")
	assert.False(t, ok)

	c.Set("borough=Queens", "rows")
	v, ok := c.Get("borough=Queens")
	assert.True(t, ok)
	assert.Equal(t, "rows", v)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestExpiry(t *testing.T) {
	c := New[int](20 * time.Millisecond)
	defer c.Close()

	c.Set("k", 1)
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestGetOrLoad(t *testing.T) {
	c := New[[]int](time.Minute)
	defer c.Close()

	calls := 0
	load := func() ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	v, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)

	v, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Close()

	boom := errors.New("boom")
	_, err := c.GetOrLoad("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Size())

	v, err := c.GetOrLoad("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNonPositiveTTL(t *testing.T) {
	c := New[int](0)
	defer c.Close()

	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestCloseTwice(t *testing.T) {
	c := New[int](time.Minute)
	c.Close()
	assert.NotPanics(t, c.Close)
}
