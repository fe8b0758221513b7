package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	c := New(time.Minute)
	c.Set("products:list", []string{"a", "b"}, time.Minute)

	v, ok := c.Get("products:list")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLazyExpiry(t *testing.T) {
	c := New(time.Hour) // janitor never fires during the test
	c.Set("k", 1, 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok, "expired entry must be absent without janitor help")
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestClearPattern(t *testing.T) {
	c := New(time.Minute)
	c.Set("products:list", 1, time.Minute)
	c.Set("products:low-stock", 2, time.Minute)
	c.Set("areas:list", 3, time.Minute)

	n, err := c.ClearPattern(`^products:`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok := c.Get("products:list")
	assert.False(t, ok)
	_, ok = c.Get("areas:list")
	assert.True(t, ok)
}

func TestClearPatternBadRegexp(t *testing.T) {
	c := New(time.Minute)
	_, err := c.ClearPattern(`(`)
	assert.Error(t, err)
}

func TestStatsCountsHitsAndMisses(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 1, time.Minute)

	c.Get("k")
	c.Get("k")
	c.Get("nope")

	s := c.Stats()
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Entries)
}

func TestJanitorEvicts(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Start()
	defer c.Stop()

	c.Set("k", 1, time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, c.Stats().Entries)
}
