package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute_SecondCallServedFromCache(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute)
	defer c.Close()

	computeCalls := 0
	compute := func() (string, error) {
		computeCalls++
		return "body", nil
	}

	first, err := c.GetOrCompute("http://example.com/data", compute)
	require.NoError(t, err)
	second, err := c.GetOrCompute("http://example.com/data", compute)
	require.NoError(t, err)

	assert.Equal(t, "body", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, computeCalls, "second call within TTL must not recompute")
}

func TestGetOrCompute_RecomputesAfterExpiry(t *testing.T) {
	t.Parallel()

	c := New[int](20 * time.Millisecond)
	defer c.Close()

	computeCalls := 0
	compute := func() (int, error) {
		computeCalls++
		return computeCalls, nil
	}

	_, err := c.GetOrCompute("key", compute)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	value, err := c.GetOrCompute("key", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
	assert.Equal(t, 2, computeCalls, "expired entry must trigger exactly one new compute")
}

func TestGetOrCompute_FailureNotCached(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute)
	defer c.Close()

	computeCalls := 0
	failing := func() (string, error) {
		computeCalls++
		return "", errors.New("fetch failed")
	}

	_, err := c.GetOrCompute("key", failing)
	require.Error(t, err)
	assert.Equal(t, 0, c.Size(), "failed compute must not be stored")

	// The next call retries instead of serving the failure for a TTL window.
	value, err := c.GetOrCompute("key", func() (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
	assert.Equal(t, 1, computeCalls)
}

func TestGet_ExpiredEntryRemoved(t *testing.T) {
	t.Parallel()

	c := New[string](10 * time.Millisecond)
	defer c.Close()

	c.Set("key", "value")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestSet_ReplacesEntryWholesale(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute)
	defer c.Close()

	c.Set("key", "old")
	c.Set("key", "new")

	value, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "new", value)
	assert.Equal(t, 1, c.Size())
}

func TestDelete(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute)
	defer c.Close()

	c.Set("key", "value")
	assert.True(t, c.Delete("key"))
	assert.False(t, c.Delete("key"))
}
