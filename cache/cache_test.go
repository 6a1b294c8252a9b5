package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlens/leadlens/models"
)

func TestKeyDeterministic(t *testing.T) {
	assert.Equal(t, Key("https://acme.io"), Key("https://acme.io"))
	assert.NotEqual(t, Key("https://acme.io"), Key("https://acme.io/about"))
	assert.Len(t, Key("https://acme.io"), 32)
}

func TestCacheRoundTrip(t *testing.T) {
	c := New(time.Hour, 10)
	key := Key("https://acme.io")

	_, hit := c.Get(key)
	assert.False(t, hit)

	rec := &models.ExtractionRecord{URL: "https://acme.io", Title: "Acme"}
	c.Set(key, rec)

	got, hit := c.Get(key)
	require.True(t, hit)
	assert.Equal(t, "Acme", got.Title)
	assert.True(t, got.Meta.Cached, "cache hits carry the cached flag")
	assert.False(t, rec.Meta.Cached, "the caller's record is untouched")

	// The returned record is a copy, not shared state.
	got.Title = "mutated"
	again, _ := c.Get(key)
	assert.Equal(t, "Acme", again.Title)
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(10*time.Millisecond, 10)
	key := Key("https://acme.io")
	c.Set(key, &models.ExtractionRecord{URL: "https://acme.io"})

	_, hit := c.Get(key)
	require.True(t, hit)

	time.Sleep(20 * time.Millisecond)
	_, hit = c.Get(key)
	assert.False(t, hit, "stale entries read as missing")
	assert.Equal(t, 1, c.Len(), "expiry does not evict")
}

func TestCacheOverwrite(t *testing.T) {
	c := New(time.Hour, 10)
	key := Key("https://acme.io")

	c.Set(key, &models.ExtractionRecord{Title: "first"})
	c.Set(key, &models.ExtractionRecord{Title: "second"})

	got, hit := c.Get(key)
	require.True(t, hit)
	assert.Equal(t, "second", got.Title)
	assert.Equal(t, 1, c.Len())
}

func TestCacheCapacityEviction(t *testing.T) {
	c := New(time.Hour, 3)
	for _, u := range []string{"a", "b", "c", "d"} {
		c.Set(Key("https://"+u+".io"), &models.ExtractionRecord{URL: u})
	}
	assert.Equal(t, 3, c.Len())
}
