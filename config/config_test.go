package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, time.Second, cfg.Fetch.BackoffUnit)
	assert.Equal(t, 15*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, []string{"Image", "Font", "Media"}, cfg.Browser.BlockedResourceTypes)
	assert.Equal(t, 5*time.Second, cfg.Robots.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEADLENS_PORT", "9999")
	t.Setenv("LEADLENS_FETCH_TIMEOUT", "30s")
	t.Setenv("LEADLENS_HEADLESS", "false")
	t.Setenv("LEADLENS_BLOCKED_RESOURCES", "Image, Stylesheet")
	t.Setenv("LEADLENS_RATE_RPS", "2.5")

	cfg := Load()
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"Image", "Stylesheet"}, cfg.Browser.BlockedResourceTypes)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("LEADLENS_PORT", "not-a-number")
	t.Setenv("LEADLENS_FETCH_TIMEOUT", "soon")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
}
