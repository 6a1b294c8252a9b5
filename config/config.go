package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	Robots    RobotsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the static HTTP fetcher.
type FetchConfig struct {
	// Timeout is the per-attempt request deadline.
	Timeout time.Duration // default: 10s

	// MaxRetries is the number of attempts before surfacing a fetch error.
	MaxRetries int // default: 3

	// BackoffUnit scales the linear retry backoff (attempt × BackoffUnit).
	BackoffUnit time.Duration // default: 1s

	// DefaultProxy is the default outbound proxy URL, if any.
	DefaultProxy string
}

// BrowserConfig controls the headless rendering escalation.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// NavigationTimeout is the budget for navigate + network idle.
	NavigationTimeout time.Duration // default: 15s

	// SelectorTimeout caps the best-effort wait for a caller selector.
	SelectorTimeout time.Duration // default: 5s

	// SettleDelay is the fixed wait after network idle before reading the DOM.
	SettleDelay time.Duration // default: 2s

	// BlockedResourceTypes lists resource types the renderer refuses to load.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// RenderMemoryTTL is how long a "this host needs rendering" memory lives.
	RenderMemoryTTL time.Duration // default: 24h
}

// RobotsConfig controls the advisory robots.txt check.
type RobotsConfig struct {
	// Timeout is the budget for fetching robots.txt.
	Timeout time.Duration // default: 5s

	// CacheTTL is how long a parsed robots.txt is reused per host.
	CacheTTL time.Duration // default: 24h
}

// CacheConfig controls the extraction-record cache.
type CacheConfig struct {
	// TTL is how long a cached record stays servable.
	TTL time.Duration // default: 12h

	// MaxEntries is the maximum number of cached records.
	MaxEntries int // default: 1000
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("LEADLENS_HOST", "0.0.0.0"),
			Port: envIntOr("LEADLENS_PORT", 8080),
			Mode: envOr("LEADLENS_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("LEADLENS_FETCH_TIMEOUT", 10*time.Second),
			MaxRetries:   envIntOr("LEADLENS_FETCH_RETRIES", 3),
			BackoffUnit:  envDurationOr("LEADLENS_FETCH_BACKOFF", time.Second),
			DefaultProxy: os.Getenv("LEADLENS_PROXY"),
		},
		Browser: BrowserConfig{
			Headless:          envBoolOr("LEADLENS_HEADLESS", true),
			NoSandbox:         envBoolOr("LEADLENS_NO_SANDBOX", false),
			BrowserBin:        os.Getenv("LEADLENS_BROWSER_BIN"),
			NavigationTimeout: envDurationOr("LEADLENS_NAV_TIMEOUT", 15*time.Second),
			SelectorTimeout:   envDurationOr("LEADLENS_SELECTOR_TIMEOUT", 5*time.Second),
			SettleDelay:       envDurationOr("LEADLENS_SETTLE_DELAY", 2*time.Second),
			BlockedResourceTypes: envSliceOr("LEADLENS_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			RenderMemoryTTL: envDurationOr("LEADLENS_RENDER_MEMORY_TTL", 24*time.Hour),
		},
		Robots: RobotsConfig{
			Timeout:  envDurationOr("LEADLENS_ROBOTS_TIMEOUT", 5*time.Second),
			CacheTTL: envDurationOr("LEADLENS_ROBOTS_CACHE_TTL", 24*time.Hour),
		},
		Cache: CacheConfig{
			TTL:        envDurationOr("LEADLENS_CACHE_TTL", 12*time.Hour),
			MaxEntries: envIntOr("LEADLENS_CACHE_MAX_ENTRIES", 1000),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("LEADLENS_RATE_RPS", 5.0),
			Burst:             envIntOr("LEADLENS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("LEADLENS_LOG_LEVEL", "info"),
			Format: envOr("LEADLENS_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
