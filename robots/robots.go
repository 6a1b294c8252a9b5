// Package robots evaluates robots.txt for advisory purposes only. A
// disallow match sets a warning flag on the extraction record; it never
// blocks the scrape. Every failure mode (network error, non-200 status,
// unparseable file) is treated as "allowed".
package robots

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/leadlens/leadlens/engine"
)

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024 // 512 KB

// cacheEntry stores the parsed robots.txt data for a host.
type cacheEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
	allowAll  bool // fetch failed or non-200: no restrictions
}

// Checker fetches and caches robots.txt per host.
type Checker struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	cacheTTL  time.Duration

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// NewChecker creates an advisory robots checker.
func NewChecker(timeout, cacheTTL time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Checker{
		client:    &http.Client{Timeout: timeout},
		userAgent: engine.DefaultUserAgent(),
		timeout:   timeout,
		cacheTTL:  cacheTTL,
		cache:     make(map[string]*cacheEntry),
	}
}

// Allowed reports whether robots.txt permits fetching the URL. Fail-open:
// any error on the way (bad URL, unreachable host, non-200, parse failure)
// returns true.
func (c *Checker) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true
	}

	entry := c.entryFor(ctx, parsed)
	if entry.allowAll {
		return true
	}

	group := entry.data.FindGroup(c.userAgent)
	if group == nil {
		return true
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}

func (c *Checker) entryFor(ctx context.Context, parsed *url.URL) *cacheEntry {
	host := strings.ToLower(parsed.Host)

	c.mu.RLock()
	entry, ok := c.cache[host]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) <= c.cacheTTL {
		return entry
	}

	entry = c.fetch(ctx, parsed.Scheme, host)

	c.mu.Lock()
	c.cache[host] = entry
	c.mu.Unlock()

	return entry
}

// fetch retrieves and parses {scheme}://{host}/robots.txt within the
// checker's timeout. Failures degrade to allow-all.
func (c *Checker) fetch(ctx context.Context, scheme, host string) *cacheEntry {
	allowAll := &cacheEntry{fetchedAt: time.Now(), allowAll: true}

	if scheme == "" {
		scheme = "https"
	}
	robotsURL := scheme + "://" + host + "/robots.txt"

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("robots fetch failed, allowing", "host", host, "error", err)
		return allowAll
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return allowAll
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return allowAll
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		slog.Debug("robots parse failed, allowing", "host", host, "error", err)
		return allowAll
	}

	return &cacheEntry{data: data, fetchedAt: time.Now()}
}
