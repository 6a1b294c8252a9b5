package engine

import (
	"sync"
	"time"
)

// renderEntry marks a host as needing browser rendering, with a TTL.
type renderEntry struct {
	expiresAt time.Time
}

// RenderMemory remembers which hosts turned out to be client-rendered, so a
// repeat scrape of a known SPA host escalates straight to the browser
// instead of re-running the shell heuristics on a useless static fetch.
// Entries expire after the configured TTL.
type RenderMemory struct {
	store sync.Map // host (string) -> *renderEntry
	ttl   time.Duration
}

// NewRenderMemory creates a RenderMemory with the given TTL.
func NewRenderMemory(ttl time.Duration) *RenderMemory {
	return &RenderMemory{ttl: ttl}
}

// Needed reports whether the host is remembered as requiring rendering.
func (rm *RenderMemory) Needed(host string) bool {
	val, ok := rm.store.Load(host)
	if !ok {
		return false
	}
	entry := val.(*renderEntry)
	if time.Now().After(entry.expiresAt) {
		rm.store.Delete(host)
		return false
	}
	return true
}

// MarkNeeded records that the host required rendering.
func (rm *RenderMemory) MarkNeeded(host string) {
	rm.store.Store(host, &renderEntry{expiresAt: time.Now().Add(rm.ttl)})
}

// Forget drops the memory for a host (e.g. after a render attempt failed
// and the static HTML served fine).
func (rm *RenderMemory) Forget(host string) {
	rm.store.Delete(host)
}
