// Package engine provides the page-fetching layer: a static HTTP fetcher
// with retry, backoff and identity rotation, a scoped headless-browser
// renderer for client-rendered pages, and the heuristics that decide when
// to escalate from the former to the latter.
package engine

import "context"

// FetchResult is the output of a fetch or render: the page HTML plus the
// response context the extractors need.
type FetchResult struct {
	HTML       string
	Headers    map[string]string
	StatusCode int

	// Rendered is true when the HTML came from the headless browser
	// rather than the static fetcher.
	Rendered bool
}

// Fetcher retrieves a page over plain HTTP.
type Fetcher interface {
	// Fetch performs the GET with retries and identity rotation.
	// proxy overrides the default outbound proxy when non-empty.
	Fetch(ctx context.Context, url, proxy string) (*FetchResult, error)
}

// Renderer retrieves a page through a JavaScript-executing browser.
type Renderer interface {
	// Render navigates to the URL, waits for network idle (and optionally
	// waitSelector, best-effort) and returns the post-JavaScript DOM.
	Render(ctx context.Context, url, waitSelector string) (*FetchResult, error)
}
