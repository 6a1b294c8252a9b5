package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"

	"github.com/leadlens/leadlens/models"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20 // 10 MB

// HTTPEngine is the static fetcher: plain net/http with a Chrome-like TLS
// fingerprint, per-attempt identity rotation and linear retry backoff.
type HTTPEngine struct {
	timeout      time.Duration
	maxRetries   int
	backoffUnit  time.Duration
	defaultProxy string
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Fallback: if spec generation fails, connections use HelloChrome_Auto
		// as-is. (Should never happen with a valid utls version.)
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates the static fetcher.
func NewHTTPEngine(timeout time.Duration, maxRetries int, backoffUnit time.Duration, defaultProxy string) *HTTPEngine {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if backoffUnit <= 0 {
		backoffUnit = time.Second
	}
	return &HTTPEngine{
		timeout:      timeout,
		maxRetries:   maxRetries,
		backoffUnit:  backoffUnit,
		defaultProxy: defaultProxy,
	}
}

// Fetch performs the GET with up to maxRetries attempts. Each retry rotates
// the User-Agent and backs off attempt × backoffUnit. A small random jitter
// precedes the first attempt so request timing stays unpredictable.
//
// Non-HTML content types and definitive client errors (4xx other than 429)
// fail immediately; network errors, rate limits, server errors and
// per-attempt timeouts are retried until the budget is exhausted, then
// surface as FETCH_FAILED or TIMEOUT carrying the attempt count.
func (e *HTTPEngine) Fetch(ctx context.Context, targetURL, proxy string) (*FetchResult, error) {
	if proxy == "" {
		proxy = e.defaultProxy
	}
	client, err := e.newClient(proxy)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed, "invalid proxy configuration", err)
	}
	defer client.CloseIdleConnections()

	// Jitter before the first attempt: 50-200ms.
	jitter := time.Duration(50+rand.IntN(151)) * time.Millisecond
	select {
	case <-ctx.Done():
		return nil, models.NewScrapeError(models.ErrCodeTimeout, "fetch canceled before first attempt", ctx.Err())
	case <-time.After(jitter):
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		result, err := e.attempt(ctx, client, targetURL, attempt)
		if err == nil {
			return result, nil
		}

		// A typed error from an attempt is a definitive answer about the
		// resource (wrong content type, 404, gone); retrying cannot
		// change it.
		var se *models.ScrapeError
		if errors.As(err, &se) {
			se.Attempts = attempt
			return nil, se
		}
		lastErr = err

		if attempt == e.maxRetries {
			break
		}
		backoff := time.Duration(attempt) * e.backoffUnit
		select {
		case <-ctx.Done():
			return nil, models.NewFetchError(models.ErrCodeTimeout, "fetch canceled during backoff", attempt, ctx.Err())
		case <-time.After(backoff):
		}
	}

	code := models.ErrCodeFetchFailed
	if errors.Is(lastErr, context.DeadlineExceeded) {
		code = models.ErrCodeTimeout
	}
	return nil, models.NewFetchError(code,
		fmt.Sprintf("fetch failed after %d attempts", e.maxRetries), e.maxRetries, lastErr)
}

// attempt performs one GET with its own timeout and the rotated identity.
func (e *HTTPEngine) attempt(ctx context.Context, client *http.Client, targetURL string, attempt int) (*FetchResult, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("http_engine: build request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgentForAttempt(attempt-1))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("http_engine: do request: %w", err)
	}
	defer resp.Body.Close()

	// A Content-Type that exists and is not HTML is rejected outright.
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidMIME,
			fmt.Sprintf("non-html content type %q", ct), nil)
	}

	if resp.StatusCode >= 400 {
		// Client errors other than 429 are definitive; only rate limits
		// and server errors are worth retrying.
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, models.NewScrapeError(models.ErrCodeFetchFailed,
				fmt.Sprintf("HTTP %d for %s", resp.StatusCode, targetURL), nil)
		}
		return nil, fmt.Errorf("http_engine: HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("http_engine: read body: %w", err)
	}

	return &FetchResult{
		HTML:       string(body),
		Headers:    flattenHeaders(resp.Header),
		StatusCode: resp.StatusCode,
	}, nil
}

// newClient builds an http.Client whose TLS connections present the Chrome
// ClientHello. Plain-HTTP targets use the default dialer.
func (e *HTTPEngine) newClient(proxy string) (*http.Client, error) {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: e.timeout}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, err
		}
		if proxyURL.Scheme == "http" || proxyURL.Scheme == "https" {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}, nil
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// flattenHeaders lowers header names and keeps the first value of each,
// which is the shape the extractors consume.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) > 0 {
			out[strings.ToLower(k)] = vs[0]
		}
	}
	return out
}
