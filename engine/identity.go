package engine

// desktopAgents is the rotation pool for outbound User-Agent headers.
// All entries are current desktop browsers; mixing engines makes simple
// per-UA bot filters less effective across retries.
var desktopAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// UserAgentForAttempt returns a deterministic rotation over the pool so a
// retried request never reuses the previous attempt's identity.
func UserAgentForAttempt(attempt int) string {
	if attempt < 0 {
		attempt = 0
	}
	return desktopAgents[attempt%len(desktopAgents)]
}

// DefaultUserAgent is the identity used where rotation makes no sense,
// such as the robots.txt advisory fetch.
func DefaultUserAgent() string {
	return desktopAgents[0]
}
