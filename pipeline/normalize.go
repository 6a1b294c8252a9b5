package pipeline

import (
	"net/url"
	"strings"

	"github.com/leadlens/leadlens/models"
)

// Normalize canonicalizes a user-supplied URL string: https is assumed when
// no scheme is present, and a trailing slash is stripped from non-root
// paths. The result is idempotent, so the cache key, the robots check and
// the fetch all agree on one canonical form.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", models.NewScrapeError(models.ErrCodeInvalidURL, "empty url", nil)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeInvalidURL, "unparseable url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", models.NewScrapeError(models.ErrCodeInvalidURL, "unsupported scheme "+u.Scheme, nil)
	}
	if u.Hostname() == "" {
		return "", models.NewScrapeError(models.ErrCodeInvalidURL, "missing host", nil)
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}
