package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leadlens/leadlens/models"
)

// platformDomains maps platform keys to the hostnames that identify them.
// Order is fixed; within a page the first matching URL per platform wins
// and is never overwritten.
var platformDomains = []struct {
	platform string
	domains  []string
}{
	{models.PlatformLinkedIn, []string{"linkedin.com"}},
	{models.PlatformTwitter, []string{"twitter.com", "x.com"}},
	{models.PlatformFacebook, []string{"facebook.com", "fb.com"}},
	{models.PlatformInstagram, []string{"instagram.com"}},
	{models.PlatformYouTube, []string{"youtube.com", "youtu.be"}},
	{models.PlatformGitHub, []string{"github.com"}},
}

// ExtractSocials makes a single pass over all anchors and returns one URL
// per recognised platform.
func ExtractSocials(p *Page) map[string]string {
	socials := make(map[string]string)
	p.Doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		abs := p.ResolveURL(s.AttrOr("href", ""))
		if abs == "" {
			return
		}
		platform := matchPlatform(abs)
		if platform == "" {
			return
		}
		if _, taken := socials[platform]; !taken {
			socials[platform] = abs
		}
	})
	return socials
}

// matchPlatform returns the platform key for a URL, or "".
// Matching is by hostname suffix so subdomains ("www.", "uk.linkedin.com")
// count, but look-alike paths on other hosts do not.
func matchPlatform(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, entry := range platformDomains {
		for _, domain := range entry.domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				// Bare platform homepages carry no profile information.
				if u.Path == "" || u.Path == "/" {
					continue
				}
				return entry.platform
			}
		}
	}
	return ""
}
