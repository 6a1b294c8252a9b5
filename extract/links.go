package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/leadlens/leadlens/models"
)

// maxLinks caps how many links a record carries.
const maxLinks = 50

// ExtractLinks resolves every useful anchor to an absolute URL, classifies
// it internal or external against the target host (ignoring a leading
// "www."), de-duplicates by resolved URL and caps the result at 50.
func ExtractLinks(p *Page) []models.PageLink {
	links := make([]models.PageLink, 0, 16)
	seen := make(map[string]struct{})

	p.Doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return true
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") {
			return true
		}

		abs := p.ResolveURL(href)
		if abs == "" {
			return true
		}
		if _, dup := seen[abs]; dup {
			return true
		}
		seen[abs] = struct{}{}

		resolved, err := url.Parse(abs)
		if err != nil {
			return true
		}
		linkType := models.LinkExternal
		if hostOnly(resolved) == hostOnly(p.Base) {
			linkType = models.LinkInternal
		}

		links = append(links, models.PageLink{
			Text: cleanSpace(s.Text()),
			URL:  abs,
			Type: linkType,
		})
		return len(links) < maxLinks
	})

	return links
}
