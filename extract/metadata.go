package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Metadata holds the page-level fields pulled from <title> and <meta> tags.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	Author      string
	Language    string
	Canonical   string
	ThemeColor  string
	SiteName    string
	Favicon     string
	Image       string
	Logo        string
}

// screenshotService renders a page screenshot from its URL. Tier 4 of the
// image fallback chain: always succeeds syntactically, so Image is populated
// even for an empty document.
const screenshotService = "https://image.thum.io/get/width/1200/crop/800/noanimate/"

// ExtractMetadata pulls title/description/keywords/author/language/canonical/
// theme-color/site-name from standard tags, preferring Open Graph variants,
// and resolves the favicon, a representative image and a logo.
func ExtractMetadata(p *Page) Metadata {
	m := Metadata{}

	m.Title = firstNonEmpty(
		metaContent(p, `meta[property="og:title"]`),
		metaContent(p, `meta[name="twitter:title"]`),
		cleanSpace(p.Doc.Find("title").First().Text()),
	)
	m.Description = firstNonEmpty(
		metaContent(p, `meta[property="og:description"]`),
		metaContent(p, `meta[name="description"]`),
		metaContent(p, `meta[name="twitter:description"]`),
	)
	if kw := metaContent(p, `meta[name="keywords"]`); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if trimmed := strings.TrimSpace(k); trimmed != "" {
				m.Keywords = append(m.Keywords, trimmed)
			}
		}
	}
	m.Author = metaContent(p, `meta[name="author"]`)
	m.Language = firstNonEmpty(
		strings.TrimSpace(p.Doc.Find("html").AttrOr("lang", "")),
		metaContent(p, `meta[http-equiv="content-language"]`),
	)
	m.Canonical = p.ResolveURL(p.Doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	m.ThemeColor = metaContent(p, `meta[name="theme-color"]`)
	m.SiteName = metaContent(p, `meta[property="og:site_name"]`)

	m.Favicon = extractFavicon(p)
	m.Image = extractImage(p)
	m.Logo = extractLogo(p)

	return m
}

// extractFavicon resolves the page favicon, defaulting to /favicon.ico.
func extractFavicon(p *Page) string {
	for _, sel := range []string{
		`link[rel="icon"]`,
		`link[rel="shortcut icon"]`,
		`link[rel="apple-touch-icon"]`,
	} {
		if href := p.Doc.Find(sel).First().AttrOr("href", ""); href != "" {
			if resolved := p.ResolveURL(href); resolved != "" {
				return resolved
			}
		}
	}
	return p.ResolveURL("/favicon.ico")
}

// reImageURL matches image file URLs in raw HTML for fallback tier 3.
var reImageURL = regexp.MustCompile(`https?://[^\s"'<>]+?\.(?:png|jpe?g|webp|gif)`)

// reIconLike filters out favicon-ish candidates in the regex tier.
var reIconLike = regexp.MustCompile(`(?i)(favicon|icon|logo|sprite|pixel|badge|emoji)`)

// extractImage resolves a representative page image through a 4-tier
// fallback chain, each tier attempted only if the prior yields nothing:
//
//  1. og:image / twitter:image meta tags
//  2. first <img> inside main/header/article
//  3. regex scan of the raw HTML for any image URL that isn't icon-like
//  4. screenshot-service URL built from the page URL (always succeeds)
func extractImage(p *Page) string {
	if og := firstNonEmpty(
		metaContent(p, `meta[property="og:image"]`),
		metaContent(p, `meta[name="twitter:image"]`),
		metaContent(p, `meta[property="twitter:image"]`),
	); og != "" {
		if resolved := p.ResolveURL(og); resolved != "" {
			return resolved
		}
	}

	for _, container := range []string{"main", "header", "article"} {
		src := p.Doc.Find(container + " img[src]").First().AttrOr("src", "")
		if resolved := p.ResolveURL(src); resolved != "" {
			return resolved
		}
	}

	for _, candidate := range reImageURL.FindAllString(p.HTML, 20) {
		if !reIconLike.MatchString(candidate) {
			return candidate
		}
	}

	return screenshotService + p.Base.String()
}

// extractLogo looks for an explicit logo: an <img> whose class, id, src or
// alt mentions "logo", preferring ones inside the header or nav.
func extractLogo(p *Page) string {
	var logo string
	for _, scope := range []string{"header ", "nav ", ""} {
		p.Doc.Find(scope + "img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			hay := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", "") + " " +
				s.AttrOr("src", "") + " " + s.AttrOr("alt", ""))
			if strings.Contains(hay, "logo") {
				logo = p.ResolveURL(s.AttrOr("src", ""))
				return false
			}
			return true
		})
		if logo != "" {
			return logo
		}
	}
	return ""
}

func metaContent(p *Page, selector string) string {
	return strings.TrimSpace(p.Doc.Find(selector).First().AttrOr("content", ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// hostOnly strips a leading "www." for host comparisons.
func hostOnly(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
