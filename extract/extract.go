// Package extract implements the heuristic extractor battery: metadata,
// contacts, socials, links, tech stack, summary/content and team members.
// Every extractor is a pure function of the same parsed page; they share no
// state and are safe to run concurrently.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is the parsed input every extractor operates on: one goquery
// document, the raw HTML it was parsed from, the response headers and the
// base URL relative references resolve against.
type Page struct {
	Doc     *goquery.Document
	HTML    string
	Headers map[string]string
	Base    *url.URL
}

// NewPage parses rawHTML into a Page. baseURL must be the normalized target
// URL; relative links found in the markup resolve against it.
func NewPage(rawHTML string, headers map[string]string, baseURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		headers = map[string]string{}
	}
	return &Page{Doc: doc, HTML: rawHTML, Headers: headers, Base: base}, nil
}

// Header returns a response header by lowercase name.
func (p *Page) Header(name string) string {
	return p.Headers[strings.ToLower(name)]
}

// ResolveURL turns a reference found in markup into an absolute URL string.
// Protocol-relative references ("//host/...") are rewritten to https.
// Returns "" for unresolvable or non-http(s) results.
func (p *Page) ResolveURL(ref string) string {
	return resolveRef(p.Base, ref)
}

func resolveRef(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}
	resolved, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// mainContentSelectors are the containers a page's primary content usually
// lives in, tried before falling back to the whole body.
var mainContentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	"#main",
	".main",
	"#content",
	".content",
	".main-content",
}

// cleanSpace collapses all runs of whitespace into single spaces.
func cleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
