package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Thresholds for the shell heuristics. Coarse by design: the caller treats
// NeedsRender as a replaceable policy, and a zero-contact static extraction
// independently triggers escalation in the pipeline.
const (
	shellHTMLSize    = 4096 // bytes of HTML below which a mount div implies a shell
	shellVisibleText = 200  // bytes of visible body text below which we assume a shell
)

// hydrationMarkers are framework fingerprints that only appear on pages
// whose content is produced client-side.
var hydrationMarkers = []string{
	`id="__next"`,
	`__next_data__`,
	`data-reactroot`,
	`ng-version=`,
	`window.__nuxt__`,
	`id="___gatsby"`,
	`data-server-rendered`,
}

// mountDivs are empty SPA root containers.
var mountDivs = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<div id="__next"></div>`,
}

var reNoscriptJS = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)

// HydrationEvidence reports hard framework fingerprints in the statically
// fetched HTML: empty mount divs, hydration markers on small documents and
// noscript "enable JavaScript" warnings. These justify a browser re-fetch
// even when the static page already yielded something usable.
func HydrationEvidence(rawHTML string) bool {
	lower := strings.ToLower(rawHTML)

	for _, m := range mountDivs {
		if strings.Contains(lower, m) {
			return true
		}
	}

	if len(rawHTML) < shellHTMLSize {
		for _, marker := range hydrationMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		if strings.Contains(lower, `id="root"`) || strings.Contains(lower, `id="app"`) {
			return true
		}
	}

	return reNoscriptJS.MatchString(lower)
}

// NeedsRender reports whether the statically fetched HTML is likely a
// client-rendered shell that the headless browser should re-fetch. Beyond
// the hard evidence it also treats low visible-text volume as a shell
// signal, so callers that already extracted what they need from the static
// page should consult HydrationEvidence instead.
func NeedsRender(rawHTML string) bool {
	if HydrationEvidence(rawHTML) {
		return true
	}

	visible := VisibleText(rawHTML)
	if len(visible) < shellVisibleText {
		return true
	}

	// Script-heavy page with almost no body text.
	if strings.Count(strings.ToLower(rawHTML), "<script") > 10 && len(visible) < 500 {
		return true
	}

	return false
}

// VisibleText extracts the visible text from within <body>, stripping all
// tags and <script>/<style>/<noscript> content. Used for heuristic sizing,
// not for extraction output.
func VisibleText(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))
	var buf strings.Builder
	inBody := false
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "body" {
				inBody = true
			}
			if tag == "script" || tag == "style" || tag == "noscript" {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			tag := string(tn)
			if tag == "script" || tag == "style" || tag == "noscript" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if inBody && skipDepth == 0 {
				text := strings.TrimSpace(string(tokenizer.Text()))
				if text != "" {
					buf.WriteString(text)
					buf.WriteByte(' ')
				}
			}
		}
	}
}
