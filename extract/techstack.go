package extract

import (
	"log/slog"
	"strings"
)

// techPredicate is one pure technology detector. Predicates are independent
// and order-independent; the result is the set of names whose predicate
// matched. A predicate that panics is treated as no-match.
type techPredicate struct {
	name  string
	match func(p *Page) bool
}

// techPredicates is the detection battery. Each predicate keys off
// characteristic script URLs, inline globals, response headers or marker
// classes. Order only controls result ordering.
var techPredicates = []techPredicate{
	{"WordPress", htmlContains("wp-content/", "wp-includes/")},
	{"Shopify", htmlContains("cdn.shopify.com", "shopify.theme")},
	{"Wix", func(p *Page) bool {
		return strings.Contains(p.HTML, "static.wixstatic.com") || p.Header("x-wix-request-id") != ""
	}},
	{"Squarespace", htmlContains("static1.squarespace.com", "squarespace.analytics")},
	{"Webflow", func(p *Page) bool {
		return strings.Contains(p.HTML, "assets.website-files.com") ||
			p.Doc.Find("html.w-mod-js, .w-nav, .w-embed").Length() > 0
	}},
	{"Elementor", func(p *Page) bool {
		return p.Doc.Find(".elementor, [class*=elementor-]").Length() > 0
	}},
	{"Next.js", htmlContains("__NEXT_DATA__", "/_next/static/")},
	{"React", htmlContains("data-reactroot", "react-dom")},
	{"Vue.js", func(p *Page) bool {
		return strings.Contains(p.HTML, "data-v-app") || strings.Contains(p.HTML, "__VUE__")
	}},
	{"Nuxt", htmlContains("__NUXT__", "/_nuxt/")},
	{"Angular", func(p *Page) bool {
		return p.Doc.Find("[ng-version]").Length() > 0
	}},
	{"Gatsby", htmlContains("___gatsby")},
	{"jQuery", htmlContains("jquery.min.js", "jquery.js")},
	{"Bootstrap", htmlContains("bootstrap.min.css", "bootstrap.bundle")},
	{"Tailwind CSS", htmlContains("tailwindcss", "cdn.tailwindcss.com")},
	{"Google Analytics", htmlContains("google-analytics.com/analytics.js", "googletagmanager.com/gtag")},
	{"Google Tag Manager", htmlContains("googletagmanager.com/gtm.js")},
	{"HubSpot", htmlContains("js.hs-scripts.com", "js.hsforms.net")},
	{"Intercom", htmlContains("widget.intercom.io")},
	{"Stripe", htmlContains("js.stripe.com")},
	{"Cloudflare", func(p *Page) bool {
		return p.Header("cf-ray") != "" || strings.Contains(strings.ToLower(p.Header("server")), "cloudflare")
	}},
	{"Vercel", func(p *Page) bool {
		return p.Header("x-vercel-id") != "" || strings.Contains(strings.ToLower(p.Header("server")), "vercel")
	}},
	{"Netlify", func(p *Page) bool {
		return p.Header("x-nf-request-id") != "" || strings.Contains(strings.ToLower(p.Header("server")), "netlify")
	}},
	{"Nginx", func(p *Page) bool {
		return strings.Contains(strings.ToLower(p.Header("server")), "nginx")
	}},
	{"Apache", func(p *Page) bool {
		return strings.Contains(strings.ToLower(p.Header("server")), "apache")
	}},
}

// ExtractTechStack evaluates every predicate and returns the names that
// matched, in battery order, no duplicates.
func ExtractTechStack(p *Page) []string {
	stack := make([]string, 0, 8)
	for _, pred := range techPredicates {
		if safeMatch(pred, p) {
			stack = append(stack, pred.name)
		}
	}
	return stack
}

// safeMatch runs one predicate, swallowing panics so a single bad heuristic
// cannot fail the whole record.
func safeMatch(pred techPredicate, p *Page) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("tech predicate panicked, treated as no-match", "tech", pred.name, "panic", r)
			matched = false
		}
	}()
	return pred.match(p)
}

// htmlContains builds a predicate matching any of the needles in the raw
// HTML, case-insensitively.
func htmlContains(needles ...string) func(p *Page) bool {
	lowered := make([]string, len(needles))
	for i, n := range needles {
		lowered[i] = strings.ToLower(n)
	}
	return func(p *Page) bool {
		haystack := strings.ToLower(p.HTML)
		for _, n := range lowered {
			if strings.Contains(haystack, n) {
				return true
			}
		}
		return false
	}
}
