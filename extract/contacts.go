package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxContacts caps how many emails and phones a record carries.
const maxContacts = 5

// Contacts holds validated emails and phone numbers, insertion-ordered and
// de-duplicated.
type Contacts struct {
	Emails []string
	Phones []string
}

var (
	reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	rePhone = regexp.MustCompile(`\+?[0-9][0-9().\-\s]{7,18}[0-9]`)

	reEmailImageSuffix = regexp.MustCompile(`(?i)\.(png|jpe?g|webp|gif|svg)$`)
)

// ExtractContacts collects emails and phones from tiered sources, each kind
// short-circuiting once non-empty:
//
//	tier 1: mailto:/tel: links          (explicit, highest trust)
//	tier 2: data-email/data-phone attrs (machine-readable markup)
//	tier 3: free-text regex scan, restricted to main-content containers
//
// Free-text scanning never runs when the structured tiers already produced
// results, which keeps junk from diluting high-trust matches.
func ExtractContacts(p *Page) Contacts {
	emails := newOrderedSet(maxContacts)
	phones := newOrderedSet(maxContacts)

	// ── Tier 1: mailto:/tel: links ──────────────────────────────────
	p.Doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		addr := strings.TrimPrefix(s.AttrOr("href", ""), "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if ValidEmail(addr) {
			emails.add(strings.ToLower(addr))
		}
	})
	p.Doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		num := strings.TrimPrefix(s.AttrOr("href", ""), "tel:")
		if ValidPhone(num) {
			phones.add(strings.TrimSpace(num))
		}
	})

	// ── Tier 2: data attributes ─────────────────────────────────────
	if emails.empty() {
		p.Doc.Find("[data-email]").Each(func(_ int, s *goquery.Selection) {
			if addr := s.AttrOr("data-email", ""); ValidEmail(addr) {
				emails.add(strings.ToLower(addr))
			}
		})
	}
	if phones.empty() {
		p.Doc.Find("[data-phone]").Each(func(_ int, s *goquery.Selection) {
			if num := s.AttrOr("data-phone", ""); ValidPhone(num) {
				phones.add(strings.TrimSpace(num))
			}
		})
	}

	// ── Tier 3: free-text scan of main-content containers ───────────
	if emails.empty() || phones.empty() {
		text := mainContentText(p)
		if emails.empty() {
			for _, addr := range reEmail.FindAllString(text, 20) {
				if ValidEmail(addr) {
					emails.add(strings.ToLower(addr))
				}
			}
		}
		if phones.empty() {
			for _, num := range rePhone.FindAllString(text, 20) {
				if ValidPhone(num) {
					phones.add(strings.TrimSpace(num))
				}
			}
		}
	}

	return Contacts{Emails: emails.values, Phones: phones.values}
}

// ValidEmail reports whether s looks like a real, usable contact address.
// Rejects image filenames that match the RFC shape ("logo@2x.png"), URL
// fragments and common placeholders.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 5 || len(s) > 254 {
		return false
	}
	if !reEmail.MatchString(s) || reEmail.FindString(s) != s {
		return false
	}
	if reEmailImageSuffix.MatchString(s) {
		return false
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http") {
		return false
	}
	for _, placeholder := range []string{"example", "noreply", "no-reply"} {
		if strings.Contains(lower, placeholder) {
			return false
		}
	}
	if strings.HasPrefix(lower, "test@") {
		return false
	}
	return true
}

// ValidPhone accepts numbers whose digit count (punctuation excluded) is
// between 10 and 15.
func ValidPhone(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 15
}

// mainContentText returns the text of the first main-content container that
// has any, falling back to the whole body.
func mainContentText(p *Page) string {
	for _, sel := range mainContentSelectors {
		if text := p.Doc.Find(sel).Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return p.Doc.Find("body").Text()
}

// orderedSet is a small insertion-ordered string set with a cap.
type orderedSet struct {
	values []string
	seen   map[string]struct{}
	cap    int
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}), cap: capacity}
}

func (s *orderedSet) add(v string) {
	if len(s.values) >= s.cap {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *orderedSet) empty() bool { return len(s.values) == 0 }
