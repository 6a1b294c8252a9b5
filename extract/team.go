package extract

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/leadlens/leadlens/models"
)

// maxTeamMembers caps the team roster regardless of strategy.
const maxTeamMembers = 20

// FetchFunc retrieves the HTML of a secondary page (the discovered
// team/about page). A failure is non-fatal; extraction falls back to the
// page already in hand.
type FetchFunc func(ctx context.Context, url string) (string, error)

// teamLinkHints are href substrings that suggest a team page, in priority
// order.
var teamLinkHints = []string{"team", "about", "people", "company", "leadership", "staff"}

// teamPatternSources are CSS-class heuristics for team member cards, in
// priority order. Site-builder-specific patterns come first; generic grid
// columns are a last, riskier resort. A pattern must match at least two
// elements before it is trusted as a team list.
var teamPatternSources = []string{
	".team-member",
	".team_member",
	".team-card",
	".member",
	".person",
	".profile-card",
	".staff-member",
	".elementor-team-member",
	".wp-block-media-text",
	".w-dyn-item",
	".card",
	".col, .column",
	".grid > div",
}

// teamPatterns holds the compiled selectors. Compilation happens once at
// init; a selector that fails to compile is skipped, so one malformed
// heuristic never takes down the battery.
var teamPatterns []cascadia.Selector

func init() {
	for _, src := range teamPatternSources {
		sel, err := cascadia.Compile(src)
		if err != nil {
			slog.Warn("team pattern failed to compile, skipped", "selector", src, "error", err)
			continue
		}
		teamPatterns = append(teamPatterns, sel)
	}
}

var reSectionHeading = []string{"team", "leadership", "people", "management"}

// ExtractTeam finds team members in two escalating strategies:
//
// Strategy A locates a team/about link on the page, fetches that page when
// it differs from the current one (fetch failure falls back to the current
// HTML), and scans the prioritized CSS-class patterns for member cards. A
// card yields a member only when a plausible name is accompanied by an
// image; a role is accepted only when it differs from the name.
//
// Strategy B, when A finds nothing, looks for "team"-ish headings, inspects
// the nearest ancestor section for at least two real images, and pairs each
// with nearby text as a name, de-duplicated by name.
func ExtractTeam(ctx context.Context, p *Page, fetch FetchFunc) []models.TeamMember {
	doc, base := p.Doc, p.Base

	if teamURL := findTeamPageURL(p); teamURL != "" && teamURL != p.Base.String() && fetch != nil {
		if html, err := fetch(ctx, teamURL); err == nil {
			if teamDoc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(html)); parseErr == nil {
				if teamBase, urlErr := url.Parse(teamURL); urlErr == nil {
					doc, base = teamDoc, teamBase
				}
			}
		} else {
			slog.Debug("team page fetch failed, using current page", "url", teamURL, "error", err)
		}
	}

	if members := teamFromPatterns(doc, base); len(members) > 0 {
		return members
	}
	return teamFromSections(doc, base)
}

// findTeamPageURL returns the best candidate team-page link on the page,
// preferring earlier hints and requiring the link to stay on the same host.
func findTeamPageURL(p *Page) string {
	for _, hint := range teamLinkHints {
		var found string
		p.Doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href := strings.ToLower(s.AttrOr("href", ""))
			if !strings.Contains(href, hint) {
				return true
			}
			abs := p.ResolveURL(s.AttrOr("href", ""))
			if abs == "" {
				return true
			}
			resolved, err := url.Parse(abs)
			if err != nil || hostOnly(resolved) != hostOnly(p.Base) {
				return true
			}
			found = abs
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// teamFromPatterns is Strategy A's scan over the compiled pattern battery.
func teamFromPatterns(doc *goquery.Document, base *url.URL) []models.TeamMember {
	for _, sel := range teamPatterns {
		nodes := doc.FindMatcher(sel)
		if nodes.Length() < 2 {
			continue
		}

		var members []models.TeamMember
		nodes.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if m, ok := memberFromCard(card, base); ok {
				members = append(members, m)
			}
			return len(members) < maxTeamMembers
		})
		// Two matching elements are enough to trust the pattern; keep
		// whatever cards validated, even a single one.
		if len(members) > 0 {
			return members
		}
	}
	return nil
}

// memberFromCard extracts one member from a candidate card element. The
// name must come from a heading/name-class/strong node and be accompanied
// by an image; otherwise the card is rejected.
func memberFromCard(card *goquery.Selection, base *url.URL) (models.TeamMember, bool) {
	name := ""
	card.Find("h1, h2, h3, h4, h5, h6, .name, [class*=name], strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		candidate := cleanSpace(s.Text())
		if plausibleName(candidate) {
			name = candidate
			return false
		}
		return true
	})
	if name == "" {
		return models.TeamMember{}, false
	}

	image := resolveRef(base, card.Find("img[src]").First().AttrOr("src", ""))
	if image == "" {
		return models.TeamMember{}, false
	}

	m := models.TeamMember{Name: name, Image: image}

	card.Find(".role, .title, .position, [class*=role], [class*=title], [class*=position], p, span, em").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		role := cleanSpace(s.Text())
		if role != "" && role != name && len(role) <= 80 {
			m.Role = role
			return false
		}
		return true
	})

	card.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		abs := resolveRef(base, s.AttrOr("href", ""))
		if abs == "" {
			return
		}
		if platform := matchPlatform(abs); platform != "" {
			if m.Socials == nil {
				m.Socials = make(map[string]string)
			}
			if _, taken := m.Socials[platform]; !taken {
				m.Socials[platform] = abs
			}
		}
	})

	return m, true
}

// teamFromSections is Strategy B: heading-anchored sections with enough
// real imagery, names paired from alt text or nearby emphasis.
func teamFromSections(doc *goquery.Document, base *url.URL) []models.TeamMember {
	var members []models.TeamMember
	seen := make(map[string]struct{})

	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(heading.Text())
		matched := false
		for _, kw := range reSectionHeading {
			if strings.Contains(text, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		section := heading.Closest("section, div")
		if section.Length() == 0 {
			return true
		}

		imgs := section.Find("img[src]").FilterFunction(func(_ int, img *goquery.Selection) bool {
			return plausiblePortrait(img)
		})
		if imgs.Length() < 2 {
			return true
		}

		imgs.EachWithBreak(func(_ int, img *goquery.Selection) bool {
			name := nameNearImage(img)
			if name == "" {
				return true
			}
			if _, dup := seen[name]; dup {
				return true
			}
			seen[name] = struct{}{}
			members = append(members, models.TeamMember{
				Name:  name,
				Image: resolveRef(base, img.AttrOr("src", "")),
			})
			return len(members) < maxTeamMembers
		})
		return len(members) < maxTeamMembers
	})

	return members
}

// plausiblePortrait rejects images that are explicitly small (≤50px wide)
// or obviously iconography.
func plausiblePortrait(img *goquery.Selection) bool {
	if w := img.AttrOr("width", ""); w != "" {
		if width, err := strconv.Atoi(strings.TrimSuffix(w, "px")); err == nil && width <= 50 {
			return false
		}
	}
	src := strings.ToLower(img.AttrOr("src", ""))
	return !reIconLike.MatchString(src)
}

// nameNearImage pairs an image with a person name: alt text first, then
// emphasised text in the image's parent.
func nameNearImage(img *goquery.Selection) string {
	if alt := cleanSpace(img.AttrOr("alt", "")); plausibleName(alt) {
		return alt
	}
	name := ""
	img.Parent().Find("h1, h2, h3, h4, h5, h6, strong, b, .name, figcaption").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		candidate := cleanSpace(s.Text())
		if plausibleName(candidate) {
			name = candidate
			return false
		}
		return true
	})
	return name
}

// plausibleName accepts 2-40 character strings that aren't section
// keywords masquerading as names.
func plausibleName(s string) bool {
	if len(s) < 2 || len(s) > 40 {
		return false
	}
	lower := strings.ToLower(s)
	for _, kw := range reSectionHeading {
		if lower == kw || lower == "our "+kw || lower == "the "+kw || lower == "meet the "+kw {
			return false
		}
	}
	return true
}
