package models

// Social platform names used as keys in ExtractionRecord.Socials and
// TeamMember.Socials. One URL per platform; the first match on a page wins.
const (
	PlatformLinkedIn  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformGitHub    = "github"
)

// Platforms lists every recognised social platform key.
var Platforms = []string{
	PlatformLinkedIn,
	PlatformTwitter,
	PlatformFacebook,
	PlatformInstagram,
	PlatformYouTube,
	PlatformGitHub,
}

// ExtractionRecord is the durable output of one scrape: a flat aggregate of
// everything the extractor battery pulled from the page. It is a value, never
// mutated after construction; cache hits return a copy with Meta.Cached
// flipped.
type ExtractionRecord struct {
	// URL is the normalized target URL. Never empty.
	URL string `json:"url"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Favicon     string `json:"favicon,omitempty"`

	// Image is filled by an ordered fallback chain ending in a screenshot
	// service URL, so it is populated even when the markup has no imagery.
	Image string `json:"image,omitempty"`
	Logo  string `json:"logo,omitempty"`

	Keywords []string `json:"keywords,omitempty"`

	// Emails and Phones are validated, de-duplicated, insertion-ordered and
	// capped at 5 entries each.
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`

	// Socials maps platform name to a single profile URL.
	Socials map[string]string `json:"socials"`

	// TechStack is the set of detected technology names, order preserved.
	TechStack []string `json:"tech_stack"`

	// Summary is at most 600 characters assembled from up to 8 meaningful
	// text blocks.
	Summary string `json:"summary,omitempty"`

	// Content is the full extracted visible text (or markdown when the
	// request asked for it), newline-joined between block elements.
	Content string `json:"content,omitempty"`

	// Team holds up to 20 team members.
	Team []TeamMember `json:"team"`

	// Links holds up to 50 de-duplicated page links.
	Links []PageLink `json:"links"`

	Meta Meta `json:"meta"`
}

// TeamMember is one person found on a team/about page.
type TeamMember struct {
	Name    string            `json:"name"`
	Role    string            `json:"role,omitempty"`
	Image   string            `json:"image,omitempty"`
	Socials map[string]string `json:"socials,omitempty"`
}

// Link type classification.
const (
	LinkInternal = "internal"
	LinkExternal = "external"
)

// PageLink is one anchor extracted from the page, resolved to an absolute URL.
type PageLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Meta carries per-scrape bookkeeping attached to every record.
type Meta struct {
	FetchTimeMs     int64 `json:"fetch_time_ms"`
	Cached          bool  `json:"cached"`
	ConfidenceScore int   `json:"confidence_score"`
	IsPartial       bool  `json:"is_partial"`
	RobotWarning    bool  `json:"robot_warning"`
}
