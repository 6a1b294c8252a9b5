// Package pipeline sequences one scrape: normalize → robots advisory →
// static fetch → escalation decision → optional headless render →
// concurrent extraction → confidence scoring → cache write.
package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leadlens/leadlens/cache"
	"github.com/leadlens/leadlens/engine"
	"github.com/leadlens/leadlens/extract"
	"github.com/leadlens/leadlens/models"
)

// RobotsPolicy is the advisory robots.txt check. Implementations must be
// fail-open: any internal failure reports "allowed".
type RobotsPolicy interface {
	Allowed(ctx context.Context, url string) bool
}

// Options are the per-request knobs of a scrape.
type Options struct {
	// Proxy overrides the default outbound proxy.
	Proxy string

	// BypassCache skips the cache read. The result still overwrites the
	// cache entry.
	BypassCache bool

	// WaitSelector is passed to the renderer when escalation happens.
	WaitSelector string

	// Markdown renders Content as markdown instead of plain text.
	Markdown bool
}

// Pipeline owns the collaborators of the scrape flow. The renderer, robots
// policy, cache and render memory are all optional; a nil collaborator
// degrades that stage gracefully rather than failing the scrape.
type Pipeline struct {
	fetcher  engine.Fetcher
	renderer engine.Renderer
	robots   RobotsPolicy
	cache    *cache.Cache
	memory   *engine.RenderMemory
}

// New creates a Pipeline.
func New(fetcher engine.Fetcher, renderer engine.Renderer, robots RobotsPolicy, c *cache.Cache, memory *engine.RenderMemory) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		renderer: renderer,
		robots:   robots,
		cache:    c,
		memory:   memory,
	}
}

// Scrape runs the full pipeline for one URL and returns the assembled
// record, or a typed ScrapeError. Callers never see a partial record
// together with an error: degraded extraction is communicated through
// Meta.IsPartial and sparse optional fields.
func (p *Pipeline) Scrape(ctx context.Context, rawURL string, opts Options) (*models.ExtractionRecord, error) {
	start := time.Now()

	target, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	// ── Cache read ──────────────────────────────────────────────────
	key := cache.Key(target)
	if p.cache != nil && !opts.BypassCache {
		if rec, hit := p.cache.Get(key); hit {
			rec.Meta.FetchTimeMs = time.Since(start).Milliseconds()
			slog.Debug("cache hit", "url", target)
			return rec, nil
		}
	}

	// ── Robots advisory, concurrent with the fetch ──────────────────
	robotWarning := make(chan bool, 1)
	go func() {
		if p.robots == nil {
			robotWarning <- false
			return
		}
		robotWarning <- !p.robots.Allowed(ctx, target)
	}()

	// ── Static fetch ────────────────────────────────────────────────
	result, err := p.fetcher.Fetch(ctx, target, opts.Proxy)
	if err != nil {
		return nil, err
	}

	// ── Escalation decision + optional headless render ──────────────
	isPartial := false
	if p.shouldRender(target, result.HTML) {
		rendered, renderErr := p.render(ctx, target, opts.WaitSelector)
		if renderErr != nil {
			// Best-effort: the static HTML already in hand still yields a
			// record, just a degraded one.
			slog.Warn("headless render failed, falling back to static HTML",
				"url", target, "error", renderErr)
			isPartial = true
		} else {
			// Keep the static response headers: the renderer cannot see
			// them and the tech-stack predicates still want them.
			rendered.Headers = result.Headers
			result = rendered
			p.rememberRender(target)
		}
	}

	// ── Extraction ──────────────────────────────────────────────────
	page, err := extract.NewPage(result.HTML, result.Headers, target)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to parse page", err)
	}

	rec := p.runExtractors(ctx, page, opts, &isPartial)
	rec.URL = target
	rec.Meta = models.Meta{
		FetchTimeMs:  time.Since(start).Milliseconds(),
		IsPartial:    isPartial,
		RobotWarning: <-robotWarning,
	}
	rec.Meta.ConfidenceScore = extract.Score(rec)

	// ── Cache write (best-effort) ───────────────────────────────────
	if p.cache != nil {
		p.cache.Set(key, rec)
	}

	return rec, nil
}

// shouldRender decides whether a headless re-fetch is worth the cost: the
// host is remembered as client-rendered, a cheap contact pass over the
// static HTML finds nothing, or the HTML carries hard framework evidence.
// A static page that already yielded contacts is never escalated on text
// volume alone; a small contact-bearing brochure page is not a shell.
func (p *Pipeline) shouldRender(target, rawHTML string) bool {
	if p.renderer == nil {
		return false
	}
	if host := hostOf(target); host != "" && p.memory != nil && p.memory.Needed(host) {
		return true
	}
	if page, err := extract.NewPage(rawHTML, nil, target); err == nil {
		contacts := extract.ExtractContacts(page)
		if len(contacts.Emails) == 0 && len(contacts.Phones) == 0 {
			return true
		}
		return engine.HydrationEvidence(rawHTML)
	}
	return engine.NeedsRender(rawHTML)
}

func (p *Pipeline) render(ctx context.Context, target, waitSelector string) (result *engine.FetchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, models.NewScrapeError(models.ErrCodeInternal, "renderer panicked", nil)
		}
	}()
	return p.renderer.Render(ctx, target, waitSelector)
}

func (p *Pipeline) rememberRender(target string) {
	if p.memory == nil {
		return
	}
	if host := hostOf(target); host != "" {
		p.memory.MarkNeeded(host)
	}
}

// runExtractors fans the extractor battery out over the shared parsed page.
// The extractors are independent, so they run concurrently; the team branch
// performs its own secondary fetch and must not block the others. A panic
// in any branch is recovered, leaves that field at its zero value and marks
// the record partial; one bad heuristic never fails the whole record.
func (p *Pipeline) runExtractors(ctx context.Context, page *extract.Page, opts Options, isPartial *bool) *models.ExtractionRecord {
	rec := &models.ExtractionRecord{}
	var partial atomic.Bool

	g, gctx := errgroup.WithContext(ctx)

	run := func(name string, fn func()) {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("extractor panicked", "extractor", name, "panic", r)
					partial.Store(true)
				}
			}()
			fn()
			return nil
		})
	}

	run("metadata", func() {
		md := extract.ExtractMetadata(page)
		rec.Title = md.Title
		rec.Description = md.Description
		rec.Favicon = md.Favicon
		rec.Image = md.Image
		rec.Logo = md.Logo
		rec.Keywords = md.Keywords
	})
	run("contacts", func() {
		contacts := extract.ExtractContacts(page)
		rec.Emails = contacts.Emails
		rec.Phones = contacts.Phones
	})
	run("socials", func() {
		rec.Socials = extract.ExtractSocials(page)
	})
	run("links", func() {
		rec.Links = extract.ExtractLinks(page)
	})
	run("techstack", func() {
		rec.TechStack = extract.ExtractTechStack(page)
	})
	run("content", func() {
		content := extract.ExtractContent(page, opts.Markdown)
		rec.Summary = content.Summary
		rec.Content = content.Text
	})
	run("team", func() {
		rec.Team = extract.ExtractTeam(gctx, page, func(fctx context.Context, u string) (string, error) {
			res, err := p.fetcher.Fetch(fctx, u, opts.Proxy)
			if err != nil {
				return "", err
			}
			return res.HTML, nil
		})
	})

	_ = g.Wait()

	if partial.Load() {
		*isPartial = true
	}

	// Collection fields are contracts, not options: downstream consumers
	// see empty collections, never null.
	if rec.Emails == nil {
		rec.Emails = []string{}
	}
	if rec.Phones == nil {
		rec.Phones = []string{}
	}
	if rec.Socials == nil {
		rec.Socials = map[string]string{}
	}
	if rec.TechStack == nil {
		rec.TechStack = []string{}
	}
	if rec.Team == nil {
		rec.Team = []models.TeamMember{}
	}
	if rec.Links == nil {
		rec.Links = []models.PageLink{}
	}

	return rec
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
