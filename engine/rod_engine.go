package engine

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/leadlens/leadlens/config"
	"github.com/leadlens/leadlens/models"
)

// RodEngine renders pages through a headless Chromium via go-rod.
//
// The browser process is a scoped resource: every Render launches its own
// browser, uses it for exactly one page load, and closes it on every exit
// path. This is the one component in the pipeline holding an OS-level
// process handle.
type RodEngine struct {
	cfg config.BrowserConfig
}

// NewRodEngine creates a renderer with the given browser configuration.
func NewRodEngine(cfg config.BrowserConfig) *RodEngine {
	return &RodEngine{cfg: cfg}
}

// Render navigates to the URL in a fresh headless browser, waits for the
// page to go quiet, optionally waits for waitSelector (best-effort, capped
// by SelectorTimeout), sleeps the fixed settle delay and returns the fully
// rendered DOM.
func (e *RodEngine) Render(ctx context.Context, targetURL, waitSelector string) (*FetchResult, error) {
	l := launcher.New().
		Headless(e.cfg.Headless).
		NoSandbox(e.cfg.NoSandbox)

	if e.cfg.BrowserBin != "" {
		l = l.Bin(e.cfg.BrowserBin)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to launch browser", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to connect to browser", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to open page", err)
	}
	defer func() { _ = page.Close() }()

	// Stealth JS and the hijack router only take effect for navigations
	// that happen after they are installed.
	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	e.setExtraHeaders(page, targetURL)

	router := setupHijack(page, e.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── Navigation budget ────────────────────────────────────────────
	navCtx, navCancel := context.WithTimeout(ctx, e.cfg.NavigationTimeout)
	defer navCancel()
	p := page.Context(navCtx)

	if navErr := p.Navigate(targetURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	// NOTE: WaitRequestIdle uses the Fetch domain which conflicts with
	// HijackRequests on Chromium 145+. With blocking active, fall back to
	// DOM stability as the idle signal.
	if router == nil {
		wait := p.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
		wait()
	} else if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", stableErr)
	}

	// ── Best-effort selector wait ────────────────────────────────────
	if waitSelector != "" {
		selCtx, selCancel := context.WithTimeout(ctx, e.cfg.SelectorTimeout)
		if _, selErr := page.Context(selCtx).Element(waitSelector); selErr != nil {
			slog.Debug("wait selector not found, continuing", "selector", waitSelector, "error", selErr)
		}
		selCancel()
	}

	// ── Fixed settle delay ───────────────────────────────────────────
	select {
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "render canceled during settle delay")
	case <-time.After(e.cfg.SettleDelay):
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract rendered HTML")
	}

	statusCode := 0
	if res, evalErr := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); evalErr == nil {
		statusCode = res.Value.Int()
	}

	return &FetchResult{
		HTML:       rawHTML,
		Headers:    map[string]string{},
		StatusCode: statusCode,
		Rendered:   true,
	}, nil
}

// setExtraHeaders installs a Google-search referer so the navigation looks
// like an organic visit. Best-effort.
func (e *RodEngine) setExtraHeaders(page *rod.Page, targetURL string) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return
	}
	headers := proto.NetworkHeaders{
		"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)
}

// configToProto maps human-readable config strings to Rod protocol resource types.
var configToProto = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
}

// setupHijack installs a request interceptor that blocks the configured
// resource types; extraction never needs image, font or media bytes.
//
// Returns the running HijackRouter so the caller can defer router.Stop().
// Returns nil if there is nothing to block.
func setupHijack(page *rod.Page, blockedTypes []string) *rod.HijackRouter {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedTypes))
	for _, name := range blockedTypes {
		if rt, ok := configToProto[name]; ok {
			blocked[rt] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if _, shouldBlock := blocked[ctx.Request.Type()]; shouldBlock {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It exits when router.Stop() is called.
	go router.Run()

	return router
}

// categorizeError wraps raw errors into typed ScrapeErrors.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "render canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeInternal, msg, err)
	}
}
