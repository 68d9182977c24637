package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const (
	defaultWaitTimeout = 5 * time.Second
	defaultSlowMo      = 100 * time.Millisecond

	// A pinned desktop user agent keeps the portal from serving the mobile
	// layout, which uses different selectors.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Selectors locates the fixed page elements of the portal's results layout.
// Tab fields are visible tab labels, the rest are CSS selectors.
type Selectors struct {
	PostingLinks   string `mapstructure:"posting-links"`
	DetailView     string `mapstructure:"detail-view"`
	RatingsTab     string `mapstructure:"ratings-tab"`
	DescriptionTab string `mapstructure:"description-tab"`
	ActivePane     string `mapstructure:"active-pane"`
	CloseButton    string `mapstructure:"close-button"`
}

// DefaultSelectors returns the selector set for the portal layout this tool
// supports.
func DefaultSelectors() Selectors {
	return Selectors{
		PostingLinks:   "a.job-title-link",
		DetailView:     ".modal-content",
		RatingsTab:     "Hiring History",
		DescriptionTab: "Job Posting Information",
		ActivePane:     ".tab-pane.active",
		CloseButton:    ".modal-header .close",
	}
}

// merged fills empty fields from the defaults so a config file only has to
// override what actually differs.
func (s Selectors) merged() Selectors {
	defaults := DefaultSelectors()
	if strings.TrimSpace(s.PostingLinks) == "" {
		s.PostingLinks = defaults.PostingLinks
	}
	if strings.TrimSpace(s.DetailView) == "" {
		s.DetailView = defaults.DetailView
	}
	if strings.TrimSpace(s.RatingsTab) == "" {
		s.RatingsTab = defaults.RatingsTab
	}
	if strings.TrimSpace(s.DescriptionTab) == "" {
		s.DescriptionTab = defaults.DescriptionTab
	}
	if strings.TrimSpace(s.ActivePane) == "" {
		s.ActivePane = defaults.ActivePane
	}
	if strings.TrimSpace(s.CloseButton) == "" {
		s.CloseButton = defaults.CloseButton
	}
	return s
}

// BrowserConfig configures the operator-visible browser session.
type BrowserConfig struct {
	LoginURL    string
	Selectors   Selectors
	WaitTimeout time.Duration
	SlowMo      time.Duration
}

var _ Session = (*Browser)(nil)

// Browser is the playwright-backed Session. The browser runs headful on
// purpose: the operator performs login and MFA in it before handing control
// to the hunter.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page

	cfg      BrowserConfig
	logger   *zap.Logger
	ordinals map[string]int
}

// Launch starts chromium and opens a fresh page. SlowMo paces every browser
// action so the session behaves like a human at the keyboard.
func Launch(cfg BrowserConfig, logger *zap.Logger) (*Browser, error) {
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = defaultWaitTimeout
	}
	if cfg.SlowMo <= 0 {
		cfg.SlowMo = defaultSlowMo
	}
	cfg.Selectors = cfg.Selectors.merged()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:  &playwright.Size{Width: 1280, Height: 720},
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &Browser{
		pw:       pw,
		browser:  browser,
		page:     page,
		cfg:      cfg,
		logger:   logger,
		ordinals: make(map[string]int),
	}, nil
}

// NavigateLogin brings the operator to the portal's login page. Everything
// after that, up to the results page, is manual.
func (b *Browser) NavigateLogin() error {
	_, err := b.page.Goto(b.cfg.LoginURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64((30 * time.Second).Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigating to login page %q: %w", b.cfg.LoginURL, err)
	}
	return nil
}

// Postings enumerates the job links visible on the results page, in page
// order. IDs are ordinal because the portal exposes no stable identifier in
// the listing.
func (b *Browser) Postings(ctx context.Context) ([]PostingRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links, err := b.page.Locator(b.cfg.Selectors.PostingLinks).All()
	if err != nil {
		return nil, fmt.Errorf("locating posting links %q: %w", b.cfg.Selectors.PostingLinks, err)
	}

	refs := make([]PostingRef, 0, len(links))
	for i, link := range links {
		title, err := link.InnerText()
		if err != nil {
			title = ""
		}

		ref := PostingRef{
			ID:    fmt.Sprintf("posting-%d", i+1),
			Title: strings.TrimSpace(title),
		}
		b.ordinals[ref.ID] = i
		refs = append(refs, ref)
	}

	b.logger.Debug("enumerated postings", zap.Int("count", len(refs)))

	return refs, nil
}

// Open clicks the posting's link and waits for the detail view. The link
// locators are re-queried on every call because the listing DOM refreshes and
// stale handles go dead.
func (b *Browser) Open(ctx context.Context, ref PostingRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, ok := b.ordinals[ref.ID]
	if !ok {
		return fmt.Errorf("unknown posting %q: %w", ref.ID, ErrViewUnavailable)
	}

	links, err := b.page.Locator(b.cfg.Selectors.PostingLinks).All()
	if err != nil || idx >= len(links) {
		return fmt.Errorf("posting link %q gone from listing: %w", ref.ID, ErrViewUnavailable)
	}

	if err := links[idx].Click(); err != nil {
		return fmt.Errorf("clicking posting %q: %w", ref.ID, ErrViewUnavailable)
	}

	return b.waitVisible(b.page.Locator(b.cfg.Selectors.DetailView).Last())
}

// OpenRatings switches the detail view to the ratings tab.
func (b *Browser) OpenRatings(ctx context.Context) error {
	return b.openTab(ctx, b.cfg.Selectors.RatingsTab)
}

// RatingsText pulls the raw text of the active tab pane.
func (b *Browser) RatingsText(ctx context.Context) (string, error) {
	return b.activePaneText(ctx)
}

// DescriptionText switches to the posting-information tab and pulls its text.
func (b *Browser) DescriptionText(ctx context.Context) (string, error) {
	if err := b.openTab(ctx, b.cfg.Selectors.DescriptionTab); err != nil {
		return "", err
	}
	return b.activePaneText(ctx)
}

// Close dismisses the detail view, falling back to Escape when the close
// button is not where the selector expects it.
func (b *Browser) Close(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	button := b.page.Locator(b.cfg.Selectors.CloseButton).Last()
	if visible, _ := button.IsVisible(); visible {
		if err := button.Click(); err == nil {
			return nil
		}
	}

	if err := b.page.Keyboard().Press("Escape"); err != nil {
		return fmt.Errorf("dismissing detail view: %w", ErrViewUnavailable)
	}

	return nil
}

// Shutdown tears the whole browser session down at the end of the run.
func (b *Browser) Shutdown() error {
	if err := b.browser.Close(); err != nil {
		b.pw.Stop()
		return fmt.Errorf("closing browser: %w", err)
	}
	return b.pw.Stop()
}

func (b *Browser) openTab(ctx context.Context, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tab := b.page.GetByText(label).Last()

	count, err := tab.Count()
	if err != nil || count == 0 {
		return fmt.Errorf("tab %q not found: %w", label, ErrViewUnavailable)
	}

	if err := tab.Click(); err != nil {
		return fmt.Errorf("switching to tab %q: %w", label, ErrViewUnavailable)
	}

	return b.waitVisible(b.page.Locator(b.cfg.Selectors.ActivePane).Last())
}

func (b *Browser) activePaneText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pane := b.page.Locator(b.cfg.Selectors.ActivePane).Last()
	if err := b.waitVisible(pane); err != nil {
		return "", err
	}

	text, err := pane.InnerText()
	if err != nil {
		return "", fmt.Errorf("reading active pane: %w", ErrViewUnavailable)
	}

	return text, nil
}

// waitVisible is the single bounded wait primitive: visible within the
// configured timeout or ErrViewUnavailable, never an indefinite block.
func (b *Browser) waitVisible(locator playwright.Locator) error {
	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(b.cfg.WaitTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("waiting for view (timeout %s): %w", b.cfg.WaitTimeout, ErrViewUnavailable)
	}
	return nil
}
