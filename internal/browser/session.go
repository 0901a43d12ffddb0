package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/proxy"
)

type SessionOptions struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	NavTimeout     time.Duration
	ExecutablePath string
	Proxy          proxy.Endpoint
}

func OptionsFromConfig(ep proxy.Endpoint) SessionOptions {
	cfg := config.AppConfig
	navTimeout := time.Duration(cfg.NavTimeoutSec) * time.Second
	if navTimeout <= 0 {
		navTimeout = 45 * time.Second
	}
	width, height := cfg.ViewportWidth, cfg.ViewportHeight
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	return SessionOptions{
		Headless:       cfg.Headless,
		UserAgent:      cfg.UserAgent,
		ViewportWidth:  width,
		ViewportHeight: height,
		Locale:         "en-US",
		NavTimeout:     navTimeout,
		ExecutablePath: cfg.CustomBrowserPath,
		Proxy:          ep,
	}
}

// Session owns one browser process and its context. A session belongs to
// exactly one retrier attempt: it is never shared, never reused, and must be
// closed before the next attempt launches.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext

	// onClose, when set, observes teardown. Test fakes use it to count
	// closes against launches.
	onClose func()
}

func (s *Session) NewPage() (playwright.Page, error) {
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	return page, nil
}

func (s *Session) Context() playwright.BrowserContext {
	return s.context
}

// Close tears the session down. Safe to call once per session on any exit
// path; both handles are closed even if the first close fails.
func (s *Session) Close() error {
	if s.onClose != nil {
		defer s.onClose()
	}
	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Launcher produces scoped sessions. The test fakes count launches and closes
// to pin down the one-session-per-attempt contract.
type Launcher interface {
	Launch(ctx context.Context, opts SessionOptions) (*Session, error)
}

// PlaywrightLauncher shares one playwright driver process across launches;
// each Launch still gets a fresh, isolated browser with its own cookies and
// fingerprint.
type PlaywrightLauncher struct {
	mu sync.Mutex
	pw *playwright.Playwright
}

func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

func (l *PlaywrightLauncher) driver() (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pw != nil {
		return l.pw, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	l.pw = pw
	return pw, nil
}

func (l *PlaywrightLauncher) Launch(ctx context.Context, opts SessionOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := l.driver()
	if err != nil {
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-first-run",
			"--no-default-browser-check",
			fmt.Sprintf("--window-size=%d,%d", opts.ViewportWidth, opts.ViewportHeight),
		},
	}
	if opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(opts.ExecutablePath)
	}
	if !opts.Proxy.IsZero() {
		launchOpts.Proxy = &playwright.Proxy{
			Server:   opts.Proxy.Server(),
			Username: playwright.String(opts.Proxy.Username),
			Password: playwright.String(opts.Proxy.Password),
		}
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
		Locale:    playwright.String(opts.Locale),
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	}
	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("new context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(opts.NavTimeout.Milliseconds()))

	if err := InjectStealthToContext(bctx); err != nil {
		_ = bctx.Close()
		_ = b.Close()
		return nil, fmt.Errorf("inject stealth: %w", err)
	}

	return &Session{browser: b, context: bctx}, nil
}

// Close stops the shared driver. Call once at process shutdown.
func (l *PlaywrightLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pw == nil {
		return nil
	}
	err := l.pw.Stop()
	l.pw = nil
	return err
}
