// Package browser drives a real browser through Playwright and exposes each
// page as a scenario.Page.
package browser

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
)

// Options configures the browser launched for a run
type Options struct {
	Browser  string
	Headless bool
	Timeout  time.Duration
	// Install downloads the Playwright driver and browser before starting
	Install bool
	// Output receives driver install/run output; nil discards it
	Output io.Writer
}

// OptionsFrom builds launch options from the suite configuration
func OptionsFrom(cfg *config.SuiteConfig) Options {
	return Options{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		Timeout:  cfg.Timeout,
		Install:  cfg.InstallBrowsers,
	}
}

// Launcher owns the Playwright driver and one browser process. Every page it
// hands out lives in its own browser context, so cookies and storage are
// never shared between scenarios.
type Launcher struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	timeout    float64
	assertions playwright.PlaywrightAssertions
}

// Launch starts Playwright and the configured browser
func Launch(opts Options) (*Launcher, error) {
	if opts.Browser == "" {
		opts.Browser = config.DefaultBrowser
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	output := opts.Output
	if output == nil {
		output = io.Discard
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{opts.Browser},
		Verbose:  false,
		Stdout:   output,
		Stderr:   output,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType, err := browserTypeFor(pw, opts.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
	}

	timeout := float64(opts.Timeout.Milliseconds())
	return &Launcher{
		pw:         pw,
		browser:    browser,
		timeout:    timeout,
		assertions: playwright.NewPlaywrightAssertions(timeout),
	}, nil
}

func browserTypeFor(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unsupported browser %q", name)
}

// NewPage opens a page in a fresh browser context. When ctx is cancelled the
// context is closed, which aborts any interaction still waiting on the page.
func (l *Launcher) NewPage(ctx context.Context) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browserContext, err := l.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(l.timeout)
	page.SetDefaultNavigationTimeout(l.timeout)

	p := &Page{
		page:       page,
		context:    browserContext,
		assertions: l.assertions,
	}
	p.stop = context.AfterFunc(ctx, func() {
		browserContext.Close()
	})
	return p, nil
}

// Close shuts down the browser and the Playwright driver
func (l *Launcher) Close() error {
	var firstErr error
	if l.browser != nil {
		if err := l.browser.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
	}
	return firstErr
}
