package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
)

// Page adapts a Playwright page to scenario.Page
type Page struct {
	page       playwright.Page
	context    playwright.BrowserContext
	assertions playwright.PlaywrightAssertions
	stop       func() bool
}

var _ scenario.Page = (*Page)(nil)

// Raw returns the underlying Playwright page
func (p *Page) Raw() playwright.Page {
	return p.page
}

// URL returns the current page URL
func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) locator(target scenario.Target) playwright.Locator {
	if target.IsRole() {
		return p.page.GetByRole(playwright.AriaRole(target.Role), playwright.PageGetByRoleOptions{
			Name: target.Name,
		})
	}
	return p.page.Locator(target.Selector)
}

// Goto navigates and waits for the load event
func (p *Page) Goto(ctx context.Context, url string) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		if err := aborted(ctx); err != nil {
			return err
		}
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w: %s: %v", scenario.ErrNavigationTimeout, url, err)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Fill types value into the target field
func (p *Page) Fill(ctx context.Context, target scenario.Target, value string) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.locator(target).Fill(value); err != nil {
		return actionError(ctx, target, err)
	}
	return nil
}

// Click clicks the target and waits for any navigation it starts
func (p *Page) Click(ctx context.Context, target scenario.Target) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.locator(target).Click(); err != nil {
		return actionError(ctx, target, err)
	}
	return nil
}

// ExpectTitle waits until the document title equals want
func (p *Page) ExpectTitle(ctx context.Context, want string) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.assertions.Page(p.page).ToHaveTitle(want); err != nil {
		if err := aborted(ctx); err != nil {
			return err
		}
		return fmt.Errorf("%w: %v", scenario.ErrAssertionMismatch, err)
	}
	return nil
}

// ExpectURL waits until the page URL equals want
func (p *Page) ExpectURL(ctx context.Context, want string) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.assertions.Page(p.page).ToHaveURL(want); err != nil {
		if err := aborted(ctx); err != nil {
			return err
		}
		return fmt.Errorf("%w: %v (at %s)", scenario.ErrAssertionMismatch, err, p.page.URL())
	}
	return nil
}

// ExpectVisible waits until the target is visible
func (p *Page) ExpectVisible(ctx context.Context, target scenario.Target) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.assertions.Locator(p.locator(target)).ToBeVisible(); err != nil {
		if err := aborted(ctx); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s: %v", scenario.ErrAssertionMismatch, target, err)
	}
	return nil
}

// ExpectText waits until the target's text equals want
func (p *Page) ExpectText(ctx context.Context, target scenario.Target, want string) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if err := p.assertions.Locator(p.locator(target)).ToHaveText(want); err != nil {
		if err := aborted(ctx); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s: %v", scenario.ErrAssertionMismatch, target, err)
	}
	return nil
}

// Close closes the page's browser context
func (p *Page) Close() error {
	if p.stop != nil {
		p.stop()
	}
	if err := p.context.Close(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	return nil
}

// aborted reports a done ctx as ErrAborted. Once ctx is done the browser
// context is closed, so any Playwright error after that is a consequence of
// the cancellation.
func aborted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", scenario.ErrAborted, err)
	}
	return nil
}

func actionError(ctx context.Context, target scenario.Target, err error) error {
	if err := aborted(ctx); err != nil {
		return err
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", scenario.ErrElementNotFound, target, err)
	}
	return fmt.Errorf("%s: %w", target, err)
}
