// Package scenariotest provides an in-memory scenario.Page for tests.
package scenariotest

import (
	"context"
	"fmt"
	"sync"

	"github.com/saucedemo/swaglabs-e2e/internal/scenario"
)

// Page records every interaction as a string and fails the calls listed in
// Failures. It is safe for concurrent use.
type Page struct {
	Failures map[string]error

	mu     sync.Mutex
	calls  []string
	closed bool
}

// NewPage returns a Page that fails the given calls
func NewPage(failures map[string]error) *Page {
	return &Page{Failures: failures}
}

// Calls returns the interactions recorded so far
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

// Closed reports whether Close was called
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) record(call string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
	if err, ok := p.Failures[call]; ok {
		return err
	}
	return nil
}

func (p *Page) Goto(_ context.Context, url string) error {
	return p.record("goto " + url)
}

func (p *Page) Fill(_ context.Context, target scenario.Target, value string) error {
	return p.record(fmt.Sprintf("fill %s = %s", target, value))
}

func (p *Page) Click(_ context.Context, target scenario.Target) error {
	return p.record(fmt.Sprintf("click %s", target))
}

func (p *Page) ExpectTitle(_ context.Context, want string) error {
	return p.record("expect-title " + want)
}

func (p *Page) ExpectURL(_ context.Context, want string) error {
	return p.record("expect-url " + want)
}

func (p *Page) ExpectVisible(_ context.Context, target scenario.Target) error {
	return p.record(fmt.Sprintf("expect-visible %s", target))
}

func (p *Page) ExpectText(_ context.Context, target scenario.Target, want string) error {
	return p.record(fmt.Sprintf("expect-text %s = %s", target, want))
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
