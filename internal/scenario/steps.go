package scenario

import (
	"context"
	"errors"
	"fmt"
)

// step wraps a page interaction so a failure carries the step description
// and a failure kind. fallback is used when the page returned an error that
// does not wrap one of the sentinel errors. A bare context error means the
// scenario was interrupted and is reported as aborted.
func step(name string, fallback Kind, err error) error {
	if err == nil {
		return nil
	}
	kind := KindOf(err)
	if kind == KindNone {
		kind = fallback
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = KindAborted
		}
	}
	return &StepError{Step: name, Kind: kind, Err: err}
}

func navigate(ctx context.Context, page Page, url string) error {
	return step(fmt.Sprintf("navigate to %s", url), KindNavigationTimeout, page.Goto(ctx, url))
}

func fill(ctx context.Context, page Page, target Target, value string) error {
	return step(fmt.Sprintf("fill %s", target), KindElementNotFound, page.Fill(ctx, target, value))
}

func click(ctx context.Context, page Page, target Target) error {
	return step(fmt.Sprintf("click %s", target), KindElementNotFound, page.Click(ctx, target))
}

func expectTitle(ctx context.Context, page Page, want string) error {
	return step(fmt.Sprintf("expect title %q", want), KindAssertionMismatch, page.ExpectTitle(ctx, want))
}

func expectURL(ctx context.Context, page Page, want string) error {
	return step(fmt.Sprintf("expect URL %s", want), KindAssertionMismatch, page.ExpectURL(ctx, want))
}

func expectVisible(ctx context.Context, page Page, target Target) error {
	return step(fmt.Sprintf("expect %s visible", target), KindAssertionMismatch, page.ExpectVisible(ctx, target))
}

func expectText(ctx context.Context, page Page, target Target, want string) error {
	return step(fmt.Sprintf("expect %s text %q", target, want), KindAssertionMismatch, page.ExpectText(ctx, target, want))
}
