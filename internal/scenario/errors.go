package scenario

import (
	"errors"
	"fmt"
)

// Kind classifies why a scenario failed
type Kind string

// Failure kinds
const (
	KindNone              Kind = ""
	KindElementNotFound   Kind = "element-not-found"
	KindAssertionMismatch Kind = "assertion-mismatch"
	KindNavigationTimeout Kind = "navigation-timeout"
	KindAborted           Kind = "aborted"
)

// Sentinel errors for each failure kind. Page implementations wrap these so
// that the step that failed can be classified with errors.Is.
var (
	ErrElementNotFound   = errors.New("element not found")
	ErrAssertionMismatch = errors.New("assertion mismatch")
	ErrNavigationTimeout = errors.New("navigation timeout")
	ErrAborted           = errors.New("scenario aborted")
	ErrUnknownScenario   = errors.New("unknown scenario")
)

// StepError reports the step of a scenario that failed
type StepError struct {
	Step string
	Kind Kind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or KindNone when err is nil
// or unclassified
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Kind != KindNone {
		return stepErr.Kind
	}

	switch {
	case errors.Is(err, ErrElementNotFound):
		return KindElementNotFound
	case errors.Is(err, ErrAssertionMismatch):
		return KindAssertionMismatch
	case errors.Is(err, ErrNavigationTimeout):
		return KindNavigationTimeout
	case errors.Is(err, ErrAborted):
		return KindAborted
	}
	return KindNone
}
