package scenario

import (
	"context"
	"fmt"
)

// Target locates an element on the page. Role and Name select by accessible
// role and label; Selector is the structural fallback and is only consulted
// when Role is empty.
type Target struct {
	Role     string
	Name     string
	Selector string
}

// ByRole returns a Target for the element with the given accessible role and name
func ByRole(role, name string) Target {
	return Target{Role: role, Name: name}
}

// BySelector returns a Target for a CSS selector
func BySelector(selector string) Target {
	return Target{Selector: selector}
}

// IsRole reports whether the target uses an accessible role lookup
func (t Target) IsRole() bool {
	return t.Role != ""
}

func (t Target) String() string {
	if t.IsRole() {
		return fmt.Sprintf("%s %q", t.Role, t.Name)
	}
	return t.Selector
}

// Page is the browser surface a scenario drives. Every method blocks until
// the effect is observable or the implementation's wait window expires.
// Expect* methods retry until the expected state holds.
type Page interface {
	Goto(ctx context.Context, url string) error
	Fill(ctx context.Context, target Target, value string) error
	Click(ctx context.Context, target Target) error
	ExpectTitle(ctx context.Context, want string) error
	ExpectURL(ctx context.Context, want string) error
	ExpectVisible(ctx context.Context, target Target) error
	ExpectText(ctx context.Context, target Target, want string) error
}
