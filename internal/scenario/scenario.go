// Package scenario defines the Swag Labs end-to-end scenarios. Each scenario
// is a straight-line sequence of page interactions followed by assertions,
// and starts from a fresh navigation to the store's entry URL.
package scenario

import (
	"context"
	"fmt"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
)

// PageTitle is the document title of every Swag Labs page
const PageTitle = "Swag Labs"

// Elements used by the scenarios
var (
	UsernameField     = ByRole("textbox", "Username")
	PasswordField     = ByRole("textbox", "Password")
	LoginButton       = ByRole("button", "Login")
	MenuButton        = ByRole("button", "Open menu")
	AboutLink         = ByRole("link", "About")
	RemoveButton      = ByRole("button", "Remove")
	CartLink          = BySelector(".shopping_cart_link")
	AddBackpackButton = BySelector("#add-to-cart-sauce-labs-backpack")
	CartBadge         = BySelector(".shopping_cart_badge")
)

// Settings holds the literal inputs the scenarios use
type Settings struct {
	BaseURL  string
	AboutURL string
	Username string
	Password string

	inventoryURL string
	cartURL      string
}

// NewSettings derives scenario settings from the suite configuration
func NewSettings(cfg *config.SuiteConfig) Settings {
	return Settings{
		BaseURL:      cfg.BaseURL,
		AboutURL:     cfg.AboutURL,
		Username:     cfg.Username,
		Password:     cfg.Password,
		inventoryURL: cfg.PageURL("inventory.html"),
		cartURL:      cfg.PageURL("cart.html"),
	}
}

// DefaultSettings returns the settings for the public demo store
func DefaultSettings() Settings {
	return NewSettings(&config.SuiteConfig{
		BaseURL:  config.DefaultBaseURL,
		AboutURL: config.DefaultAboutURL,
		Username: config.DefaultUsername,
		Password: config.DefaultPassword,
	})
}

// InventoryURL is the page a successful login lands on
func (s Settings) InventoryURL() string {
	return s.inventoryURL
}

// CartURL is the shopping cart page
func (s Settings) CartURL() string {
	return s.cartURL
}

// Func is the body of a scenario
type Func func(ctx context.Context, page Page, s Settings) error

// Scenario is a named, self-contained end-to-end check
type Scenario struct {
	Name        string
	Description string
	run         Func
}

// New returns a scenario running fn
func New(name, description string, fn Func) Scenario {
	return Scenario{Name: name, Description: description, run: fn}
}

// Run executes the scenario against page. The first failing step stops the
// scenario and is returned as a *StepError.
func (sc Scenario) Run(ctx context.Context, page Page, s Settings) error {
	if err := ctx.Err(); err != nil {
		return &StepError{Step: "start", Kind: KindAborted, Err: err}
	}
	return sc.run(ctx, page, s)
}

var all = []Scenario{
	{
		Name:        "has-title",
		Description: "entry page has the title \"Swag Labs\"",
		run:         HasTitle,
	},
	{
		Name:        "login",
		Description: "standard user lands on the inventory page after login",
		run:         LoginLandsOnInventory,
	},
	{
		Name:        "about-page",
		Description: "menu About link leads to saucelabs.com",
		run:         AboutPage,
	},
	{
		Name:        "shopping-cart",
		Description: "cart icon opens the cart page",
		run:         ShoppingCart,
	},
	{
		Name:        "add-backpack",
		Description: "adding the backpack shows Remove and a cart badge of 1",
		run:         AddBackpackToCart,
	},
}

// All returns every scenario in declaration order
func All() []Scenario {
	out := make([]Scenario, len(all))
	copy(out, all)
	return out
}

// Lookup returns the scenario with the given name
func Lookup(name string) (Scenario, error) {
	for _, sc := range all {
		if sc.Name == name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
}

// Select resolves names to scenarios, keeping the given order and dropping
// duplicates. No names selects every scenario.
func Select(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return All(), nil
	}

	seen := make(map[string]bool, len(names))
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		sc, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		seen[name] = true
		selected = append(selected, sc)
	}
	return selected, nil
}

// Login signs in with the configured credentials starting from the entry URL
func Login(ctx context.Context, page Page, s Settings) error {
	if err := navigate(ctx, page, s.BaseURL); err != nil {
		return err
	}
	if err := fill(ctx, page, UsernameField, s.Username); err != nil {
		return err
	}
	if err := fill(ctx, page, PasswordField, s.Password); err != nil {
		return err
	}
	return click(ctx, page, LoginButton)
}

// HasTitle checks the entry page title
func HasTitle(ctx context.Context, page Page, s Settings) error {
	if err := navigate(ctx, page, s.BaseURL); err != nil {
		return err
	}
	return expectTitle(ctx, page, PageTitle)
}

// LoginLandsOnInventory logs in and checks the inventory URL
func LoginLandsOnInventory(ctx context.Context, page Page, s Settings) error {
	if err := Login(ctx, page, s); err != nil {
		return err
	}
	return expectURL(ctx, page, s.InventoryURL())
}

// AboutPage follows the About link from the navigation menu
func AboutPage(ctx context.Context, page Page, s Settings) error {
	if err := Login(ctx, page, s); err != nil {
		return err
	}
	if err := click(ctx, page, MenuButton); err != nil {
		return err
	}
	if err := click(ctx, page, AboutLink); err != nil {
		return err
	}
	return expectURL(ctx, page, s.AboutURL)
}

// ShoppingCart opens the cart from the header icon
func ShoppingCart(ctx context.Context, page Page, s Settings) error {
	if err := Login(ctx, page, s); err != nil {
		return err
	}
	if err := click(ctx, page, CartLink); err != nil {
		return err
	}
	return expectURL(ctx, page, s.CartURL())
}

// AddBackpackToCart adds the backpack and checks the item button and badge
func AddBackpackToCart(ctx context.Context, page Page, s Settings) error {
	if err := Login(ctx, page, s); err != nil {
		return err
	}
	if err := click(ctx, page, AddBackpackButton); err != nil {
		return err
	}
	if err := expectVisible(ctx, page, RemoveButton); err != nil {
		return err
	}
	return expectText(ctx, page, CartBadge, "1")
}
