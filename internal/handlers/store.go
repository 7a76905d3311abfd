// Package handlers serves a local replica of the Swag Labs pages the
// scenarios exercise: login, inventory, cart and an about page. State lives
// in cookies, so every browser context starts with an empty session.
package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Cookie names match the ones used by the public demo store
const (
	sessionCookie = "session-username"
	cartCookie    = "cart-contents"
)

// Item represents a catalog item
type Item struct {
	ID          string
	Name        string
	Description string
	Price       string
}

// Catalog is the inventory shown after login
var Catalog = []Item{
	{
		ID:          "sauce-labs-backpack",
		Name:        "Sauce Labs Backpack",
		Description: "Carry all the things with the sleek, streamlined Sly Pack.",
		Price:       "$29.99",
	},
	{
		ID:          "sauce-labs-bike-light",
		Name:        "Sauce Labs Bike Light",
		Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night.",
		Price:       "$9.99",
	},
	{
		ID:          "sauce-labs-bolt-t-shirt",
		Name:        "Sauce Labs Bolt T-Shirt",
		Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt.",
		Price:       "$15.99",
	},
}

func findItem(id string) (Item, bool) {
	for _, item := range Catalog {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// StoreOptions configures accounts and links of the replica
type StoreOptions struct {
	Users          []string
	LockedOutUsers []string
	Password       string
	AboutURL       string
}

// DefaultStoreOptions returns the accounts of the public demo store
func DefaultStoreOptions(aboutURL string) StoreOptions {
	return StoreOptions{
		Users:          []string{"standard_user", "problem_user", "performance_glitch_user"},
		LockedOutUsers: []string{"locked_out_user"},
		Password:       "secret_sauce",
		AboutURL:       aboutURL,
	}
}

func parseTemplate(names ...string) (*template.Template, error) {
	patterns := make([]string, len(names))
	for i, name := range names {
		patterns[i] = "templates/" + name
	}
	return template.ParseFS(templateFS, patterns...)
}

// sessionUser returns the logged in user, or "" without a session
func sessionUser(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// cartContents returns the item ids in the cart cookie
func cartContents(r *http.Request) []string {
	cookie, err := r.Cookie(cartCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return strings.Split(cookie.Value, "|")
}

func setCartContents(w http.ResponseWriter, ids []string) {
	http.SetCookie(w, &http.Cookie{
		Name:  cartCookie,
		Value: strings.Join(ids, "|"),
		Path:  "/",
	})
}

// requireSession redirects to the login page when there is no session
func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := sessionUser(r)
	if user == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return "", false
	}
	return user, true
}

// NewStore returns a handler serving every page of the replica
func NewStore(opts StoreOptions) (http.Handler, error) {
	login, err := NewLoginHandler(opts)
	if err != nil {
		return nil, err
	}
	inventory, err := NewInventoryHandler(opts.AboutURL)
	if err != nil {
		return nil, err
	}
	cart, err := NewCartHandler(opts.AboutURL)
	if err != nil {
		return nil, err
	}
	about, err := NewAboutHandler()
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/", login)
	mux.Handle("/inventory.html", inventory)
	mux.Handle("/cart.html", cart)
	mux.Handle("/cart", &CartUpdateHandler{})
	mux.Handle("/logout", &LogoutHandler{})
	mux.Handle("/about", about)
	return mux, nil
}
