package handlers

import (
	"html/template"
	"net/http"
	"slices"
)

type cartPage struct {
	AboutURL  string
	CartCount int
	Items     []Item
}

// CartHandler renders the cart of a logged in user
type CartHandler struct {
	template *template.Template
	aboutURL string
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(aboutURL string) (*CartHandler, error) {
	tmpl, err := parseTemplate("cart.html", "header.html")
	if err != nil {
		return nil, err
	}

	return &CartHandler{
		template: tmpl,
		aboutURL: aboutURL,
	}, nil
}

// ServeHTTP handles the GET /cart.html request
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	cart := cartContents(r)
	page := cartPage{AboutURL: h.aboutURL, CartCount: len(cart)}
	for _, id := range cart {
		if item, ok := findItem(id); ok {
			page.Items = append(page.Items, item)
		}
	}

	if err := h.template.Execute(w, page); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// CartUpdateHandler adds or removes an item and redirects back
type CartUpdateHandler struct{}

// ServeHTTP handles the POST /cart form
func (h *CartUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	id := r.PostForm.Get("item")
	if _, ok := findItem(id); !ok {
		http.Error(w, "Unknown item", http.StatusBadRequest)
		return
	}

	cart := cartContents(r)
	switch r.PostForm.Get("action") {
	case "add":
		if !slices.Contains(cart, id) {
			cart = append(cart, id)
		}
	case "remove":
		cart = slices.DeleteFunc(cart, func(v string) bool { return v == id })
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}
	setCartContents(w, cart)

	back := r.PostForm.Get("return")
	if back != "/cart.html" {
		back = "/inventory.html"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// AboutHandler serves a stand-in for the external about page
type AboutHandler struct {
	template *template.Template
}

// NewAboutHandler creates a new AboutHandler
func NewAboutHandler() (*AboutHandler, error) {
	tmpl, err := parseTemplate("about.html")
	if err != nil {
		return nil, err
	}
	return &AboutHandler{template: tmpl}, nil
}

func (h *AboutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.template.Execute(w, nil); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
