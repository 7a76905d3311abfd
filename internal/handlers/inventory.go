package handlers

import (
	"html/template"
	"net/http"
	"slices"
)

type inventoryItem struct {
	Item
	InCart bool
}

type inventoryPage struct {
	AboutURL  string
	CartCount int
	Items     []inventoryItem
}

// InventoryHandler renders the product list for a logged in user
type InventoryHandler struct {
	template *template.Template
	aboutURL string
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(aboutURL string) (*InventoryHandler, error) {
	tmpl, err := parseTemplate("inventory.html", "header.html")
	if err != nil {
		return nil, err
	}

	return &InventoryHandler{
		template: tmpl,
		aboutURL: aboutURL,
	}, nil
}

// ServeHTTP handles the GET /inventory.html request
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireSession(w, r); !ok {
		return
	}

	cart := cartContents(r)
	page := inventoryPage{
		AboutURL:  h.aboutURL,
		CartCount: len(cart),
	}
	for _, item := range Catalog {
		page.Items = append(page.Items, inventoryItem{Item: item, InCart: slices.Contains(cart, item.ID)})
	}

	if err := h.template.Execute(w, page); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
