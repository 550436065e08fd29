package http

import (
	"net/http"

	"github.com/utafrali/CafeCart/internal/catalog"
)

// MenuHandler serves the read-only menu with category filtering and search.
type MenuHandler struct {
	catalog *catalog.Catalog
}

// NewMenuHandler creates a new menu HTTP handler.
func NewMenuHandler(c *catalog.Catalog) *MenuHandler {
	return &MenuHandler{catalog: c}
}

type menuView struct {
	Products   []catalog.Product `json:"products"`
	Categories []string          `json:"categories"`
}

// List handles GET /api/v1/menu?category=&q=
// A search term spans the whole menu, mirroring how searching on the menu
// page shows every section; otherwise the category filter applies.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	var products []catalog.Product
	if q != "" {
		products = h.catalog.Search(q)
	} else {
		products = h.catalog.Filter(category)
	}
	if products == nil {
		products = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, response{Data: menuView{
		Products:   products,
		Categories: h.catalog.Categories(),
	}})
}
