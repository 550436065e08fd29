package catalog

import "strings"

// Product is one entry on the menu.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Catalog is a read-only menu. It has no mutation operations; the menu is
// fixed at construction.
type Catalog struct {
	products []Product
}

// New creates a catalog over the given products.
func New(products []Product) *Catalog {
	return &Catalog{products: products}
}

// All returns every product in menu order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find returns the product with the given ID.
func (c *Catalog) Find(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Filter returns the products in the given category. An empty category
// returns the full menu.
func (c *Catalog) Filter(category string) []Product {
	if category == "" {
		return c.All()
	}
	var out []Product
	for _, p := range c.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name, description, or tags contain the
// term, case-insensitively. An empty term returns the full menu.
func (c *Catalog) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return c.All()
	}
	var out []Product
	for _, p := range c.products {
		if matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in menu order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out
}

func matches(p Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
