package domain

// Default values applied to optional line item fields.
const (
	// DefaultImage is the placeholder shown for items without a picture.
	DefaultImage = "/assets/images/default-food.jpg"
	// Currency is the single currency the site trades in.
	Currency = "GBP"
)

// LineItem represents one product in the cart. The JSON field names match
// the storage format written by every page of the site, so carts written
// before the versioned envelope existed still decode.
type LineItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Cart is an ordered sequence of line items. Insertion order is preserved
// and item IDs are unique across the sequence: adding an existing ID merges
// quantities instead of inserting.
type Cart struct {
	Items []LineItem `json:"items"`
}

// ItemCount returns the total number of units across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindIndex returns the index of the line item with the given ID, or -1.
func (c *Cart) FindIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the cart. Callers get a snapshot they can
// hold across later mutations.
func (c *Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
