package domain

import "github.com/shopspring/decimal"

// Order pricing constants. The site's pages historically disagreed on these;
// they are normalized here to one fixed set.
var (
	// DeliveryFee is charged on any non-empty order.
	DeliveryFee = decimal.NewFromFloat(2.99)
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.NewFromFloat(0.10)
)

// Totals holds the derived order amounts, each formatted to exactly two
// decimal places. Totals are computed fresh on every read and never stored.
type Totals struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"deliveryFee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
}

// ComputeTotals derives the order totals from the cart contents.
// Idempotent and side-effect free.
func (c *Cart) ComputeTotals() Totals {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	fee := decimal.Zero
	if subtotal.IsPositive() {
		fee = DeliveryFee
	}
	tax := subtotal.Mul(TaxRate)
	total := subtotal.Add(fee).Add(tax)

	return Totals{
		Subtotal:    subtotal.StringFixed(2),
		DeliveryFee: fee.StringFixed(2),
		Tax:         tax.StringFixed(2),
		Total:       total.StringFixed(2),
		Currency:    Currency,
	}
}
