package order

import (
	"fmt"

	"commerce/domain/shared"

	"github.com/shopspring/decimal"
)

// Totals monetary summary of an order
// Invariant: every component >= 0 and total == subtotal + tax + shipping - discount
// within shared.MoneyTolerance.
type Totals struct {
	subtotal decimal.Decimal
	tax      decimal.Decimal
	shipping decimal.Decimal
	discount decimal.Decimal
	total    decimal.Decimal
}

// NewTotals validates a full set of totals, including a caller supplied total.
func NewTotals(subtotal, tax, shipping, discount, total decimal.Decimal) (Totals, error) {
	components := []struct {
		name  string
		value decimal.Decimal
	}{
		{"subtotal", subtotal},
		{"tax", tax},
		{"shipping", shipping},
		{"discount", discount},
		{"total", total},
	}
	for _, c := range components {
		if c.value.IsNegative() {
			return Totals{}, NewValidationError(c.name, c.name+" must not be negative")
		}
	}

	expected := subtotal.Add(tax).Add(shipping).Sub(discount)
	if !shared.WithinTolerance(expected, total) {
		return Totals{}, newTotalsMismatchError(fmt.Sprintf(
			"total %s does not match subtotal + tax + shipping - discount = %s",
			total.StringFixed(2), expected.StringFixed(2)))
	}

	return Totals{
		subtotal: subtotal,
		tax:      tax,
		shipping: shipping,
		discount: discount,
		total:    total,
	}, nil
}

// ComputeTotals derives total from its components.
func ComputeTotals(subtotal, tax, shipping, discount decimal.Decimal) (Totals, error) {
	return NewTotals(subtotal, tax, shipping, discount, subtotal.Add(tax).Add(shipping).Sub(discount))
}

// WithSubtotal returns totals for a new subtotal with tax, shipping and discount carried forward.
func (t Totals) WithSubtotal(subtotal decimal.Decimal) (Totals, error) {
	return ComputeTotals(subtotal, t.tax, t.shipping, t.discount)
}

func (t Totals) Subtotal() decimal.Decimal { return t.subtotal }
func (t Totals) Tax() decimal.Decimal      { return t.tax }
func (t Totals) Shipping() decimal.Decimal { return t.shipping }
func (t Totals) Discount() decimal.Decimal { return t.discount }
func (t Totals) Total() decimal.Decimal    { return t.total }
