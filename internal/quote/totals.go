package quote

import (
	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// Recalculate recomputes subtotal, tax and grand total from the full item
// list and refreshes the redundant aggregate quantity/rate/amount view. It is
// a full O(n) recompute on purpose: item lists are a handful of rows and the
// consistency guarantee is worth more than a delta update.
func Recalculate(d *entity.QuoteDraft) {
	if len(d.Items) == 0 {
		return
	}

	var subtotal, totalQty float64
	for _, it := range d.Items {
		subtotal += it.Amount
		totalQty += it.QuantityKg
	}
	tax := round2(subtotal * constants.GSTRate)
	grand := round2(subtotal + tax)

	d.Subtotal = ptr(subtotal)
	d.Amount = ptr(subtotal) // legacy aggregate mirrors subtotal
	d.TaxAmount = ptr(tax)
	d.GrandTotal = ptr(grand)

	d.Quantity = ptr(totalQty)
	if totalQty > 0 {
		d.Rate = ptr(round2(subtotal / totalQty))
	} else {
		// amount-weighted average undefined: fall back to the first item rate
		d.Rate = ptr(d.Items[0].RatePerKg)
	}
}
