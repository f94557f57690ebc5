package quote

import (
	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// ToDocument projects the draft into the external document schema. Pure: the
// draft is never mutated, unset optional fields become empty strings, and an
// empty item list is replaced by a single item synthesized from the aggregate
// view.
func ToDocument(d *entity.QuoteDraft) entity.DocumentPayload {
	items := make([]entity.DocumentItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, entity.DocumentItem{
			Description: it.Description,
			Quantity:    it.QuantityKg,
			Rate:        it.RatePerKg,
			Amount:      it.Amount,
		})
	}
	if len(items) == 0 {
		items = append(items, entity.DocumentItem{
			Description: strOr(d.MaterialSummary, "Steel Material"),
			Quantity:    numOr(d.Quantity),
			Rate:        numOr(d.Rate),
			Amount:      numOr(d.Amount),
		})
	}

	subtotal := numOr(d.Subtotal)
	if subtotal == 0 {
		subtotal = numOr(d.Amount)
	}

	return entity.DocumentPayload{
		CustomerName:    strOr(d.CustomerName, ""),
		CustomerAddress: strOr(d.CustomerDetails.Address, ""),
		CustomerTaxID:   strOr(d.CustomerDetails.TaxID, ""),
		CustomerEmail:   strOr(d.CustomerDetails.Email, ""),

		Items: items,

		Subtotal:   subtotal,
		TaxAmount:  numOr(d.TaxAmount),
		GrandTotal: numOr(d.GrandTotal),

		LoadingCharges:   strOr(d.Terms.Loading, constants.DefaultTermValue),
		TransportCharges: strOr(d.Terms.Transport, constants.DefaultTermValue),
		PaymentTerms:     strOr(d.Terms.Payment, constants.DefaultTermValue),
	}
}

func strOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func numOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
