package quote

import (
	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// requiredFields, in the order they are reported back to the user.
var requiredFields = []string{
	constants.FieldCustomerName,
	constants.FieldQuantity,
	constants.FieldRate,
	constants.FieldAmount,
	constants.FieldSubtotal,
	constants.FieldTaxAmount,
	constants.FieldGrandTotal,
}

// MissingRequired recomputes the required-field check from current values. It
// deliberately ignores the stored status flag so a draft mutated through a
// path that forgot the status update cannot fool the caller.
func MissingRequired(d *entity.QuoteDraft) []string {
	var missing []string
	for _, f := range requiredFields {
		if !requiredPresent(d, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsReady reports whether the draft qualifies for document generation. As a
// side effect it fills unset terms with "Included" before returning true;
// terms never block readiness but must be non-empty in the final document.
func IsReady(d *entity.QuoteDraft) bool {
	if len(MissingRequired(d)) > 0 {
		return false
	}
	for _, f := range d.OutstandingFields {
		if _, optional := constants.OptionalCustomerFields[f]; !optional {
			return false
		}
	}
	EnsureTermsDefaults(d)
	return true
}

// EnsureTermsDefaults fills any unset term with the default value.
func EnsureTermsDefaults(d *entity.QuoteDraft) {
	if d.Terms.Loading == nil || *d.Terms.Loading == "" {
		d.Terms.Loading = ptr(constants.DefaultTermValue)
	}
	if d.Terms.Transport == nil || *d.Terms.Transport == "" {
		d.Terms.Transport = ptr(constants.DefaultTermValue)
	}
	if d.Terms.Payment == nil || *d.Terms.Payment == "" {
		d.Terms.Payment = ptr(constants.DefaultTermValue)
	}
}

func requiredPresent(d *entity.QuoteDraft, field string) bool {
	switch field {
	case constants.FieldCustomerName:
		return d.CustomerName != nil && *d.CustomerName != ""
	case constants.FieldQuantity:
		return d.Quantity != nil && *d.Quantity > 0
	case constants.FieldRate:
		return d.Rate != nil && *d.Rate > 0
	case constants.FieldAmount:
		return d.Amount != nil && *d.Amount > 0
	case constants.FieldSubtotal:
		return d.Subtotal != nil && *d.Subtotal > 0
	case constants.FieldTaxAmount:
		return d.TaxAmount != nil && *d.TaxAmount > 0
	case constants.FieldGrandTotal:
		return d.GrandTotal != nil && *d.GrandTotal > 0
	}
	return true
}
