package constants

// Canonical field names used in outstanding-field tracking and prompts.
const (
	FieldCustomerName = "customer_name"
	FieldAddress      = "address"
	FieldTaxID        = "tax_id"
	FieldEmail        = "email"
	FieldQuantity     = "quantity"
	FieldRate         = "rate"
	FieldAmount       = "amount"
	FieldSubtotal     = "subtotal"
	FieldTaxAmount    = "tax_amount"
	FieldGrandTotal   = "grand_total"
	FieldItems        = "items"
)

// OptionalCustomerFields are never allowed to block readiness. Extractions may
// report them as missing; the merger drops them from outstanding_fields.
var OptionalCustomerFields = map[string]struct{}{
	FieldAddress: {},
	FieldTaxID:   {},
	FieldEmail:   {},
}

// CustomerDetailFields are the optional customer fields, in prompt order.
var CustomerDetailFields = []string{FieldAddress, FieldTaxID, FieldEmail}

// TermNames are the three quotation terms, in display order.
var TermNames = []string{"loading", "transport", "payment"}

// DefaultTermValue is applied to any term left unset at readiness time.
const DefaultTermValue = "Included"
