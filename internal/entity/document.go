package entity

// DocumentItem is one row of the rendered quotation document.
type DocumentItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// DocumentPayload is the external schema handed to the document renderer.
// Optional customer fields are empty strings when unset; the three terms are
// guaranteed non-empty by the readiness evaluator.
type DocumentPayload struct {
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerTaxID   string `json:"customer_tax_id"`
	CustomerEmail   string `json:"customer_email"`

	Items []DocumentItem `json:"items"`

	Subtotal   float64 `json:"subtotal"`
	TaxAmount  float64 `json:"tax_amount"`
	GrandTotal float64 `json:"grand_total"`

	LoadingCharges   string `json:"loading_charges"`
	TransportCharges string `json:"transport_charges"`
	PaymentTerms     string `json:"payment_terms"`
}
