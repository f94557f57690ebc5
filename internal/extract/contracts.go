package extract

import "context"

// ItemFields is one loosely-typed line item as reported by the extraction
// service, after sanitation. Numeric fields stay nil when the service did not
// provide them.
type ItemFields struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// TermFields carries the three quotation terms when the service saw them
// mentioned explicitly.
type TermFields struct {
	Loading   *string `json:"loading,omitempty"`
	Transport *string `json:"transport,omitempty"`
	Payment   *string `json:"payment,omitempty"`
}

// QuoteExtraction is the canonical shape produced from one service response.
// Every field is optional; absence is meaningful and distinct from zero.
type QuoteExtraction struct {
	CustomerName    *string `json:"customer_name,omitempty"`
	CustomerAddress *string `json:"customer_address,omitempty"`
	CustomerTaxID   *string `json:"customer_tax_id,omitempty"`
	CustomerEmail   *string `json:"customer_email,omitempty"`

	MaterialDescription *string `json:"material_description,omitempty"`

	Quantity     *float64 `json:"quantity,omitempty"`
	OriginalUnit string   `json:"original_unit,omitempty"`
	Rate         *float64 `json:"rate,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`

	Subtotal   *float64 `json:"subtotal,omitempty"`
	TaxAmount  *float64 `json:"tax_amount,omitempty"`
	GrandTotal *float64 `json:"grand_total,omitempty"`

	Items []ItemFields `json:"items,omitempty"`

	OutstandingFields []string   `json:"outstanding_fields,omitempty"`
	Terms             TermFields `json:"terms"`

	Confidence       float32 `json:"confidence,omitempty"`
	ExtractionMethod string  `json:"extraction_method,omitempty"`
}

// ExtractRequest is one extraction call: the raw user utterance plus optional
// rolling conversation context.
type ExtractRequest struct {
	Input           string
	ConversationCtx string
}

// QuoteExtractor is the interface the conversation driver depends on.
type QuoteExtractor interface {
	ExtractQuote(ctx context.Context, req ExtractRequest) (QuoteExtraction, []byte /*rawJSON*/, error)
}
