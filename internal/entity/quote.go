package entity

import (
	"time"

	"github.com/arul-selvam/steel-quotes/constants"
)

// LineItem is one priced row of a quote draft. After enrichment the invariant
// Amount == round(QuantityKg*RatePerKg, 2) holds, and Unit is always "kg".
type LineItem struct {
	Description string  `json:"description"`
	QuantityKg  float64 `json:"quantity_kg"`
	RatePerKg   float64 `json:"rate_per_kg"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit,omitempty"`
}

// CustomerDetails are always optional and never block readiness.
type CustomerDetails struct {
	Address *string `json:"address,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// Terms are the loading/transport/payment conditions of a quotation. Unset
// terms default to "Included" at readiness time.
type Terms struct {
	Loading   *string `json:"loading,omitempty"`
	Transport *string `json:"transport,omitempty"`
	Payment   *string `json:"payment,omitempty"`
}

// QuoteDraft is the accumulating quotation record for one conversation
// session. Optional fields are pointers so that "unknown" stays distinct from
// an explicit zero or empty string. The draft is mutated only through the
// merger in the quote package; everything else reads it.
type QuoteDraft struct {
	Status constants.DraftStatus `json:"status"`

	CustomerName    *string         `json:"customer_name,omitempty"`
	CustomerDetails CustomerDetails `json:"customer_details"`

	// MaterialSummary is a human-readable roll-up of the items, display only.
	MaterialSummary *string `json:"material_summary,omitempty"`

	// Aggregate view, redundant with Items and kept in sync by recalculation.
	Quantity *float64 `json:"quantity,omitempty"`
	Rate     *float64 `json:"rate,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`

	// Derived money fields. Recomputed from Items whenever the item list
	// changes; extraction-supplied values only stand when no items exist.
	Subtotal   *float64 `json:"subtotal,omitempty"`
	TaxAmount  *float64 `json:"tax_amount,omitempty"`
	GrandTotal *float64 `json:"grand_total,omitempty"`

	Items []LineItem `json:"items"`
	Terms Terms      `json:"terms"`

	OutstandingFields []string `json:"outstanding_fields"`

	Confidence       float32   `json:"confidence"`
	ExtractionMethod string    `json:"extraction_method,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}
