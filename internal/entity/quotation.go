package entity

import (
	"time"

	"github.com/google/uuid"
)

// Quotation is a finalized, persisted quotation produced from a READY draft.
type Quotation struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuotationNumber string    `gorm:"uniqueIndex;not null" json:"quotation_number"`

	CustomerName    string `gorm:"not null" json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerTaxID   string `json:"customer_tax_id"`
	CustomerEmail   string `json:"customer_email"`

	Subtotal   float64 `gorm:"not null" json:"subtotal"`
	TaxAmount  float64 `gorm:"not null" json:"tax_amount"`
	GrandTotal float64 `gorm:"not null" json:"grand_total"`

	LoadingCharges   string `json:"loading_charges"`
	TransportCharges string `json:"transport_charges"`
	PaymentTerms     string `json:"payment_terms"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// QuotationItem is one persisted line of a quotation. Position preserves the
// display order from the draft.
type QuotationItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	QuotationID uuid.UUID `gorm:"type:uuid;index;not null" json:"quotation_id"`
	Position    int       `gorm:"not null" json:"position"`
	Description string    `gorm:"not null" json:"description"`
	QuantityKg  float64   `gorm:"not null" json:"quantity_kg"`
	RatePerKg   float64   `gorm:"not null" json:"rate_per_kg"`
	Amount      float64   `gorm:"not null" json:"amount"`
}
