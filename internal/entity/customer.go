package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the persistent customer book, filled as quotations are
// generated. Address/TaxID/Email stay empty strings when never provided.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"uniqueIndex;not null" json:"name"`
	Address string    `json:"address"`
	TaxID   string    `json:"tax_id"`
	Email   string    `json:"email"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
