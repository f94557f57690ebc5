package quote

import (
	"math"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// NewDraft returns an empty draft for a fresh conversation session.
func NewDraft() *entity.QuoteDraft {
	return &entity.QuoteDraft{
		Status:            constants.DraftStatusEmpty,
		Items:             []entity.LineItem{},
		OutstandingFields: []string{},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T {
	return &v
}
