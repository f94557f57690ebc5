package extract

import (
	"encoding/json"
	"log/slog"
	"math"
)

// DecodeQuoteJSON turns a raw extraction-service response into a canonical
// QuoteExtraction. Malformed input yields an empty extraction, never an
// error: the caller cannot do anything useful with a parse failure beyond
// asking the user again.
func DecodeQuoteJSON(raw []byte, logger *slog.Logger) QuoteExtraction {
	if logger == nil {
		logger = slog.Default()
	}
	clean, _, err := SanitizeQuoteJSON(raw, logger)
	if err != nil {
		logger.Warn("extract.decode.unparseable", "error", err, "bytes", len(raw))
		return QuoteExtraction{}
	}
	var ext QuoteExtraction
	if err := json.Unmarshal(clean, &ext); err != nil {
		logger.Warn("extract.decode.shape_mismatch", "error", err)
		return QuoteExtraction{}
	}
	return Canonicalize(ext)
}

// Canonicalize reconciles the aggregate view with the item list:
//   - an aggregate with no items synthesizes a single-item list
//   - an item list with no aggregates derives quantity as the sum of item
//     quantities and rate as the amount-weighted average
//
// Fields that are absent stay absent; nothing is defaulted to zero.
func Canonicalize(ext QuoteExtraction) QuoteExtraction {
	if len(ext.Items) == 0 {
		if ext.Quantity != nil || ext.Rate != nil || ext.Amount != nil {
			item := ItemFields{
				Description: materialOrDefault(ext),
				Quantity:    ext.Quantity,
				Unit:        ext.OriginalUnit,
				Rate:        ext.Rate,
				Amount:      ext.Amount,
			}
			ext.Items = []ItemFields{item}
		}
		return ext
	}

	var totalQty, totalAmount float64
	var haveQty, haveAmount bool
	for _, it := range ext.Items {
		if it.Quantity != nil {
			totalQty += *it.Quantity
			haveQty = true
		}
		if it.Amount != nil {
			totalAmount += *it.Amount
			haveAmount = true
		}
	}

	if ext.Quantity == nil && haveQty {
		q := totalQty
		ext.Quantity = &q
	}
	if ext.Rate == nil {
		if haveQty && haveAmount && totalQty > 0 {
			r := math.Round(totalAmount/totalQty*100) / 100
			ext.Rate = &r
		} else if ext.Items[0].Rate != nil {
			// zero total quantity: fall back to the first item's rate
			r := *ext.Items[0].Rate
			ext.Rate = &r
		}
	}
	if ext.Amount == nil && haveAmount {
		a := totalAmount
		ext.Amount = &a
	}
	return ext
}

func materialOrDefault(ext QuoteExtraction) string {
	if ext.MaterialDescription != nil && *ext.MaterialDescription != "" {
		return *ext.MaterialDescription
	}
	return "Steel Material"
}
