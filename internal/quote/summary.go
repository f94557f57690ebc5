package quote

import (
	"fmt"
	"strings"

	"github.com/arul-selvam/steel-quotes/internal/entity"
)

// Summarize renders a human-readable roll-up of the draft for chat replies.
// Display only; nothing downstream parses this text.
func Summarize(d *entity.QuoteDraft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quote draft status: %s\n", d.Status)

	if d.CustomerName != nil {
		fmt.Fprintf(&b, "Customer: %s\n", *d.CustomerName)
	}
	if d.MaterialSummary != nil {
		fmt.Fprintf(&b, "Material: %s\n", *d.MaterialSummary)
	}
	if len(d.Items) > 1 {
		fmt.Fprintf(&b, "Items: %d\n", len(d.Items))
	}
	if d.Quantity != nil {
		fmt.Fprintf(&b, "Quantity: %.2f kg\n", *d.Quantity)
	}
	if d.Rate != nil {
		fmt.Fprintf(&b, "Rate: ₹%.2f/kg\n", *d.Rate)
	}
	if d.GrandTotal != nil {
		fmt.Fprintf(&b, "Grand total: ₹%.2f\n", *d.GrandTotal)
	}
	if len(d.OutstandingFields) > 0 {
		fmt.Fprintf(&b, "Missing: %s\n", strings.Join(d.OutstandingFields, ", "))
	}
	if d.Confidence > 0 {
		fmt.Fprintf(&b, "Extraction confidence: %.0f%%\n", d.Confidence*100)
	}
	return strings.TrimRight(b.String(), "\n")
}
