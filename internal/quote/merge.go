package quote

import (
	"log/slog"
	"strings"
	"time"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
	"github.com/arul-selvam/steel-quotes/internal/extract"
)

// Merger is the only component allowed to mutate a QuoteDraft. The owning
// session must guarantee one mutation at a time per draft; the merger itself
// does no locking.
type Merger struct {
	logger *slog.Logger
}

func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Apply folds a canonical extraction into the draft. The merge is
// fill-forward: fields absent from the extraction never regress a known
// value. An item list in the extraction replaces the draft's list wholesale,
// goes through enrichment and triggers a full totals recompute.
func (m *Merger) Apply(d *entity.QuoteDraft, ext extract.QuoteExtraction) {
	if ext.CustomerName != nil {
		d.CustomerName = ptr(*ext.CustomerName)
	}
	if ext.CustomerAddress != nil {
		d.CustomerDetails.Address = ptr(*ext.CustomerAddress)
	}
	if ext.CustomerTaxID != nil {
		d.CustomerDetails.TaxID = ptr(*ext.CustomerTaxID)
	}
	if ext.CustomerEmail != nil {
		d.CustomerDetails.Email = ptr(*ext.CustomerEmail)
	}

	if ext.MaterialDescription != nil {
		d.MaterialSummary = ptr(*ext.MaterialDescription)
	} else if len(ext.Items) > 0 && ext.Items[0].Description != "" {
		d.MaterialSummary = ptr(ext.Items[0].Description)
	}

	if ext.Quantity != nil {
		d.Quantity = ptr(*ext.Quantity)
	}
	if ext.Rate != nil {
		d.Rate = ptr(*ext.Rate)
	}
	if ext.Amount != nil {
		d.Amount = ptr(*ext.Amount)
	}

	if ext.Subtotal != nil {
		d.Subtotal = ptr(*ext.Subtotal)
	}
	if ext.TaxAmount != nil {
		d.TaxAmount = ptr(*ext.TaxAmount)
	}
	if ext.GrandTotal != nil {
		d.GrandTotal = ptr(*ext.GrandTotal)
	}

	// an item list supersedes any totals the extraction claimed
	if len(ext.Items) > 0 {
		d.Items = EnrichItems(itemsFromFields(ext.Items))
		Recalculate(d)
	}

	if ext.OutstandingFields != nil {
		d.OutstandingFields = append([]string(nil), ext.OutstandingFields...)
	}

	if ext.Terms.Loading != nil {
		d.Terms.Loading = ptr(*ext.Terms.Loading)
	}
	if ext.Terms.Transport != nil {
		d.Terms.Transport = ptr(*ext.Terms.Transport)
	}
	if ext.Terms.Payment != nil {
		d.Terms.Payment = ptr(*ext.Terms.Payment)
	}

	if ext.Confidence > 0 {
		d.Confidence = ext.Confidence
	}
	if ext.ExtractionMethod != "" {
		d.ExtractionMethod = ext.ExtractionMethod
	}
	d.LastUpdated = time.Now().UTC()

	m.updateStatus(d)
	m.logger.Debug("quote.merge.applied",
		"status", d.Status,
		"items", len(d.Items),
		"outstanding", d.OutstandingFields,
	)
}

// UpdateCustomerDetail sets one optional customer field, or clears it when
// the user skips. Either way the field stops counting as outstanding.
func (m *Merger) UpdateCustomerDetail(d *entity.QuoteDraft, field, value string) {
	value = strings.TrimSpace(value)
	var target **string
	switch field {
	case constants.FieldAddress:
		target = &d.CustomerDetails.Address
	case constants.FieldTaxID:
		target = &d.CustomerDetails.TaxID
	case constants.FieldEmail:
		target = &d.CustomerDetails.Email
	default:
		m.logger.Warn("quote.merge.unknown_customer_field", "field", field)
		return
	}
	if value == "" {
		*target = nil
	} else {
		*target = ptr(value)
	}
	d.OutstandingFields = removeField(d.OutstandingFields, field)
	d.LastUpdated = time.Now().UTC()
	m.updateStatus(d)
}

// UpdateTerm sets one terms field; skip or empty input defaults to
// "Included".
func (m *Merger) UpdateTerm(d *entity.QuoteDraft, term, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = constants.DefaultTermValue
	}
	switch term {
	case "loading":
		d.Terms.Loading = ptr(value)
	case "transport":
		d.Terms.Transport = ptr(value)
	case "payment":
		d.Terms.Payment = ptr(value)
	default:
		m.logger.Warn("quote.merge.unknown_term", "term", term)
		return
	}
	d.LastUpdated = time.Now().UTC()
	m.updateStatus(d)
}

// Reset discards every field and returns the draft to EMPTY. This is the only
// way out of READY other than generating a document.
func (m *Merger) Reset(d *entity.QuoteDraft) {
	*d = *NewDraft()
}

// updateStatus recomputes the draft status from current field values and
// scrubs outstanding_fields: optional customer-detail fields never block, and
// a field that now holds a value is no longer outstanding.
func (m *Merger) updateStatus(d *entity.QuoteDraft) {
	d.OutstandingFields = filterOutstanding(d)

	hasPricedItem := false
	for _, it := range d.Items {
		if it.QuantityKg > 0 && it.RatePerKg > 0 {
			hasPricedItem = true
			break
		}
	}

	switch {
	case d.CustomerName == nil && len(d.Items) == 0 && d.Rate == nil:
		d.Status = constants.DraftStatusEmpty
	case d.CustomerName != nil && hasPricedItem &&
		d.Subtotal != nil && d.TaxAmount != nil && d.GrandTotal != nil &&
		len(d.OutstandingFields) == 0:
		d.Status = constants.DraftStatusReady
	default:
		d.Status = constants.DraftStatusPartial
	}
}

func filterOutstanding(d *entity.QuoteDraft) []string {
	out := make([]string, 0, len(d.OutstandingFields))
	for _, f := range d.OutstandingFields {
		if _, optional := constants.OptionalCustomerFields[f]; optional {
			continue
		}
		if fieldSatisfied(d, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func fieldSatisfied(d *entity.QuoteDraft, field string) bool {
	switch field {
	case constants.FieldCustomerName:
		return d.CustomerName != nil
	case constants.FieldQuantity:
		return d.Quantity != nil && *d.Quantity > 0
	case constants.FieldRate:
		return d.Rate != nil && *d.Rate > 0
	case constants.FieldAmount:
		return d.Amount != nil && *d.Amount > 0
	case constants.FieldSubtotal:
		return d.Subtotal != nil
	case constants.FieldTaxAmount:
		return d.TaxAmount != nil
	case constants.FieldGrandTotal:
		return d.GrandTotal != nil
	case constants.FieldItems:
		return len(d.Items) > 0
	}
	return false
}

func removeField(fields []string, field string) []string {
	out := fields[:0]
	for _, f := range fields {
		if f != field {
			out = append(out, f)
		}
	}
	return out
}

func itemsFromFields(items []extract.ItemFields) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, f := range items {
		li := entity.LineItem{
			Description: f.Description,
			Unit:        f.Unit,
		}
		if f.Quantity != nil {
			li.QuantityKg = *f.Quantity
		}
		if f.Rate != nil {
			li.RatePerKg = *f.Rate
		}
		if f.Amount != nil {
			li.Amount = *f.Amount
		}
		out = append(out, li)
	}
	return out
}
