package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/arul-selvam/steel-quotes/constants"
)

// Intent classifies one user utterance.
type Intent string

const (
	IntentQuotation     Intent = "quotation"
	IntentPurchaseOrder Intent = "purchase_order"
	IntentGreeting      Intent = "greeting"
	IntentGeneral       Intent = "general"
)

var quotationKeywords = []string{
	"quote", "quotation", "estimate", "pricing", "price list",
}

var purchaseOrderKeywords = []string{
	"purchase order", "po for", "order for", "procurement",
}

var greetingKeywords = []string{"hello", "hi ", "hey"}

// DetectIntent classifies an utterance with keyword rules. It errs toward
// IntentQuotation since that is the only flow with side effects.
func DetectIntent(input string) Intent {
	lower := " " + strings.ToLower(strings.TrimSpace(input)) + " "
	for _, kw := range quotationKeywords {
		if strings.Contains(lower, kw) {
			return IntentQuotation
		}
	}
	for _, kw := range purchaseOrderKeywords {
		if strings.Contains(lower, kw) {
			return IntentPurchaseOrder
		}
	}
	for _, kw := range greetingKeywords {
		if strings.Contains(lower, " "+strings.TrimSpace(kw)+" ") || strings.HasPrefix(strings.TrimSpace(strings.ToLower(input)), strings.TrimSpace(kw)) {
			return IntentGreeting
		}
	}
	return IntentGeneral
}

var (
	reCustomer = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:quote|quotation|estimate)\s+(?:for|to)\s+([A-Za-z][A-Za-z&.\s]*?)\s*(?:[-–—,:]|\bfor\b|$)`),
		regexp.MustCompile(`(?i)(?:customer|client)\s*[:\s]\s*([A-Za-z][A-Za-z&.\s]*?)\s*(?:[-–—,:]|$)`),
	}
	reQuantity = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(MT|kg|tons?|tonnes?|nos|pcs)\b`)
	reMaterial = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:MT|kg|tons?|tonnes?)\s+(.+?)\s*(?:\bat\b|@|₹|$)`)
	reRate     = regexp.MustCompile(`(?i)(?:at|@)?\s*(?:₹|rs\.?)\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*/\s*(kg|mt|ton)`)
)

// RuleParser is a regex fallback for when the extraction service is
// unavailable or fails. It only understands the common single-item quote
// phrasing; anything it cannot see is reported as outstanding.
type RuleParser struct {
	logger *slog.Logger
}

func NewRuleParser(logger *slog.Logger) *RuleParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleParser{logger: logger}
}

// ExtractQuote implements QuoteExtractor.
func (p *RuleParser) ExtractQuote(_ context.Context, req ExtractRequest) (QuoteExtraction, []byte, error) {
	input := req.Input
	ext := QuoteExtraction{
		Confidence:       0.4,
		ExtractionMethod: "rule_based",
	}

	for _, re := range reCustomer {
		if m := re.FindStringSubmatch(input); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				ext.CustomerName = &name
				break
			}
		}
	}

	var item ItemFields
	haveItem := false
	if m := reMaterial.FindStringSubmatch(input); m != nil {
		item.Description = strings.TrimSpace(m[1])
		haveItem = item.Description != ""
	}
	if m := reQuantity.FindStringSubmatch(input); m != nil {
		if q, err := strconv.ParseFloat(m[1], 64); err == nil {
			item.Quantity = &q
			item.Unit = m[2]
			haveItem = true
		}
	}
	if m := reRate.FindStringSubmatch(input); m != nil {
		if r, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			item.Rate = &r
			haveItem = true
		}
	}
	if haveItem {
		if item.Description == "" {
			item.Description = "Steel Material"
		}
		ext.Items = []ItemFields{item}
		ext.MaterialDescription = &item.Description
	}

	if ext.CustomerName == nil {
		ext.OutstandingFields = append(ext.OutstandingFields, constants.FieldCustomerName)
	}
	if item.Quantity == nil {
		ext.OutstandingFields = append(ext.OutstandingFields, constants.FieldQuantity)
	}
	if item.Rate == nil {
		ext.OutstandingFields = append(ext.OutstandingFields, constants.FieldRate)
	}

	ext = Canonicalize(ext)

	raw, _ := json.Marshal(ext)
	p.logger.Debug("extract.rules.done",
		"customer_found", ext.CustomerName != nil,
		"items", len(ext.Items),
		"outstanding", ext.OutstandingFields,
	)
	return ext, raw, nil
}
