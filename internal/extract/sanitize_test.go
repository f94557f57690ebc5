package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanitized(t *testing.T, raw string) map[string]any {
	t.Helper()
	out, _, err := SanitizeQuoteJSON([]byte(raw), nil)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestSanitizeQuoteJSON_RenamesSynonyms(t *testing.T) {
	m := sanitized(t, `{
		"quantity_kg": 5000,
		"rate_per_kg": 56,
		"gst": 50400,
		"total": 330400,
		"gstin": "33AABCU9603R1ZM",
		"material": "ISMC 100x50",
		"missing_fields": ["customer_name"]
	}`)

	assert.Equal(t, 5000.0, m["quantity"])
	assert.Equal(t, 56.0, m["rate"])
	assert.Equal(t, 50400.0, m["tax_amount"])
	assert.Equal(t, 330400.0, m["grand_total"])
	assert.Equal(t, "33AABCU9603R1ZM", m["customer_tax_id"])
	assert.Equal(t, "ISMC 100x50", m["material_description"])
	assert.Equal(t, []any{"customer_name"}, m["outstanding_fields"])

	for _, gone := range []string{"quantity_kg", "rate_per_kg", "gst", "total", "gstin", "material", "missing_fields"} {
		assert.NotContains(t, m, gone)
	}
}

func TestSanitizeQuoteJSON_CoercesRupeeStrings(t *testing.T) {
	m := sanitized(t, `{"amount": "₹56,000", "rate": "56.50", "subtotal": " 2,80,000 "}`)

	assert.Equal(t, 56000.0, m["amount"])
	assert.Equal(t, 56.5, m["rate"])
	assert.Equal(t, 280000.0, m["subtotal"])
}

func TestSanitizeQuoteJSON_UnparseableNumbersBecomeAbsent(t *testing.T) {
	m := sanitized(t, `{"quantity": "about five tons", "rate": null, "customer_name": "ABC"}`)

	assert.NotContains(t, m, "quantity")
	assert.NotContains(t, m, "rate")
	assert.Equal(t, "ABC", m["customer_name"])
}

func TestSanitizeQuoteJSON_DropsUnknownKeysAndEmptyStrings(t *testing.T) {
	m := sanitized(t, `{
		"customer_name": "  ABC Company  ",
		"material_description": "   ",
		"reasoning": "the user asked for a quote",
		"internal_notes": {"a": 1}
	}`)

	assert.Equal(t, "ABC Company", m["customer_name"])
	assert.NotContains(t, m, "material_description")
	assert.NotContains(t, m, "reasoning")
	assert.NotContains(t, m, "internal_notes")
}

func TestSanitizeQuoteJSON_Items(t *testing.T) {
	m := sanitized(t, `{"items": [
		{"description": " ISMC 100x50 ", "quantity_kg": "5,000", "rate_per_kg": 56, "original_unit": "MT", "llm_note": "x"},
		"not an item",
		{"description": "GI Sheet", "amount": "₹9,300"}
	]}`)

	items, ok := m["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "ISMC 100x50", first["description"])
	assert.Equal(t, 5000.0, first["quantity"])
	assert.Equal(t, 56.0, first["rate"])
	assert.Equal(t, "MT", first["unit"])
	assert.NotContains(t, first, "llm_note")

	second := items[1].(map[string]any)
	assert.Equal(t, 9300.0, second["amount"])
}

func TestSanitizeQuoteJSON_TermsSpellings(t *testing.T) {
	m := sanitized(t, `{"terms": {
		"loading_charges": "Included",
		"transport_charges": " ₹2000 extra ",
		"payment_terms": "Advance"
	}}`)

	terms, ok := m["terms"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Included", terms["loading"])
	assert.Equal(t, "₹2000 extra", terms["transport"])
	assert.Equal(t, "Advance", terms["payment"])
}

func TestSanitizeQuoteJSON_ConfidenceOutOfRangeDropped(t *testing.T) {
	m := sanitized(t, `{"confidence": 1.7}`)
	assert.NotContains(t, m, "confidence")

	m = sanitized(t, `{"confidence": 0.85}`)
	assert.Equal(t, 0.85, m["confidence"])
}

func TestSanitizeQuoteJSON_MalformedInput(t *testing.T) {
	_, _, err := SanitizeQuoteJSON([]byte(`{"customer_name": `), nil)
	assert.Error(t, err)
}
