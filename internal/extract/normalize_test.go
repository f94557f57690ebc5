package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuoteJSON_FullResponse(t *testing.T) {
	raw := []byte(`{
		"customer_name": "ABC Company",
		"items": [
			{"description": "ISMC 100x50", "quantity": 5, "unit": "MT", "rate": 56}
		],
		"confidence": 0.9,
		"extraction_method": "openai"
	}`)

	ext := DecodeQuoteJSON(raw, nil)

	require.NotNil(t, ext.CustomerName)
	assert.Equal(t, "ABC Company", *ext.CustomerName)
	require.Len(t, ext.Items, 1)
	assert.Equal(t, "MT", ext.Items[0].Unit)
	require.NotNil(t, ext.Quantity)
	assert.Equal(t, 5.0, *ext.Quantity)
	require.NotNil(t, ext.Rate)
	assert.Equal(t, 56.0, *ext.Rate)
	assert.Equal(t, float32(0.9), ext.Confidence)
}

func TestDecodeQuoteJSON_MalformedYieldsEmpty(t *testing.T) {
	ext := DecodeQuoteJSON([]byte(`I'm sorry, I can't produce JSON`), nil)

	assert.Nil(t, ext.CustomerName)
	assert.Empty(t, ext.Items)
	assert.Nil(t, ext.Quantity)
}

func TestCanonicalize_AggregateSynthesizesItem(t *testing.T) {
	qty, rate := 100.0, 52.0
	ext := Canonicalize(QuoteExtraction{
		MaterialDescription: strp("TMT Bars 12mm"),
		Quantity:            &qty,
		OriginalUnit:        "kg",
		Rate:                &rate,
	})

	require.Len(t, ext.Items, 1)
	assert.Equal(t, "TMT Bars 12mm", ext.Items[0].Description)
	assert.Equal(t, 100.0, *ext.Items[0].Quantity)
	assert.Equal(t, "kg", ext.Items[0].Unit)
}

func TestCanonicalize_AggregateWithoutMaterialUsesPlaceholder(t *testing.T) {
	rate := 56.0
	ext := Canonicalize(QuoteExtraction{Rate: &rate})

	require.Len(t, ext.Items, 1)
	assert.Equal(t, "Steel Material", ext.Items[0].Description)
}

func TestCanonicalize_ItemsDeriveAggregates(t *testing.T) {
	q1, a1 := 100.0, 5600.0
	q2, a2 := 50.0, 3000.0
	ext := Canonicalize(QuoteExtraction{
		Items: []ItemFields{
			{Description: "A", Quantity: &q1, Amount: &a1},
			{Description: "B", Quantity: &q2, Amount: &a2},
		},
	})

	require.NotNil(t, ext.Quantity)
	assert.Equal(t, 150.0, *ext.Quantity)
	require.NotNil(t, ext.Amount)
	assert.Equal(t, 8600.0, *ext.Amount)
	require.NotNil(t, ext.Rate)
	assert.Equal(t, 57.33, *ext.Rate) // 8600/150, rounded
}

func TestCanonicalize_ZeroQuantityFallsBackToFirstItemRate(t *testing.T) {
	r := 56.0
	ext := Canonicalize(QuoteExtraction{
		Items: []ItemFields{{Description: "A", Rate: &r}},
	})

	require.NotNil(t, ext.Rate)
	assert.Equal(t, 56.0, *ext.Rate)
	assert.Nil(t, ext.Quantity)
	assert.Nil(t, ext.Amount)
}

func TestCanonicalize_ExplicitAggregatesWin(t *testing.T) {
	q, explicit := 10.0, 99.0
	ext := Canonicalize(QuoteExtraction{
		Quantity: &explicit,
		Items:    []ItemFields{{Description: "A", Quantity: &q}},
	})

	assert.Equal(t, 99.0, *ext.Quantity)
}

func TestCanonicalize_EmptyStaysEmpty(t *testing.T) {
	ext := Canonicalize(QuoteExtraction{})
	assert.Empty(t, ext.Items)
	assert.Nil(t, ext.Quantity)
}

func strp(s string) *string { return &s }
