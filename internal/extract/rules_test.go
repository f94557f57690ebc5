package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arul-selvam/steel-quotes/constants"
)

func TestDetectIntent(t *testing.T) {
	cases := map[string]Intent{
		"Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg": IntentQuotation,
		"need a quotation for TMT bars":                      IntentQuotation,
		"purchase order for 10 MT angles":                    IntentPurchaseOrder,
		"hello":                                              IntentGreeting,
		"hey there":                                          IntentGreeting,
		"what sections do you stock?":                        IntentGeneral,
	}
	for input, want := range cases {
		assert.Equal(t, want, DetectIntent(input), "input %q", input)
	}
}

func TestRuleParser_FullQuoteLine(t *testing.T) {
	p := NewRuleParser(nil)

	ext, raw, err := p.ExtractQuote(context.Background(),
		ExtractRequest{Input: "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg"})

	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	require.NotNil(t, ext.CustomerName)
	assert.Equal(t, "ABC Company", *ext.CustomerName)

	require.Len(t, ext.Items, 1)
	item := ext.Items[0]
	assert.Equal(t, "ISMC 100x50", item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 5.0, *item.Quantity)
	assert.Equal(t, "MT", item.Unit)
	require.NotNil(t, item.Rate)
	assert.Equal(t, 56.0, *item.Rate)

	assert.Empty(t, ext.OutstandingFields)
	assert.Equal(t, "rule_based", ext.ExtractionMethod)
	assert.Equal(t, float32(0.4), ext.Confidence)
}

func TestRuleParser_MissingRateReported(t *testing.T) {
	p := NewRuleParser(nil)

	ext, _, err := p.ExtractQuote(context.Background(),
		ExtractRequest{Input: "Quote for XYZ Traders - 10 MT TMT Bars"})

	require.NoError(t, err)
	require.NotNil(t, ext.CustomerName)
	assert.Equal(t, "XYZ Traders", *ext.CustomerName)
	assert.Contains(t, ext.OutstandingFields, constants.FieldRate)
	assert.NotContains(t, ext.OutstandingFields, constants.FieldQuantity)
}

func TestRuleParser_NothingRecognized(t *testing.T) {
	p := NewRuleParser(nil)

	ext, _, err := p.ExtractQuote(context.Background(),
		ExtractRequest{Input: "good morning"})

	require.NoError(t, err)
	assert.Nil(t, ext.CustomerName)
	assert.Empty(t, ext.Items)
	assert.ElementsMatch(t, []string{
		constants.FieldCustomerName, constants.FieldQuantity, constants.FieldRate,
	}, ext.OutstandingFields)
}

func TestRuleParser_RateWithCommas(t *testing.T) {
	p := NewRuleParser(nil)

	ext, _, err := p.ExtractQuote(context.Background(),
		ExtractRequest{Input: "quote for Metro Builders - 2 tonnes MS Plate at rs. 1,250/MT"})

	require.NoError(t, err)
	require.Len(t, ext.Items, 1)
	require.NotNil(t, ext.Items[0].Rate)
	assert.Equal(t, 1250.0, *ext.Items[0].Rate)
}
