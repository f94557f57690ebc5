package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/extract"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func TestMerger_Apply_FillForward(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.Apply(d, extract.QuoteExtraction{CustomerName: strp("ABC Company")})

	require.NotNil(t, d.CustomerName)
	assert.Equal(t, "ABC Company", *d.CustomerName)
	assert.Equal(t, constants.DraftStatusPartial, d.Status)

	// a later extraction without customer_name must not regress it
	m.Apply(d, extract.QuoteExtraction{
		Items: []extract.ItemFields{
			{Description: "ISMC 100x50", Quantity: f64p(5), Unit: "MT", Rate: f64p(56)},
		},
	})

	require.NotNil(t, d.CustomerName)
	assert.Equal(t, "ABC Company", *d.CustomerName)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 5000.0, d.Items[0].QuantityKg)
	require.NotNil(t, d.Subtotal)
	assert.Equal(t, 280000.0, *d.Subtotal)
	assert.Equal(t, 50400.0, *d.TaxAmount)
	assert.Equal(t, 330400.0, *d.GrandTotal)
	assert.Equal(t, constants.DraftStatusReady, d.Status)
}

func TestMerger_Apply_ItemListReplacedWholesale(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.Apply(d, extract.QuoteExtraction{
		Items: []extract.ItemFields{
			{Description: "ISMC 100x50", Quantity: f64p(5), Unit: "MT", Rate: f64p(56)},
		},
	})
	m.Apply(d, extract.QuoteExtraction{
		Items: []extract.ItemFields{
			{Description: "GI Sheet", Quantity: f64p(150), Unit: "kg", Rate: f64p(62)},
		},
	})

	require.Len(t, d.Items, 1)
	assert.Equal(t, "GI Sheet", d.Items[0].Description)
	require.NotNil(t, d.Subtotal)
	assert.Equal(t, 9300.0, *d.Subtotal)
}

func TestMerger_Apply_OptionalFieldsNeverOutstanding(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.Apply(d, extract.QuoteExtraction{
		CustomerName: strp("ABC Company"),
		Items: []extract.ItemFields{
			{Description: "ISMC 100x50", Quantity: f64p(5000), Unit: "kg", Rate: f64p(56)},
		},
		OutstandingFields: []string{
			constants.FieldAddress, constants.FieldTaxID, constants.FieldEmail,
			constants.FieldCustomerName,
		},
	})

	assert.Empty(t, d.OutstandingFields)
	assert.Equal(t, constants.DraftStatusReady, d.Status)
}

func TestMerger_Apply_EssentialOutstandingBlocksReady(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.Apply(d, extract.QuoteExtraction{
		Items: []extract.ItemFields{
			{Description: "ISMC 100x50", Quantity: f64p(5000), Unit: "kg", Rate: f64p(56)},
		},
		OutstandingFields: []string{constants.FieldCustomerName},
	})

	assert.Equal(t, []string{constants.FieldCustomerName}, d.OutstandingFields)
	assert.Equal(t, constants.DraftStatusPartial, d.Status)
}

func TestMerger_UpdateCustomerDetail(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()
	d.OutstandingFields = []string{constants.FieldAddress}

	m.UpdateCustomerDetail(d, constants.FieldAddress, " 12 Industrial Estate, Chennai ")

	require.NotNil(t, d.CustomerDetails.Address)
	assert.Equal(t, "12 Industrial Estate, Chennai", *d.CustomerDetails.Address)
	assert.NotContains(t, d.OutstandingFields, constants.FieldAddress)

	// empty value clears the field (user skipped)
	m.UpdateCustomerDetail(d, constants.FieldAddress, "")
	assert.Nil(t, d.CustomerDetails.Address)
}

func TestMerger_UpdateTerm_EmptyDefaultsToIncluded(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.UpdateTerm(d, "loading", "")
	m.UpdateTerm(d, "transport", "₹2000 extra")
	m.UpdateTerm(d, "payment", "30 days credit")

	require.NotNil(t, d.Terms.Loading)
	assert.Equal(t, constants.DefaultTermValue, *d.Terms.Loading)
	assert.Equal(t, "₹2000 extra", *d.Terms.Transport)
	assert.Equal(t, "30 days credit", *d.Terms.Payment)
}

func TestMerger_Reset(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()
	m.Apply(d, extract.QuoteExtraction{
		CustomerName: strp("ABC Company"),
		Items: []extract.ItemFields{
			{Description: "ISMC 100x50", Quantity: f64p(5000), Unit: "kg", Rate: f64p(56)},
		},
	})
	require.Equal(t, constants.DraftStatusReady, d.Status)

	m.Reset(d)

	assert.Equal(t, constants.DraftStatusEmpty, d.Status)
	assert.Nil(t, d.CustomerName)
	assert.Empty(t, d.Items)
	assert.Nil(t, d.GrandTotal)
}

func TestMerger_Apply_MaterialSummaryFromFirstItem(t *testing.T) {
	m := NewMerger(nil)
	d := NewDraft()

	m.Apply(d, extract.QuoteExtraction{
		Items: []extract.ItemFields{
			{Description: "TMT Bars 12mm", Quantity: f64p(100), Unit: "kg", Rate: f64p(52)},
		},
	})

	require.NotNil(t, d.MaterialSummary)
	assert.Equal(t, "TMT Bars 12mm", *d.MaterialSummary)
}
