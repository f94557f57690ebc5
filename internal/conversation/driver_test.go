package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/extract"
	"github.com/arul-selvam/steel-quotes/internal/session"
)

// failingExtractor always errors, forcing the rule-based fallback.
type failingExtractor struct{}

func (failingExtractor) ExtractQuote(context.Context, extract.ExtractRequest) (extract.QuoteExtraction, []byte, error) {
	return extract.QuoteExtraction{}, nil, errors.New("upstream unavailable")
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	return session.NewManager(nil).Create()
}

func TestDriver_FullConversation(t *testing.T) {
	drv := NewDriver(nil, nil) // rule-based only
	sess := newTestSession(t)
	ctx := context.Background()

	reply := drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")

	d := sess.Draft
	require.NotNil(t, d.CustomerName)
	assert.Equal(t, "ABC Company", *d.CustomerName)
	require.Len(t, d.Items, 1)
	assert.Equal(t, 5000.0, d.Items[0].QuantityKg)
	require.NotNil(t, d.GrandTotal)
	assert.Equal(t, 330400.0, *d.GrandTotal)
	assert.Equal(t, constants.DraftStatusReady, d.Status)

	// quote complete, so the driver moves on to terms
	assert.Equal(t, "terms_loading", sess.AskingField)
	assert.Contains(t, reply.Text, "Loading charges")

	reply = drv.HandleMessage(ctx, sess, "Included")
	require.NotNil(t, d.Terms.Loading)
	assert.Equal(t, "Included", *d.Terms.Loading)
	assert.Equal(t, "terms_transport", sess.AskingField)

	reply = drv.HandleMessage(ctx, sess, "use defaults")
	assert.Equal(t, constants.DefaultTermValue, *d.Terms.Transport)
	assert.Equal(t, constants.DefaultTermValue, *d.Terms.Payment)

	// terms done, so the driver offers the optional customer details
	assert.Equal(t, constants.FieldAddress, sess.AskingField)
	assert.Contains(t, reply.Text, "address")

	reply = drv.HandleMessage(ctx, sess, "Plot 12, MIDC Taloja")
	require.NotNil(t, d.CustomerDetails.Address)
	assert.Equal(t, "Plot 12, MIDC Taloja", *d.CustomerDetails.Address)
	assert.Equal(t, constants.FieldTaxID, sess.AskingField)

	reply = drv.HandleMessage(ctx, sess, "skip")
	assert.Nil(t, d.CustomerDetails.TaxID)
	assert.Equal(t, constants.FieldEmail, sess.AskingField)

	reply = drv.HandleMessage(ctx, sess, "skip")
	assert.Contains(t, reply.Text, "generate")

	reply = drv.HandleMessage(ctx, sess, "generate")
	require.NotNil(t, reply.Generated)
	assert.Equal(t, "ABC Company", reply.Generated.CustomerName)
	assert.Equal(t, "Plot 12, MIDC Taloja", reply.Generated.CustomerAddress)
	assert.Equal(t, 280000.0, reply.Generated.Subtotal)
	assert.Equal(t, 50400.0, reply.Generated.TaxAmount)
	assert.Equal(t, 330400.0, reply.Generated.GrandTotal)
	require.Len(t, reply.Generated.Items, 1)
	assert.Equal(t, "ISMC 100x50 (5 MT)", reply.Generated.Items[0].Description)
}

func TestDriver_GenerateRefusedWhenIncomplete(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)

	reply := drv.HandleMessage(context.Background(), sess, "generate")

	assert.Nil(t, reply.Generated)
	assert.Contains(t, reply.Text, "missing")
}

func TestDriver_IncrementalFields(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	reply := drv.HandleMessage(ctx, sess, "quote for 10 MT TMT Bars")
	assert.Contains(t, reply.Text, "Who is the quotation for?")

	drv.HandleMessage(ctx, sess, "quote at ₹52/kg for customer: DEF Infra")

	d := sess.Draft
	require.NotNil(t, d.CustomerName)
	assert.Equal(t, "DEF Infra", *d.CustomerName)
	require.NotNil(t, d.Rate)
}

func TestDriver_Reset(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	require.NotEmpty(t, sess.Draft.Items)

	reply := drv.HandleMessage(ctx, sess, "reset")

	assert.Contains(t, reply.Text, "cleared")
	assert.Empty(t, sess.Draft.Items)
	assert.Equal(t, constants.DraftStatusEmpty, sess.Draft.Status)
	assert.Empty(t, sess.AskingField)
}

func TestDriver_Help(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)

	reply := drv.HandleMessage(context.Background(), sess, "help")

	assert.Contains(t, reply.Text, "reset")
	assert.Contains(t, reply.Text, "generate")
}

func TestDriver_SkipPendingTerm(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	require.Equal(t, "terms_loading", sess.AskingField)

	drv.HandleMessage(ctx, sess, "skip")

	require.NotNil(t, sess.Draft.Terms.Loading)
	assert.Equal(t, constants.DefaultTermValue, *sess.Draft.Terms.Loading)
}

func TestDriver_PromptsOptionalDetailsAfterTerms(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	reply := drv.HandleMessage(ctx, sess, "use defaults")

	assert.Equal(t, constants.FieldAddress, sess.AskingField)
	assert.Contains(t, reply.Text, "address")

	// a skipped detail stays unset and is not asked again
	drv.HandleMessage(ctx, sess, "skip")
	assert.Nil(t, sess.Draft.CustomerDetails.Address)
	assert.Equal(t, constants.FieldTaxID, sess.AskingField)

	drv.HandleMessage(ctx, sess, "skip")
	assert.Equal(t, constants.FieldEmail, sess.AskingField)

	reply = drv.HandleMessage(ctx, sess, "skip")
	assert.Empty(t, sess.AskingField)
	assert.Contains(t, reply.Text, "generate")
}

func TestDriver_AnswerFillsOptionalDetail(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	drv.HandleMessage(ctx, sess, "use defaults")
	require.Equal(t, constants.FieldAddress, sess.AskingField)
	drv.HandleMessage(ctx, sess, "skip")
	require.Equal(t, constants.FieldTaxID, sess.AskingField)

	drv.HandleMessage(ctx, sess, "33AABCU9603R1ZM")

	require.NotNil(t, sess.Draft.CustomerDetails.TaxID)
	assert.Equal(t, "33AABCU9603R1ZM", *sess.Draft.CustomerDetails.TaxID)
	assert.Equal(t, constants.FieldEmail, sess.AskingField)
}

func TestDriver_ResetRestartsDetailPrompts(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	drv.HandleMessage(ctx, sess, "use defaults")
	drv.HandleMessage(ctx, sess, "skip") // address

	drv.HandleMessage(ctx, sess, "reset")
	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	drv.HandleMessage(ctx, sess, "use defaults")

	assert.Equal(t, constants.FieldAddress, sess.AskingField)
}

func TestDriver_PrimaryFailureFallsBackToRules(t *testing.T) {
	drv := NewDriver(failingExtractor{}, nil)
	sess := newTestSession(t)

	drv.HandleMessage(context.Background(), sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")

	d := sess.Draft
	require.NotNil(t, d.CustomerName)
	assert.Equal(t, "ABC Company", *d.CustomerName)
	assert.Equal(t, "rule_based", d.ExtractionMethod)
}

func TestDriver_NewQuotationOverridesPendingField(t *testing.T) {
	drv := NewDriver(nil, nil)
	sess := newTestSession(t)
	ctx := context.Background()

	drv.HandleMessage(ctx, sess, "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg")
	require.Equal(t, "terms_loading", sess.AskingField)

	// a fresh quotation request is merged, not treated as the terms answer
	drv.HandleMessage(ctx, sess, "quote for GHI Steels - 2 MT GI Sheet at ₹62/kg")

	require.NotNil(t, sess.Draft.CustomerName)
	assert.Equal(t, "GHI Steels", *sess.Draft.CustomerName)
	assert.Equal(t, "GI Sheet", sess.Draft.Items[0].Description[:8])
}
