package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arul-selvam/steel-quotes/constants"
	"github.com/arul-selvam/steel-quotes/internal/entity"
	"github.com/arul-selvam/steel-quotes/internal/extract"
	"github.com/arul-selvam/steel-quotes/internal/quote"
	"github.com/arul-selvam/steel-quotes/internal/session"
)

// Reply is the driver's answer to one user message. Generated is non-nil
// only when the message completed a quotation.
type Reply struct {
	Text      string
	Generated *entity.DocumentPayload
}

// Driver routes every user utterance: commands first, then field answers for
// whatever was last prompted, then the extraction pipeline. One instance
// serves all sessions; per-message state lives on the session.
type Driver struct {
	extractor extract.QuoteExtractor
	fallback  extract.QuoteExtractor
	merger    *quote.Merger
	logger    *slog.Logger
}

// NewDriver wires the driver. extractor may be nil, in which case only the
// rule-based fallback runs (useful offline and in tests).
func NewDriver(extractor extract.QuoteExtractor, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		extractor: extractor,
		fallback:  extract.NewRuleParser(logger),
		merger:    quote.NewMerger(logger),
		logger:    logger,
	}
}

const helpText = `Describe your quotation in plain language, for example:
  "Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg"
Commands: 'reset' starts over, 'generate' produces the quotation,
'skip' skips the field being asked for, 'use defaults' fills standard terms.`

// HandleMessage processes one user message against the session's draft. It
// holds the session lock for the whole turn, which is what guarantees a
// single active mutation path per draft.
func (drv *Driver) HandleMessage(ctx context.Context, sess *session.Session, input string) Reply {
	sess.Lock()
	defer sess.Unlock()

	lower := strings.ToLower(strings.TrimSpace(input))
	d := sess.Draft

	switch lower {
	case "reset", "clear", "start over":
		drv.merger.Reset(d)
		sess.AskingField = ""
		sess.ClearAsked()
		return Reply{Text: "Quote draft cleared. Please describe the quotation you need."}

	case "help", "?":
		return Reply{Text: helpText}

	case "use defaults", "default", "standard terms", "default terms":
		for _, term := range constants.TermNames {
			drv.merger.UpdateTerm(d, term, constants.DefaultTermValue)
		}
		sess.AskingField = ""
		return Reply{Text: "Standard terms applied.\n\n" + drv.statusAndPrompt(sess)}

	case "generate", "create pdf", "yes":
		return drv.generate(sess)

	case "skip":
		return drv.skip(sess)
	}

	// Answer to a pending field prompt, unless this looks like a fresh
	// quotation request.
	if sess.AskingField != "" && extract.DetectIntent(input) != extract.IntentQuotation {
		return drv.answerPending(sess, input)
	}

	return drv.extractAndMerge(ctx, sess, input)
}

func (drv *Driver) generate(sess *session.Session) Reply {
	d := sess.Draft
	quote.EnsureTermsDefaults(d)

	if missing := quote.MissingRequired(d); len(missing) > 0 {
		return Reply{Text: fmt.Sprintf("Still missing required fields: %s\n\n%s",
			strings.Join(missing, ", "), quote.Summarize(d))}
	}
	if !quote.IsReady(d) {
		return Reply{Text: "Not ready yet.\n\n" + quote.Summarize(d)}
	}

	payload := quote.ToDocument(d)
	sess.AskingField = ""
	return Reply{
		Text:      "Quotation generated.\n\n" + quote.Summarize(d),
		Generated: &payload,
	}
}

func (drv *Driver) skip(sess *session.Session) Reply {
	d := sess.Draft
	field := sess.AskingField
	sess.AskingField = ""

	switch {
	case strings.HasPrefix(field, "terms_"):
		drv.merger.UpdateTerm(d, strings.TrimPrefix(field, "terms_"), "")
	case field != "":
		drv.merger.UpdateCustomerDetail(d, field, "")
	default:
		return Reply{Text: "Nothing to skip right now.\n\n" + drv.statusAndPrompt(sess)}
	}
	return Reply{Text: "Field skipped.\n\n" + drv.statusAndPrompt(sess)}
}

func (drv *Driver) answerPending(sess *session.Session, input string) Reply {
	d := sess.Draft
	field := sess.AskingField
	sess.AskingField = ""

	if strings.HasPrefix(field, "terms_") {
		drv.merger.UpdateTerm(d, strings.TrimPrefix(field, "terms_"), input)
	} else {
		drv.merger.UpdateCustomerDetail(d, field, input)
	}
	return Reply{Text: "Noted.\n\n" + drv.statusAndPrompt(sess)}
}

func (drv *Driver) extractAndMerge(ctx context.Context, sess *session.Session, input string) Reply {
	d := sess.Draft

	ext, _, err := drv.runExtraction(ctx, sess, input)
	if err != nil {
		// both extractors failed; nothing to merge
		drv.logger.Warn("conversation.extract.failed", "session_id", sess.ID, "error", err)
		return Reply{Text: "I could not read a quotation out of that. " +
			"Try something like: \"Quote for ABC Company - 5 MT ISMC 100x50 at ₹56/kg\"."}
	}

	drv.merger.Apply(d, ext)
	sess.Remember(input)
	return Reply{Text: drv.statusAndPrompt(sess)}
}

func (drv *Driver) runExtraction(ctx context.Context, sess *session.Session, input string) (extract.QuoteExtraction, []byte, error) {
	req := extract.ExtractRequest{Input: input, ConversationCtx: sess.Context()}
	if drv.extractor != nil {
		ext, raw, err := drv.extractor.ExtractQuote(ctx, req)
		if err == nil {
			return ext, raw, nil
		}
		drv.logger.Warn("conversation.extract.primary_failed",
			"session_id", sess.ID, "error", err, "fallback", "rule_based")
	}
	return drv.fallback.ExtractQuote(ctx, req)
}

var termPrompts = map[string]string{
	"loading":   `Loading charges (e.g. "Included", "₹500 extra", "As per actual")?`,
	"transport": `Transport charges (e.g. "Included", "₹2000 extra", "FOB")?`,
	"payment":   `Payment terms (e.g. "Advance", "30 days credit", "Against delivery")?`,
}

var fieldPrompts = map[string]string{
	constants.FieldCustomerName: "Who is the quotation for?",
	constants.FieldQuantity:     "What quantity do you need (kg or MT)?",
	constants.FieldRate:         "What is the rate per kg?",
}

var detailPrompts = map[string]string{
	constants.FieldAddress: "Customer address for the quotation?",
	constants.FieldTaxID:   "Customer GSTIN?",
	constants.FieldEmail:   "Customer email?",
}

// statusAndPrompt summarizes the draft and decides what to ask next: first
// any missing required field, then any unset term, then any optional customer
// detail not yet offered, then the generate nudge.
func (drv *Driver) statusAndPrompt(sess *session.Session) string {
	d := sess.Draft
	summary := quote.Summarize(d)

	for _, f := range []string{constants.FieldCustomerName, constants.FieldQuantity, constants.FieldRate} {
		for _, missing := range quote.MissingRequired(d) {
			if missing == f {
				if p, ok := fieldPrompts[f]; ok {
					return summary + "\n\n" + p
				}
			}
		}
	}

	if term, ok := firstUnsetTerm(d); ok {
		sess.AskingField = "terms_" + term
		return summary + "\n\n" + termPrompts[term] + "\n(Type 'skip' for 'Included'.)"
	}

	if field, ok := nextUnaskedDetail(sess); ok {
		sess.AskingField = field
		sess.MarkAsked(field)
		return summary + "\n\n" + detailPrompts[field] + "\n(Type 'skip' to leave it out.)"
	}

	if quote.IsReady(d) {
		return summary + "\n\nReady to generate. Type 'generate' to create the quotation."
	}
	return summary
}

// nextUnaskedDetail picks the first optional customer field that is unset and
// was not prompted for before. A skipped detail is never asked twice.
func nextUnaskedDetail(sess *session.Session) (string, bool) {
	d := sess.Draft
	if len(quote.MissingRequired(d)) > 0 {
		return "", false
	}
	details := map[string]*string{
		constants.FieldAddress: d.CustomerDetails.Address,
		constants.FieldTaxID:   d.CustomerDetails.TaxID,
		constants.FieldEmail:   d.CustomerDetails.Email,
	}
	for _, name := range constants.CustomerDetailFields {
		if sess.WasAsked(name) {
			continue
		}
		if v := details[name]; v == nil || *v == "" {
			return name, true
		}
	}
	return "", false
}

func firstUnsetTerm(d *entity.QuoteDraft) (string, bool) {
	// only prompt for terms once the quote itself is complete
	if len(quote.MissingRequired(d)) > 0 {
		return "", false
	}
	terms := map[string]*string{
		"loading":   d.Terms.Loading,
		"transport": d.Terms.Transport,
		"payment":   d.Terms.Payment,
	}
	for _, name := range constants.TermNames {
		if v := terms[name]; v == nil || *v == "" {
			return name, true
		}
	}
	return "", false
}
