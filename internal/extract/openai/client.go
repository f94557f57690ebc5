package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arul-selvam/steel-quotes/internal/extract"
)

// ExtractQuote implements extract.QuoteExtractor using chat/completions with
// a JSON-object response format. The response is validated against the quote
// schema; on failure, a lenient sanitize-and-revalidate pass runs before
// giving up.
func (c *Client) ExtractQuote(ctx context.Context, req extract.ExtractRequest) (extract.QuoteExtraction, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("extract.openai.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"input_len", len(req.Input),
		"has_context", req.ConversationCtx != "",
	)

	schema := extract.BuildQuoteJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Error("extract.openai.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return extract.QuoteExtraction{}, nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("extract.openai.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return extract.QuoteExtraction{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("extract.openai.no_choices", "req_id", rid, "raw", string(raw))
		return extract.QuoteExtraction{}, raw, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := extract.ValidateJSONAgainstSchema(schema, content); err != nil {
		if !c.cfg.Lenient {
			c.log.Error("extract.openai.schema_validation_failed", "req_id", rid, "error", err)
			return extract.QuoteExtraction{}, content, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, dropped, sErr := extract.SanitizeQuoteJSON(content, c.log)
		if sErr != nil {
			c.log.Error("extract.openai.sanitize_failed", "req_id", rid, "error", sErr)
			return extract.QuoteExtraction{}, content, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := extract.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("extract.openai.schema_validation_failed", "req_id", rid, "error", vErr, "content", string(content))
			return extract.QuoteExtraction{}, content, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("extract.openai.lenient_sanitize_applied", "req_id", rid, "dropped", dropped)
		content = cleaned
	}

	ext := extract.DecodeQuoteJSON(content, c.log)
	ext.ExtractionMethod = "openai"
	if ext.Confidence == 0 {
		ext.Confidence = 0.9
	}

	c.log.Info("extract.openai.ok",
		"req_id", rid,
		"customer_found", ext.CustomerName != nil,
		"items", len(ext.Items),
		"outstanding", ext.OutstandingFields,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ext, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

const systemPrompt = "You are a quotation assistant for a steel trading business. " +
	"Extract structured quotation data from the user's message and return ONLY JSON matching the provided schema. " +
	"ISMC = Indian Standard Medium Channel, ISMB = Indian Standard Medium Beam; rates are quoted per kg. " +
	"Convert all quantities to kg (1 MT = 1 tonne = 1000 kg) and record the original unit in 'original_unit'. " +
	"For steel plates with dimensions, weight (kg) = thickness(mm) x width(mm) x length(mm) x 7.85 x pieces / 1,000,000. " +
	"Compute amount = quantity_kg x rate_per_kg, subtotal = sum of item amounts, tax_amount = subtotal x 0.18, grand_total = subtotal + tax_amount. " +
	"List any missing REQUIRED fields in 'outstanding_fields'; never list customer address, tax id or email there, they are optional. " +
	"Only include 'terms' keys the user explicitly mentioned (loading, transport, payment). " +
	"Never output null: omit fields that are not present."

func buildUserPrompt(req extract.ExtractRequest) string {
	var b strings.Builder
	if ctx := strings.TrimSpace(req.ConversationCtx); ctx != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}
	b.WriteString("User message:\n")
	b.WriteString(req.Input)
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
