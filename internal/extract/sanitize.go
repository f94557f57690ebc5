package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

// Top-level keys we keep after sanitation. Everything else is noise from the
// extraction model and gets dropped.
var allowedKeys = map[string]struct{}{
	"customer_name": {}, "customer_address": {}, "customer_tax_id": {}, "customer_email": {},
	"material_description": {},
	"quantity":             {}, "original_unit": {}, "rate": {}, "amount": {},
	"subtotal": {}, "tax_amount": {}, "grand_total": {},
	"items": {}, "outstanding_fields": {}, "terms": {},
	"confidence": {}, "extraction_method": {},
}

var numericKeys = []string{"quantity", "rate", "amount", "subtotal", "tax_amount", "grand_total"}

// SanitizeQuoteJSON normalizes a raw extraction-service response:
//   - renames known synonyms (quantity_kg -> quantity, gst -> tax_amount, ...)
//   - coerces money-ish values to numbers, treating unparseable ones as absent
//   - drops null/empty fields and unknown keys
//
// It never invents a value: a field that cannot be salvaged is simply removed
// so the downstream merge treats it as unknown.
func SanitizeQuoteJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) top-level synonyms
	rename("quantity_kg", "quantity")
	rename("rate_per_kg", "rate")
	rename("gst_amount", "tax_amount")
	rename("gst", "tax_amount")
	rename("tax", "tax_amount")
	rename("total", "grand_total")
	rename("customer_gstin", "customer_tax_id")
	rename("gstin", "customer_tax_id")
	rename("address", "customer_address")
	rename("email", "customer_email")
	rename("material", "material_description")
	rename("missing_fields", "outstanding_fields")

	// 2) coerce numerics; unparseable -> absent
	for _, k := range numericKeys {
		coerceNumber(m, k, &dropped)
	}
	if v, ok := m["confidence"]; ok {
		if f, ok2 := toFloat(v); ok2 && f >= 0 && f <= 1 {
			m["confidence"] = f
		} else {
			delete(m, "confidence")
			dropped = append(dropped, "confidence")
		}
	}

	// 3) items: keep only object entries, normalize their keys and numerics
	if v, ok := m["items"]; ok {
		items, itemDropped := sanitizeItems(v)
		if len(items) > 0 {
			m["items"] = items
		} else {
			delete(m, "items")
			dropped = append(dropped, "items(empty)")
		}
		dropped = append(dropped, itemDropped...)
	}

	// 4) outstanding_fields: strings only
	if v, ok := m["outstanding_fields"]; ok {
		fields := stringSlice(v)
		if len(fields) > 0 {
			m["outstanding_fields"] = fields
		} else {
			delete(m, "outstanding_fields")
		}
	}

	// 5) terms: accept loading_charges/transport_charges/payment_terms spellings
	if v, ok := m["terms"]; ok {
		if terms := sanitizeTerms(v); len(terms) > 0 {
			m["terms"] = terms
		} else {
			delete(m, "terms")
			dropped = append(dropped, "terms(empty)")
		}
	}

	// 6) trim plain strings, drop empties
	for _, k := range []string{"customer_name", "customer_address", "customer_tax_id",
		"customer_email", "material_description", "original_unit", "extraction_method"} {
		if v, ok := m[k]; ok {
			s, isStr := v.(string)
			s = strings.TrimSpace(s)
			if !isStr || s == "" || strings.EqualFold(s, "null") {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	// 7) drop unknown keys
	for k := range maps.Clone(m) {
		if _, ok := allowedKeys[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Debug("extract.sanitize.adjusted", "dropped", dropped)
	}
	return out, dropped, nil
}

func sanitizeItems(v any) ([]map[string]any, []string) {
	list, ok := v.([]any)
	if !ok {
		return nil, []string{"items(type)"}
	}
	var dropped []string
	out := make([]map[string]any, 0, len(list))
	for i, e := range list {
		item, ok := e.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("items[%d](type)", i))
			continue
		}
		renameKey(item, "quantity_kg", "quantity")
		renameKey(item, "rate_per_kg", "rate")
		renameKey(item, "original_unit", "unit")
		for _, k := range []string{"quantity", "rate", "amount"} {
			coerceNumber(item, k, &dropped)
		}
		if d, ok := item["description"].(string); ok {
			item["description"] = strings.TrimSpace(d)
		} else {
			delete(item, "description")
		}
		if u, ok := item["unit"].(string); ok {
			item["unit"] = strings.TrimSpace(u)
		} else {
			delete(item, "unit")
		}
		clean := map[string]any{}
		for _, k := range []string{"description", "quantity", "unit", "rate", "amount"} {
			if vv, ok := item[k]; ok {
				clean[k] = vv
			}
		}
		out = append(out, clean)
	}
	return out, dropped
}

func sanitizeTerms(v any) map[string]any {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	renameKey(raw, "loading_charges", "loading")
	renameKey(raw, "transport_charges", "transport")
	renameKey(raw, "payment_terms", "payment")
	out := map[string]any{}
	for _, k := range []string{"loading", "transport", "payment"} {
		if s, ok := raw[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out[k] = s
			}
		}
	}
	return out
}

func renameKey(m map[string]any, from, to string) {
	if v, ok := m[from]; ok {
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
	}
}

func coerceNumber(m map[string]any, k string, dropped *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	if f, ok := toFloat(v); ok {
		m[k] = f
		return
	}
	delete(m, k)
	*dropped = append(*dropped, k+"(invalid)")
}

// toFloat accepts the numeric spellings extraction models actually emit,
// including "₹56,000" style strings.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "null") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func stringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
