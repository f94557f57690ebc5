package extract

// BuildQuoteJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is passed to the extraction service as a structured-output
// constraint and reused locally to validate what actually came back.
func BuildQuoteJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"quantity":    moneyProp(),
			"unit":        map[string]any{"type": "string"},
			"rate":        moneyProp(),
			"amount":      moneyProp(),
		},
		"required": []string{"description"},
	}

	terms := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"loading":   map[string]any{"type": "string"},
			"transport": map[string]any{"type": "string"},
			"payment":   map[string]any{"type": "string"},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"customer_name":        map[string]any{"type": "string", "minLength": 1},
			"customer_address":     map[string]any{"type": "string"},
			"customer_tax_id":      map[string]any{"type": "string"},
			"customer_email":       map[string]any{"type": "string"},
			"material_description": map[string]any{"type": "string"},
			"quantity":             moneyProp(),
			"original_unit":        map[string]any{"type": "string"},
			"rate":                 moneyProp(),
			"amount":               moneyProp(),
			"subtotal":             moneyProp(),
			"tax_amount":           moneyProp(),
			"grand_total":          moneyProp(),
			"items":                map[string]any{"type": "array", "items": item},
			"outstanding_fields":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"terms":                terms,
			"confidence":           map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"extraction_method":    map[string]any{"type": "string"},
		},
	}
}

func moneyProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0}
}
