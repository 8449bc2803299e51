package llm

// JSON-Schema builders (draft 2020-12 subset) for the three JSON-mode
// pipeline stages. The schemas are sent to the completion service as part of
// the prompt and used locally to validate the payload before coercion.
//
// The stage schemas validate envelope shape only. Enum membership for risk
// type/severity and clause importance is deliberately left out: a single
// out-of-enum entry must invalidate that entry, not the whole response.

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func stringListProp() map[string]any {
	return map[string]any{"type": "array", "items": stringProp()}
}

// BuildStructuredDataSchema describes the structured-extraction payload.
// Every field is optional; the model is told to omit what it cannot find,
// so nothing here is required.
func BuildStructuredDataSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"party1":      stringProp(),
			"party2":      stringProp(),
			"duration":    stringProp(),
			"obligations": stringListProp(),
			"dates": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"effectiveDate":  stringProp(),
					"expirationDate": stringProp(),
					"signedDate":     stringProp(),
					"renewalDate":    stringProp(),
					"noticePeriod":   stringProp(),
				},
			},
			"financialDetails": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"totalValue":      stringProp(),
					"currency":        stringProp(),
					"paymentTerms":    stringProp(),
					"paymentSchedule": stringProp(),
					"penalties":       stringProp(),
					"lateFees":        stringProp(),
				},
			},
			"legalInfo": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"governingLaw":      stringProp(),
					"jurisdiction":      stringProp(),
					"disputeResolution": stringProp(),
					"liabilityCap":      stringProp(),
				},
			},
			"contractMetadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contractType": stringProp(),
					"industry":     stringProp(),
					"language":     stringProp(),
				},
			},
			"structuredTerms": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"term":                  stringProp(),
					"renewalTerms":          stringProp(),
					"terminationConditions": stringProp(),
					"exclusivity":           stringProp(),
					"confidentiality":       stringProp(),
				},
			},
			"performanceMetrics": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"serviceLevel": stringProp(),
					"kpis":         stringProp(),
					"reviewCycle":  stringProp(),
					"remedies":     stringProp(),
				},
			},
		},
	}
}

// BuildRiskFindingsSchema describes the risk-detection envelope: a single
// "risks" array of finding objects without ids (ids are assigned locally).
func BuildRiskFindingsSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"risks"},
		"properties": map[string]any{
			"risks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"type", "severity", "title", "description"},
					"properties": map[string]any{
						"type":        stringProp(),
						"severity":    stringProp(),
						"title":       map[string]any{"type": "string", "minLength": 1},
						"description": map[string]any{"type": "string", "minLength": 1},
						"clauseText":  stringProp(),
						"suggestion":  stringProp(),
					},
				},
			},
		},
	}
}

// BuildClauseExplanationsSchema describes the clause-explainer envelope.
func BuildClauseExplanationsSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"clauses"},
		"properties": map[string]any{
			"clauses": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"clauseTitle", "explanation"},
					"properties": map[string]any{
						"clauseTitle": map[string]any{"type": "string", "minLength": 1},
						"clauseText":  stringProp(),
						"explanation": map[string]any{"type": "string", "minLength": 1},
						"importance":  stringProp(),
					},
				},
			},
		},
	}
}
