package llm

import "testing"

func TestRiskFindingsSchemaAcceptsWellFormedEnvelope(t *testing.T) {
	payload := []byte(`{"risks": [
		{"type": "liability", "severity": "high", "title": "Uncapped liability", "description": "No cap.", "clauseText": "...", "suggestion": "Add a cap."}
	]}`)
	if err := ValidateJSONAgainstSchema(BuildRiskFindingsSchema(), payload); err != nil {
		t.Errorf("valid envelope rejected: %v", err)
	}

	if err := ValidateJSONAgainstSchema(BuildRiskFindingsSchema(), []byte(`{"risks": []}`)); err != nil {
		t.Errorf("empty risks rejected: %v", err)
	}
}

func TestRiskFindingsSchemaRejectsBadEnvelopes(t *testing.T) {
	cases := map[string]string{
		"risks not an array": `{"risks": "none"}`,
		"missing risks key":  `{"findings": []}`,
		"entry missing title": `{"risks": [
			{"type": "other", "severity": "low", "description": "d"}
		]}`,
		"entry title empty": `{"risks": [
			{"type": "other", "severity": "low", "title": "", "description": "d"}
		]}`,
	}
	for name, payload := range cases {
		if err := ValidateJSONAgainstSchema(BuildRiskFindingsSchema(), []byte(payload)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestRiskFindingsSchemaLeavesEnumToStageCode(t *testing.T) {
	// Out-of-enum type/severity must pass the envelope schema: a single bad
	// entry is dropped by the stage, not fatal to the whole response.
	payload := []byte(`{"risks": [
		{"type": "existential", "severity": "catastrophic", "title": "t", "description": "d"}
	]}`)
	if err := ValidateJSONAgainstSchema(BuildRiskFindingsSchema(), payload); err != nil {
		t.Errorf("enum membership should not be schema-enforced: %v", err)
	}
}

func TestClauseExplanationsSchema(t *testing.T) {
	good := []byte(`{"clauses": [
		{"clauseTitle": "Confidentiality", "explanation": "Keep it secret.", "importance": "critical"}
	]}`)
	if err := ValidateJSONAgainstSchema(BuildClauseExplanationsSchema(), good); err != nil {
		t.Errorf("valid envelope rejected: %v", err)
	}

	bad := []byte(`{"clauses": [{"clauseTitle": "X"}]}`)
	if err := ValidateJSONAgainstSchema(BuildClauseExplanationsSchema(), bad); err == nil {
		t.Error("entry without explanation should be rejected")
	}
}

func TestStructuredDataSchemaIsFullyOptional(t *testing.T) {
	if err := ValidateJSONAgainstSchema(BuildStructuredDataSchema(), []byte(`{}`)); err != nil {
		t.Errorf("empty object rejected: %v", err)
	}

	partial := []byte(`{"party1": "Acme Corp", "dates": {"effectiveDate": "2024-01-01"}, "vendorNote": "extra"}`)
	if err := ValidateJSONAgainstSchema(BuildStructuredDataSchema(), partial); err != nil {
		t.Errorf("partial object with unknown extras rejected: %v", err)
	}

	mistyped := []byte(`{"party1": 42}`)
	if err := ValidateJSONAgainstSchema(BuildStructuredDataSchema(), mistyped); err == nil {
		t.Error("mistyped party1 should be rejected")
	}
}

func TestValidateRejectsUnparsableData(t *testing.T) {
	if err := ValidateJSONAgainstSchema(BuildRiskFindingsSchema(), []byte(`{"risks":`)); err == nil {
		t.Error("truncated JSON should be rejected")
	}
}
