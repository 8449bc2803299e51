package analysis

import (
	"testing"
	"time"
)

func TestAssembleDefaults(t *testing.T) {
	now := time.Now().UTC()
	a := assemble(stageOutputs{}, "stub-model", now)

	if a.KeyParties.Party1 != unknownParty || a.KeyParties.Party2 != unknownParty {
		t.Errorf("keyParties = %+v, want Unknown/Unknown", a.KeyParties)
	}
	if a.Obligations == nil || len(a.Obligations) != 0 {
		t.Errorf("obligations = %v, want empty list", a.Obligations)
	}
	if a.RiskFlags == nil || a.ClauseExplanations == nil {
		t.Error("risk/clause lists must default to empty, not nil")
	}
	if a.Metadata.AnalyzedAt != now {
		t.Errorf("analyzedAt = %v, want %v", a.Metadata.AnalyzedAt, now)
	}
	if a.Metadata.Model != "stub-model" {
		t.Errorf("model = %q", a.Metadata.Model)
	}
}

func TestAssembleOmitsAllAbsentBlocks(t *testing.T) {
	a := assemble(stageOutputs{
		structured: map[string]any{
			"dates":            map[string]any{},                          // present but empty
			"financialDetails": map[string]any{"totalValue": "  "},        // whitespace only
			"legalInfo":        map[string]any{"governingLaw": 12345},     // mistyped leaf
			"contractMetadata": map[string]any{"contractType": "Service"}, // one real leaf
		},
	}, "m", time.Now())

	if a.Dates != nil {
		t.Errorf("dates = %+v, want omitted", a.Dates)
	}
	if a.FinancialDetails != nil {
		t.Errorf("financialDetails = %+v, want omitted", a.FinancialDetails)
	}
	if a.LegalInfo != nil {
		t.Errorf("legalInfo = %+v, want omitted", a.LegalInfo)
	}
	if a.ContractMetadata == nil || a.ContractMetadata.ContractType != "Service" {
		t.Errorf("contractMetadata = %+v, want ContractType Service", a.ContractMetadata)
	}
}

func TestAssembleCoercesUntrustedFields(t *testing.T) {
	a := assemble(stageOutputs{
		structured: map[string]any{
			"party1":      "  Acme Corp  ",
			"party2":      77, // mistyped, defaults
			"obligations": []any{"Pay invoices", 99, "", "Deliver reports"},
		},
	}, "m", time.Now())

	if a.KeyParties.Party1 != "Acme Corp" {
		t.Errorf("party1 = %q, want trimmed Acme Corp", a.KeyParties.Party1)
	}
	if a.KeyParties.Party2 != unknownParty {
		t.Errorf("party2 = %q, want %q for mistyped value", a.KeyParties.Party2, unknownParty)
	}
	want := []string{"Pay invoices", "Deliver reports"}
	if len(a.Obligations) != len(want) || a.Obligations[0] != want[0] || a.Obligations[1] != want[1] {
		t.Errorf("obligations = %v, want %v", a.Obligations, want)
	}
}

func TestAssembleFoldsDurationIntoStructuredTerms(t *testing.T) {
	a := assemble(stageOutputs{
		structured: map[string]any{"duration": "24 months"},
	}, "m", time.Now())

	if a.StructuredTerms == nil || a.StructuredTerms.Term != "24 months" {
		t.Errorf("structuredTerms = %+v, want Term 24 months", a.StructuredTerms)
	}

	// An explicit term wins over the top-level duration.
	a = assemble(stageOutputs{
		structured: map[string]any{
			"duration":        "24 months",
			"structuredTerms": map[string]any{"term": "36 months"},
		},
	}, "m", time.Now())
	if a.StructuredTerms.Term != "36 months" {
		t.Errorf("term = %q, want 36 months", a.StructuredTerms.Term)
	}
}

func TestAssembleComputesTotalClauses(t *testing.T) {
	clauses := []ClauseExplanation{
		{ClauseTitle: "A", Explanation: "a", Importance: ImportanceStandard},
		{ClauseTitle: "B", Explanation: "b", Importance: ImportanceCritical},
		{ClauseTitle: "C", Explanation: "c", Importance: ImportanceImportant},
	}
	a := assemble(stageOutputs{clauses: clauses}, "m", time.Now())
	if a.Metadata.TotalClauses != 3 {
		t.Errorf("totalClauses = %d, want 3", a.Metadata.TotalClauses)
	}
}

func TestAssembleRecordsStageFailures(t *testing.T) {
	a := assemble(stageOutputs{failures: []string{stageSummary, stageRisks}}, "m", time.Now())
	if len(a.Metadata.StageFailures) != 2 {
		t.Fatalf("stageFailures = %v", a.Metadata.StageFailures)
	}
	if a.Metadata.StageFailures[0] != stageSummary || a.Metadata.StageFailures[1] != stageRisks {
		t.Errorf("stageFailures = %v, want [summary risks]", a.Metadata.StageFailures)
	}
}
