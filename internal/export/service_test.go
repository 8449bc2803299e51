package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pactlens/pactlens/internal/analysis"
)

func sampleAnalysis() analysis.ContractAnalysis {
	return analysis.ContractAnalysis{
		Summary:     "A services agreement between Acme Corp and Globex Inc.",
		KeyParties:  analysis.KeyParties{Party1: "Acme Corp", Party2: "Globex Inc"},
		Obligations: []string{"Deliver monthly reports"},
		RiskFlags: []analysis.RiskFinding{
			{
				ID:          "risk-1",
				Type:        analysis.RiskLiability,
				Severity:    analysis.SeverityHigh,
				Title:       "Uncapped liability",
				Description: "No liability cap is present.",
				ClauseText:  "Liability shall be unlimited.",
				Suggestion:  "Negotiate a cap at 12 months of fees.",
			},
			{
				ID:          "risk-2",
				Type:        analysis.RiskAutoRenewal,
				Severity:    analysis.SeverityMedium,
				Title:       "Evergreen renewal",
				Description: "Renews automatically each year.",
				ClauseText:  "This Agreement renews...",
			},
		},
		ClauseExplanations: []analysis.ClauseExplanation{
			{ClauseTitle: "Confidentiality", Explanation: "Both parties keep information secret.", Importance: analysis.ImportanceCritical},
		},
		Metadata: analysis.Metadata{
			TotalClauses: 1,
			AnalyzedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Model:        "stub-model",
		},
	}
}

func TestCSVRendersRiskRegister(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.CSV(sampleAnalysis())
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 { // header + 2 findings
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][0] != "risk-1" || rows[2][0] != "risk-2" {
		t.Errorf("unexpected rows: %v", rows)
	}
	if rows[1][2] != "high" {
		t.Errorf("severity cell = %q, want high", rows[1][2])
	}
}

func TestJSONNeverEmitsNullCollections(t *testing.T) {
	svc := NewService(nil)
	a := sampleAnalysis()
	a.Obligations = []string{}
	a.RiskFlags = []analysis.RiskFinding{}
	a.ClauseExplanations = []analysis.ClauseExplanation{}
	a.Metadata.TotalClauses = 0

	out, err := svc.JSON(a)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"obligations", "riskFlags", "clauseExplanations"} {
		v, ok := doc[key]
		if !ok {
			t.Errorf("%s missing from document", key)
			continue
		}
		if _, isList := v.([]any); !isList {
			t.Errorf("%s = %v, want a JSON array", key, v)
		}
	}
	if _, present := doc["dates"]; present {
		t.Error("absent optional block must be omitted, not null")
	}
}

func TestXLSXWorkbookLayout(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.XLSX(sampleAnalysis())
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("sheets = %v, want Summary, Risks, Clauses", sheets)
	}

	party, err := f.GetCellValue("Summary", "B3")
	if err != nil || party != "Acme Corp" {
		t.Errorf("Summary!B3 = %q (err %v), want Acme Corp", party, err)
	}
	riskID, err := f.GetCellValue("Risks", "A2")
	if err != nil || riskID != "risk-1" {
		t.Errorf("Risks!A2 = %q (err %v), want risk-1", riskID, err)
	}
	clause, err := f.GetCellValue("Clauses", "A2")
	if err != nil || clause != "Confidentiality" {
		t.Errorf("Clauses!A2 = %q (err %v), want Confidentiality", clause, err)
	}
}
