package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pactlens/pactlens/internal/analysis"
)

// Service renders assembled analyses into downloadable report formats. It
// consumes the ContractAnalysis value only; by contract that value never
// carries nulls where empty collections are expected.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// JSON renders the canonical analysis document.
func (s *Service) JSON(a analysis.ContractAnalysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// CSV renders the risk register: one row per risk finding.
func (s *Service) CSV(a analysis.ContractAnalysis) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Type", "Severity", "Title", "Description", "Clause Text", "Suggestion"}); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	for _, r := range a.RiskFlags {
		row := []string{r.ID, string(r.Type), string(r.Severity), r.Title, r.Description, r.ClauseText, r.Suggestion}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv write: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders a three-sheet workbook: Summary, Risks, Clauses.
func (s *Service) XLSX(a analysis.ContractAnalysis) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const summarySheet = "Summary"
	const riskSheet = "Risks"
	const clauseSheet = "Clauses"

	// excelize creates "Sheet1" by default; rename it to the first sheet.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(riskSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(clauseSheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Summary sheet: provenance, parties, summary text, obligations.
	write(summarySheet, 1, 1, "Analyzed At")
	write(summarySheet, 2, 1, a.Metadata.AnalyzedAt.Format(time.RFC3339))
	write(summarySheet, 1, 2, "Model")
	write(summarySheet, 2, 2, a.Metadata.Model)
	write(summarySheet, 1, 3, "Party 1")
	write(summarySheet, 2, 3, a.KeyParties.Party1)
	write(summarySheet, 1, 4, "Party 2")
	write(summarySheet, 2, 4, a.KeyParties.Party2)
	write(summarySheet, 1, 5, "Total Clauses")
	write(summarySheet, 2, 5, a.Metadata.TotalClauses)
	write(summarySheet, 1, 6, "Summary")
	write(summarySheet, 2, 6, a.Summary)

	row := 8
	if len(a.Obligations) > 0 {
		write(summarySheet, 1, row, "Obligations")
		for _, o := range a.Obligations {
			write(summarySheet, 2, row, o)
			row++
		}
	}

	// Risks sheet.
	riskHeaders := []string{"ID", "Type", "Severity", "Title", "Description", "Clause Text", "Suggestion"}
	for i, h := range riskHeaders {
		write(riskSheet, i+1, 1, h)
	}
	for i, r := range a.RiskFlags {
		write(riskSheet, 1, i+2, r.ID)
		write(riskSheet, 2, i+2, string(r.Type))
		write(riskSheet, 3, i+2, string(r.Severity))
		write(riskSheet, 4, i+2, r.Title)
		write(riskSheet, 5, i+2, r.Description)
		write(riskSheet, 6, i+2, r.ClauseText)
		write(riskSheet, 7, i+2, r.Suggestion)
	}

	// Clauses sheet.
	clauseHeaders := []string{"Clause", "Importance", "Explanation", "Clause Text"}
	for i, h := range clauseHeaders {
		write(clauseSheet, i+1, 1, h)
	}
	for i, c := range a.ClauseExplanations {
		write(clauseSheet, 1, i+2, c.ClauseTitle)
		write(clauseSheet, 2, i+2, string(c.Importance))
		write(clauseSheet, 3, i+2, c.Explanation)
		write(clauseSheet, 4, i+2, c.ClauseText)
	}

	// Widen the prose columns.
	_ = f.SetColWidth(summarySheet, "A", "A", 16)
	_ = f.SetColWidth(summarySheet, "B", "B", 90)
	_ = f.SetColWidth(riskSheet, "D", "E", 48)
	_ = f.SetColWidth(riskSheet, "F", "G", 60)
	_ = f.SetColWidth(clauseSheet, "A", "A", 28)
	_ = f.SetColWidth(clauseSheet, "C", "D", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"risks", len(a.RiskFlags),
		"clauses", len(a.ClauseExplanations),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
