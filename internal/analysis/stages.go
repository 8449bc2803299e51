package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pactlens/pactlens/internal/llm"
	"github.com/pactlens/pactlens/internal/tier"
)

// Stage names, used for failure accounting and log events.
const (
	stageStructured = "structured"
	stageSummary    = "summary"
	stageRisks      = "risks"
	stageClauses    = "clauses"
)

// runStructured performs the structured-data extraction stage. On any
// failure it returns an empty map: a broken extraction must not block the
// sibling stages or the request.
func (p *Pipeline) runStructured(ctx context.Context, text string) (map[string]any, error) {
	start := time.Now()

	res, err := p.completer.Complete(ctx, llm.CompletionRequest{
		System:      buildStructuredSystemPrompt(),
		User:        buildUserPrompt(text),
		Temperature: tempStructured,
		JSONMode:    true,
	})
	if err != nil {
		return map[string]any{}, fmt.Errorf("structured completion: %w", err)
	}

	if err := llm.ValidateJSONAgainstSchema(llm.BuildStructuredDataSchema(), res.JSON); err != nil {
		return map[string]any{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	var out map[string]any
	if err := json.Unmarshal(res.JSON, &out); err != nil {
		return map[string]any{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	p.logger.Debug("analysis.structured.ok",
		"fields", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// runSummary performs the free-text summary stage. Failure degrades the
// summary to an empty string, never to an error for the caller.
func (p *Pipeline) runSummary(ctx context.Context, text string, depth tier.Depth) (string, error) {
	start := time.Now()

	res, err := p.completer.Complete(ctx, llm.CompletionRequest{
		System:      buildSummarySystemPrompt(depth),
		User:        buildUserPrompt(text),
		Temperature: tempSummary,
		JSONMode:    false,
	})
	if err != nil {
		return "", fmt.Errorf("summary completion: %w", err)
	}

	p.logger.Debug("analysis.summary.ok",
		"depth", string(depth),
		"summary_len", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res.Text, nil
}

type riskPayload struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ClauseText  string `json:"clauseText"`
	Suggestion  string `json:"suggestion"`
}

// runRisks performs the risk-detection stage. The whole response failing
// schema validation empties the stage; a single entry with an out-of-enum
// type or severity drops only that entry. IDs are assigned here, in response
// order, after filtering.
func (p *Pipeline) runRisks(ctx context.Context, text string, depth tier.Depth) ([]RiskFinding, error) {
	start := time.Now()

	res, err := p.completer.Complete(ctx, llm.CompletionRequest{
		System:      buildRisksSystemPrompt(depth),
		User:        buildUserPrompt(text),
		Temperature: tempRisks,
		JSONMode:    true,
	})
	if err != nil {
		return []RiskFinding{}, fmt.Errorf("risks completion: %w", err)
	}

	if err := llm.ValidateJSONAgainstSchema(llm.BuildRiskFindingsSchema(), res.JSON); err != nil {
		return []RiskFinding{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	var envelope struct {
		Risks []riskPayload `json:"risks"`
	}
	if err := json.Unmarshal(res.JSON, &envelope); err != nil {
		return []RiskFinding{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	findings := make([]RiskFinding, 0, len(envelope.Risks))
	dropped := 0
	for _, r := range envelope.Risks {
		rt, sev := RiskType(r.Type), RiskSeverity(r.Severity)
		if !ValidRiskType(rt) || !ValidRiskSeverity(sev) {
			dropped++
			p.logger.Warn("analysis.risks.entry_dropped",
				"type", r.Type,
				"severity", r.Severity,
				"title", r.Title,
			)
			continue
		}
		findings = append(findings, RiskFinding{
			ID:          fmt.Sprintf("risk-%d", len(findings)+1),
			Type:        rt,
			Severity:    sev,
			Title:       r.Title,
			Description: r.Description,
			ClauseText:  r.ClauseText,
			Suggestion:  r.Suggestion,
		})
	}

	p.logger.Debug("analysis.risks.ok",
		"depth", string(depth),
		"findings", len(findings),
		"dropped", dropped,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return findings, nil
}

type clausePayload struct {
	ClauseTitle string `json:"clauseTitle"`
	ClauseText  string `json:"clauseText"`
	Explanation string `json:"explanation"`
	Importance  string `json:"importance"`
}

// runClauses performs the clause-explanation stage. Failure policy matches
// runRisks; an out-of-enum importance downgrades the entry to "standard"
// rather than dropping it, since the explanation itself is still usable.
func (p *Pipeline) runClauses(ctx context.Context, text string, depth tier.Depth) ([]ClauseExplanation, error) {
	start := time.Now()

	res, err := p.completer.Complete(ctx, llm.CompletionRequest{
		System:      buildClausesSystemPrompt(depth),
		User:        buildUserPrompt(text),
		Temperature: tempClauses,
		JSONMode:    true,
	})
	if err != nil {
		return []ClauseExplanation{}, fmt.Errorf("clauses completion: %w", err)
	}

	if err := llm.ValidateJSONAgainstSchema(llm.BuildClauseExplanationsSchema(), res.JSON); err != nil {
		return []ClauseExplanation{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	var envelope struct {
		Clauses []clausePayload `json:"clauses"`
	}
	if err := json.Unmarshal(res.JSON, &envelope); err != nil {
		return []ClauseExplanation{}, llm.NewMalformedResponseError(err, string(res.JSON))
	}

	clauses := make([]ClauseExplanation, 0, len(envelope.Clauses))
	for _, c := range envelope.Clauses {
		imp := ClauseImportance(c.Importance)
		if !ValidClauseImportance(imp) {
			imp = ImportanceStandard
		}
		clauses = append(clauses, ClauseExplanation{
			ClauseTitle: c.ClauseTitle,
			ClauseText:  c.ClauseText,
			Explanation: c.Explanation,
			Importance:  imp,
		})
	}

	p.logger.Debug("analysis.clauses.ok",
		"depth", string(depth),
		"clauses", len(clauses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return clauses, nil
}
