package analysis

import (
	"strings"

	"github.com/pactlens/pactlens/internal/llm"
	"github.com/pactlens/pactlens/internal/tier"
)

// Stage temperatures. Structured stages bias toward determinism; explanatory
// prose gets a little variety.
const (
	tempStructured float32 = 0.2
	tempSummary    float32 = 0.4
	tempRisks      float32 = 0.3
	tempClauses    float32 = 0.4
)

func buildStructuredSystemPrompt() string {
	parts := []string{
		"You are a contract analysis engine. Return ONLY one JSON object that matches the provided JSON Schema. No markdown, no code fences, no commentary.",
		"Extract the two principal parties as 'party1' and 'party2'.",
		"Extract the contract duration, the list of obligations, and every date, financial, legal, metadata, term, and performance field you can find.",
		"Use ISO-8601 dates (YYYY-MM-DD) where the document gives a full date.",
		"Omit any field that is not present in the document. Never fabricate values and never output null.",
		"JSON Schema:\n" + llm.SchemaText(llm.BuildStructuredDataSchema()),
	}
	return strings.Join(parts, "\n")
}

func buildSummarySystemPrompt(depth tier.Depth) string {
	parts := []string{
		"You are a contract analyst writing a plain-language summary for a business reader.",
	}
	switch depth {
	case tier.DepthDeep:
		parts = append(parts,
			"Write 4-5 paragraphs.",
			"Cover the parties, the purpose of the agreement, the key obligations of each side, payment and term provisions, and notable clauses.",
			"Explicitly call out unusual, one-sided, or non-standard terms a reviewer should look at first.",
		)
	case tier.DepthStandard:
		parts = append(parts,
			"Write 3-4 paragraphs.",
			"Cover the parties, the purpose of the agreement, the main obligations, and the most important clauses.",
		)
	default:
		parts = append(parts,
			"Write 2-3 short paragraphs.",
			"Stick to the facts: who the parties are, what the agreement is for, and its basic terms.",
		)
	}
	parts = append(parts, "Respond with the summary text only, no headings or bullet lists.")
	return strings.Join(parts, " ")
}

func buildRisksSystemPrompt(depth tier.Depth) string {
	parts := []string{
		"You are a contract risk reviewer. Return ONLY one JSON object that matches the provided JSON Schema. No markdown, no code fences, no commentary.",
		"Scan the contract for risky provisions and report each as an entry in the 'risks' array, in the order the provisions appear in the document.",
		"Each entry's 'type' must be exactly one of: non-compete, auto-renewal, termination, liability, payment, other.",
		"Each entry's 'severity' must be exactly one of: high, medium, low.",
		"Quote the relevant contract language in 'clauseText'.",
	}
	if depth == tier.DepthDeep {
		parts = append(parts,
			"Also inspect intellectual-property assignments, privacy and data-handling obligations, force-majeure carve-outs, and hidden or escalating fees; report them under 'other' with the specifics in the description.",
			"Justify each severity rating inside the description.",
			"Every entry must include an actionable 'suggestion' for negotiating or mitigating the risk.",
		)
	} else {
		parts = append(parts, "Keep descriptions short and factual.")
	}
	parts = append(parts, "If the contract contains no notable risks, return {\"risks\": []}.")
	parts = append(parts, "JSON Schema:\n"+llm.SchemaText(llm.BuildRiskFindingsSchema()))
	return strings.Join(parts, "\n")
}

func buildClausesSystemPrompt(depth tier.Depth) string {
	parts := []string{
		"You are a contract clause explainer. Return ONLY one JSON object that matches the provided JSON Schema. No markdown, no code fences, no commentary.",
		"Explain the contract's clauses as entries in the 'clauses' array, in document order.",
		"Each entry's 'importance' must be exactly one of: critical, important, standard.",
	}
	if depth == tier.DepthDeep {
		parts = append(parts,
			"Produce a comprehensive clause inventory covering, where present: parties and recitals, scope of work, payment, term and renewal, termination, confidentiality, intellectual property, warranties, indemnification, limitation of liability, dispute resolution, and general provisions.",
			"Quote the clause language in 'clauseText' and explain the practical effect and what a counterparty would typically negotiate.",
		)
	} else {
		parts = append(parts, "Give a short plain-language explanation per clause; include 'clauseText' when a short quote helps.")
	}
	parts = append(parts, "If no clauses can be identified, return {\"clauses\": []}.")
	parts = append(parts, "JSON Schema:\n"+llm.SchemaText(llm.BuildClauseExplanationsSchema()))
	return strings.Join(parts, "\n")
}

func buildUserPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Contract text:\n\n")
	b.WriteString(text)
	return b.String()
}
