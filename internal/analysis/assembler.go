package analysis

import (
	"strings"
	"time"
)

// stageOutputs carries the four stage results into assembly. Each value is
// already failure-isolated: absent contributions arrive as their defaults.
type stageOutputs struct {
	structured map[string]any
	summary    string
	risks      []RiskFinding
	clauses    []ClauseExplanation
	failures   []string
}

const unknownParty = "Unknown"

// assemble deterministically merges the stage outputs into the immutable
// analysis record. Every field from the completion service is treated as
// untrusted and coerced explicitly; nothing is trust-cast. assemble has no
// failure mode of its own.
func assemble(out stageOutputs, model string, analyzedAt time.Time) ContractAnalysis {
	s := out.structured

	parties := KeyParties{
		Party1: stringField(s, "party1", unknownParty),
		Party2: stringField(s, "party2", unknownParty),
	}

	obligations := stringListField(s, "obligations")

	risks := out.risks
	if risks == nil {
		risks = []RiskFinding{}
	}
	clauses := out.clauses
	if clauses == nil {
		clauses = []ClauseExplanation{}
	}

	a := ContractAnalysis{
		Summary:            out.summary,
		KeyParties:         parties,
		Obligations:        obligations,
		RiskFlags:          risks,
		ClauseExplanations: clauses,
		Dates:              coerceDates(mapField(s, "dates")),
		FinancialDetails:   coerceFinancial(mapField(s, "financialDetails")),
		LegalInfo:          coerceLegal(mapField(s, "legalInfo")),
		ContractMetadata:   coerceContractMetadata(mapField(s, "contractMetadata")),
		StructuredTerms:    coerceStructuredTerms(s),
		PerformanceMetrics: coercePerformance(mapField(s, "performanceMetrics")),
		Metadata: Metadata{
			TotalClauses:  len(clauses),
			AnalyzedAt:    analyzedAt,
			Model:         model,
			StageFailures: out.failures,
		},
	}
	return a
}

// stringField coerces m[key] to a trimmed string, falling back to def.
func stringField(m map[string]any, key, def string) string {
	if m == nil {
		return def
	}
	if v, ok := m[key].(string); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return def
}

// optString is stringField with an empty-string default.
func optString(m map[string]any, key string) string {
	return stringField(m, key, "")
}

// stringListField coerces m[key] to a list of non-empty strings. Non-string
// elements are skipped. The result is never nil.
func stringListField(m map[string]any, key string) []string {
	out := []string{}
	if m == nil {
		return out
	}
	raw, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, e := range raw {
		if v, ok := e.(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// mapField coerces m[key] to a nested object, or nil when absent/mistyped.
func mapField(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Each coerce* builder returns nil unless at least one leaf is present; an
// all-absent block must not surface as an empty object.

func coerceDates(m map[string]any) *ContractDates {
	if m == nil {
		return nil
	}
	d := ContractDates{
		EffectiveDate:  optString(m, "effectiveDate"),
		ExpirationDate: optString(m, "expirationDate"),
		SignedDate:     optString(m, "signedDate"),
		RenewalDate:    optString(m, "renewalDate"),
		NoticePeriod:   optString(m, "noticePeriod"),
	}
	if d == (ContractDates{}) {
		return nil
	}
	return &d
}

func coerceFinancial(m map[string]any) *FinancialDetails {
	if m == nil {
		return nil
	}
	f := FinancialDetails{
		TotalValue:      optString(m, "totalValue"),
		Currency:        optString(m, "currency"),
		PaymentTerms:    optString(m, "paymentTerms"),
		PaymentSchedule: optString(m, "paymentSchedule"),
		Penalties:       optString(m, "penalties"),
		LateFees:        optString(m, "lateFees"),
	}
	if f == (FinancialDetails{}) {
		return nil
	}
	return &f
}

func coerceLegal(m map[string]any) *LegalInfo {
	if m == nil {
		return nil
	}
	l := LegalInfo{
		GoverningLaw:      optString(m, "governingLaw"),
		Jurisdiction:      optString(m, "jurisdiction"),
		DisputeResolution: optString(m, "disputeResolution"),
		LiabilityCap:      optString(m, "liabilityCap"),
	}
	if l == (LegalInfo{}) {
		return nil
	}
	return &l
}

func coerceContractMetadata(m map[string]any) *ContractMetadata {
	if m == nil {
		return nil
	}
	c := ContractMetadata{
		ContractType: optString(m, "contractType"),
		Industry:     optString(m, "industry"),
		Language:     optString(m, "language"),
	}
	if c == (ContractMetadata{}) {
		return nil
	}
	return &c
}

// coerceStructuredTerms folds the top-level "duration" field into the terms
// block so a duration-only extraction still yields a term value.
func coerceStructuredTerms(s map[string]any) *StructuredTerms {
	m := mapField(s, "structuredTerms")
	t := StructuredTerms{}
	if m != nil {
		t = StructuredTerms{
			Term:                  optString(m, "term"),
			RenewalTerms:          optString(m, "renewalTerms"),
			TerminationConditions: optString(m, "terminationConditions"),
			Exclusivity:           optString(m, "exclusivity"),
			Confidentiality:       optString(m, "confidentiality"),
		}
	}
	if t.Term == "" {
		t.Term = optString(s, "duration")
	}
	if t == (StructuredTerms{}) {
		return nil
	}
	return &t
}

func coercePerformance(m map[string]any) *PerformanceMetrics {
	if m == nil {
		return nil
	}
	p := PerformanceMetrics{
		ServiceLevel: optString(m, "serviceLevel"),
		KPIs:         optString(m, "kpis"),
		ReviewCycle:  optString(m, "reviewCycle"),
		Remedies:     optString(m, "remedies"),
	}
	if p == (PerformanceMetrics{}) {
		return nil
	}
	return &p
}
