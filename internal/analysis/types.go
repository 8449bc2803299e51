package analysis

import (
	"time"

	"github.com/pactlens/pactlens/internal/tier"
)

// Request is one pipeline invocation: extracted source text plus the tier
// that gates analysis depth. It is never persisted.
type Request struct {
	Text          string
	Tier          tier.Name
	CorrelationID string
}

// RiskType classifies a flagged contractual risk.
type RiskType string

const (
	RiskNonCompete  RiskType = "non-compete"
	RiskAutoRenewal RiskType = "auto-renewal"
	RiskTermination RiskType = "termination"
	RiskLiability   RiskType = "liability"
	RiskPayment     RiskType = "payment"
	RiskOther       RiskType = "other"
)

// RiskSeverity grades a risk finding.
type RiskSeverity string

const (
	SeverityHigh   RiskSeverity = "high"
	SeverityMedium RiskSeverity = "medium"
	SeverityLow    RiskSeverity = "low"
)

// ClauseImportance grades a clause explanation.
type ClauseImportance string

const (
	ImportanceCritical  ClauseImportance = "critical"
	ImportanceImportant ClauseImportance = "important"
	ImportanceStandard  ClauseImportance = "standard"
)

// RiskFinding is one flagged contractual risk. IDs are assigned locally in
// response order ("risk-1", "risk-2", ...), never by the completion service.
type RiskFinding struct {
	ID          string       `json:"id"`
	Type        RiskType     `json:"type"`
	Severity    RiskSeverity `json:"severity"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ClauseText  string       `json:"clauseText"`
	Suggestion  string       `json:"suggestion,omitempty"`
}

// ClauseExplanation is one explained contract clause.
type ClauseExplanation struct {
	ClauseTitle string           `json:"clauseTitle"`
	ClauseText  string           `json:"clauseText,omitempty"`
	Explanation string           `json:"explanation"`
	Importance  ClauseImportance `json:"importance"`
}

// KeyParties names the two principal parties; defaulted to "Unknown" when
// structured extraction produced neither.
type KeyParties struct {
	Party1 string `json:"party1"`
	Party2 string `json:"party2"`
}

// ContractDates holds extracted date fields. Every leaf is optional.
type ContractDates struct {
	EffectiveDate  string `json:"effectiveDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	SignedDate     string `json:"signedDate,omitempty"`
	RenewalDate    string `json:"renewalDate,omitempty"`
	NoticePeriod   string `json:"noticePeriod,omitempty"`
}

// FinancialDetails holds extracted money fields. Every leaf is optional.
type FinancialDetails struct {
	TotalValue      string `json:"totalValue,omitempty"`
	Currency        string `json:"currency,omitempty"`
	PaymentTerms    string `json:"paymentTerms,omitempty"`
	PaymentSchedule string `json:"paymentSchedule,omitempty"`
	Penalties       string `json:"penalties,omitempty"`
	LateFees        string `json:"lateFees,omitempty"`
}

// LegalInfo holds extracted legal fields. Every leaf is optional.
type LegalInfo struct {
	GoverningLaw      string `json:"governingLaw,omitempty"`
	Jurisdiction      string `json:"jurisdiction,omitempty"`
	DisputeResolution string `json:"disputeResolution,omitempty"`
	LiabilityCap      string `json:"liabilityCap,omitempty"`
}

// ContractMetadata holds extracted document-level descriptors.
type ContractMetadata struct {
	ContractType string `json:"contractType,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Language     string `json:"language,omitempty"`
}

// StructuredTerms holds extracted term/renewal fields.
type StructuredTerms struct {
	Term                  string `json:"term,omitempty"`
	RenewalTerms          string `json:"renewalTerms,omitempty"`
	TerminationConditions string `json:"terminationConditions,omitempty"`
	Exclusivity           string `json:"exclusivity,omitempty"`
	Confidentiality       string `json:"confidentiality,omitempty"`
}

// PerformanceMetrics holds extracted SLA/KPI fields.
type PerformanceMetrics struct {
	ServiceLevel string `json:"serviceLevel,omitempty"`
	KPIs         string `json:"kpis,omitempty"`
	ReviewCycle  string `json:"reviewCycle,omitempty"`
	Remedies     string `json:"remedies,omitempty"`
}

// Metadata is the provenance block stamped by the assembler.
// StageFailures names stages whose contribution degraded to a default; it is
// omitted entirely when all four stages succeeded.
type Metadata struct {
	TotalClauses  int       `json:"totalClauses"`
	AnalyzedAt    time.Time `json:"analyzedAt"`
	Model         string    `json:"model"`
	StageFailures []string  `json:"stageFailures,omitempty"`
}

// ContractAnalysis is the assembled, immutable analysis record. Collections
// are always present (possibly empty, never null); optional blocks appear
// only when at least one leaf was extracted.
type ContractAnalysis struct {
	Summary            string              `json:"summary"`
	KeyParties         KeyParties          `json:"keyParties"`
	Obligations        []string            `json:"obligations"`
	RiskFlags          []RiskFinding       `json:"riskFlags"`
	ClauseExplanations []ClauseExplanation `json:"clauseExplanations"`
	Dates              *ContractDates      `json:"dates,omitempty"`
	FinancialDetails   *FinancialDetails   `json:"financialDetails,omitempty"`
	LegalInfo          *LegalInfo          `json:"legalInfo,omitempty"`
	ContractMetadata   *ContractMetadata   `json:"contractMetadata,omitempty"`
	StructuredTerms    *StructuredTerms    `json:"structuredTerms,omitempty"`
	PerformanceMetrics *PerformanceMetrics `json:"performanceMetrics,omitempty"`
	Metadata           Metadata            `json:"metadata"`
}

// ValidRiskType reports enum membership for a service-provided risk type.
func ValidRiskType(t RiskType) bool {
	switch t {
	case RiskNonCompete, RiskAutoRenewal, RiskTermination, RiskLiability, RiskPayment, RiskOther:
		return true
	}
	return false
}

// ValidRiskSeverity reports enum membership for a service-provided severity.
func ValidRiskSeverity(s RiskSeverity) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// ValidClauseImportance reports enum membership for a clause importance.
func ValidClauseImportance(i ClauseImportance) bool {
	switch i {
	case ImportanceCritical, ImportanceImportant, ImportanceStandard:
		return true
	}
	return false
}
