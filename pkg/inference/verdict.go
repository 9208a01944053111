package inference

import (
	"sahayata-hq/ceres/pkg/scheme/ast"
)

// Status is the three-valued eligibility outcome.
type Status string

const (
	// StatusEligible means the applicant satisfied the scheme's criteria.
	StatusEligible Status = "eligible"

	// StatusNotEligible means at least one criterion definitively failed.
	StatusNotEligible Status = "not_eligible"

	// StatusInsufficientData means no definitive failure occurred but
	// facts needed for a decision are missing.
	StatusInsufficientData Status = "insufficient_data"
)

// CriterionResult records the outcome of one clause for explanations
// and the audit trail.
type CriterionResult struct {
	// RuleID is the clause identifier within the scheme.
	RuleID string `json:"rule_id"`

	// Field is the applicant attribute the clause consulted.
	Field string `json:"field"`

	// Operator and Expected restate the clause's condition.
	Operator ast.Operator `json:"operator"`
	Expected interface{}  `json:"expected"`

	// Actual is the applicant's value, nil when the fact was missing.
	Actual interface{} `json:"actual,omitempty"`

	// Weight is the clause's weighted-scoring contribution.
	Weight float64 `json:"weight"`

	// Mandatory and Exclusion carry the clause's classification through
	// to explanations.
	Mandatory bool `json:"mandatory"`
	Exclusion bool `json:"exclusion"`

	// SourceText is the original criterion wording.
	SourceText string `json:"source_text,omitempty"`

	// Passed is true when the clause held. Missing is true when the
	// fact was absent; a missing clause is neither passed nor failed.
	Passed  bool `json:"passed"`
	Missing bool `json:"missing"`
}

// Verdict is the outcome of evaluating one applicant against one
// compiled scheme program.
type Verdict struct {
	// SchemeID and SchemeName identify the evaluated scheme.
	SchemeID   string `json:"scheme_id"`
	SchemeName string `json:"scheme_name"`

	// Status is the three-valued outcome.
	Status Status `json:"status"`

	// Score is the achieved weight fraction in [0, 1]. In strict mode
	// it is informational only and never decides eligibility.
	Score float64 `json:"score"`

	// Threshold is the scheme's weighted-mode threshold, echoed for
	// explanations.
	Threshold float64 `json:"threshold"`

	// MatchedCriteria and FailedCriteria list the clause outcomes in
	// declaration order.
	MatchedCriteria []CriterionResult `json:"matched_criteria"`
	FailedCriteria  []CriterionResult `json:"failed_criteria"`

	// MissingFields lists the facts that were absent, in the program's
	// declaration order.
	MissingFields []string `json:"missing_fields,omitempty"`

	// Explanation is the human-readable summary; Recommendations are
	// actionable next steps. Both are filled by the explain package.
	// Timestamps are the audit record's concern, not the verdict's, so
	// evaluating identical inputs yields identical verdicts.
	Explanation     string   `json:"explanation,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Eligible reports whether the verdict is a definitive yes.
func (v *Verdict) Eligible() bool {
	return v.Status == StatusEligible
}

// Definitive reports whether the verdict reached a decision rather
// than stalling on missing data.
func (v *Verdict) Definitive() bool {
	return v.Status != StatusInsufficientData
}
