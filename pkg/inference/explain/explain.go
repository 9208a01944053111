package explain

import (
	"fmt"
	"strings"

	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/scheme/ast"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// Annotate fills the verdict's Explanation and Recommendations from its
// clause outcomes. It mutates only those two fields.
func Annotate(program *compiler.CompiledProgram, verdict *inference.Verdict) {
	verdict.Explanation = buildExplanation(program, verdict)
	verdict.Recommendations = buildRecommendations(program, verdict)
}

func buildExplanation(program *compiler.CompiledProgram, verdict *inference.Verdict) string {
	var b strings.Builder

	switch verdict.Status {
	case inference.StatusEligible:
		fmt.Fprintf(&b, "You appear to be eligible for %s.", program.SchemeName)
		if program.Mode == ast.ModeWeighted {
			fmt.Fprintf(&b, " You satisfied %d of %d checked criteria (score %.0f%%, threshold %.0f%%).",
				len(verdict.MatchedCriteria),
				len(verdict.MatchedCriteria)+len(verdict.FailedCriteria),
				verdict.Score*100, verdict.Threshold*100)
		}
		if summary := benefitSummary(program); summary != "" {
			b.WriteString(" ")
			b.WriteString(summary)
		}

	case inference.StatusNotEligible:
		fmt.Fprintf(&b, "You do not appear to be eligible for %s.", program.SchemeName)
		for _, r := range verdict.FailedCriteria {
			b.WriteString(" ")
			b.WriteString(describeFailure(r))
		}

	case inference.StatusInsufficientData:
		fmt.Fprintf(&b, "More information is needed to decide eligibility for %s.", program.SchemeName)
		if len(verdict.MissingFields) > 0 {
			fmt.Fprintf(&b, " Still needed: %s.", strings.Join(fieldLabels(verdict.MissingFields), ", "))
		}
	}

	if manual := manualChecks(program); manual != "" {
		b.WriteString(" ")
		b.WriteString(manual)
	}
	return b.String()
}

// describeFailure phrases one failed clause.
func describeFailure(r inference.CriterionResult) string {
	label := fieldLabel(r.Field)
	phrase := fmt.Sprintf("Your %s %s %s", label, operatorPhrase(r.Operator), formatValue(r.Expected))
	if r.Actual != nil {
		phrase += fmt.Sprintf(" (you declared %s)", formatValue(r.Actual))
	}
	if r.Exclusion {
		return fmt.Sprintf("%s; this scheme excludes applicants outside that range.", phrase)
	}
	return phrase + "."
}

// manualChecks summarizes low-confidence fallback clauses that could
// not be checked automatically.
func manualChecks(program *compiler.CompiledProgram) string {
	rules := program.LowConfidenceRules()
	if len(rules) == 0 {
		return ""
	}
	texts := make([]string, 0, len(rules))
	for _, r := range rules {
		texts = append(texts, fmt.Sprintf("%q", r.SourceText))
	}
	return fmt.Sprintf("Please verify separately: %s.", strings.Join(texts, "; "))
}

func benefitSummary(program *compiler.CompiledProgram) string {
	if len(program.Benefits) == 0 {
		return ""
	}
	parts := make([]string, 0, len(program.Benefits))
	for _, ben := range program.Benefits {
		if ben.Amount > 0 {
			parts = append(parts, fmt.Sprintf("%s (₹%.0f %s)", ben.Description, ben.Amount, ben.Frequency))
			continue
		}
		parts = append(parts, ben.Description)
	}
	return fmt.Sprintf("Benefits: %s.", strings.Join(parts, "; "))
}

// operatorPhrase maps each operator to the phrase describing what the
// applicant's value needed to satisfy.
var operatorPhrases = map[ast.Operator]string{
	ast.OperatorEqual:       "must be",
	ast.OperatorNotEqual:    "must not be",
	ast.OperatorGreaterThan: "must be more than",
	ast.OperatorGreaterEq:   "must be at least",
	ast.OperatorLessThan:    "must be less than",
	ast.OperatorLessEq:      "must be at most",
	ast.OperatorIn:          "must be one of",
	ast.OperatorNotIn:       "must not be one of",
	ast.OperatorBetween:     "must be between",
	ast.OperatorNotBetween:  "must be outside",
	ast.OperatorContains:    "must include",
	ast.OperatorNotContains: "must not include",
	ast.OperatorStartsWith:  "must start with",
	ast.OperatorEndsWith:    "must end with",
}

func operatorPhrase(op ast.Operator) string {
	if phrase, ok := operatorPhrases[op]; ok {
		return phrase
	}
	return "must satisfy"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "unknown"
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		if len(parts) == 2 {
			return fmt.Sprintf("%s and %s", parts[0], parts[1])
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// fieldLabel turns a snake_case field name into a spoken label.
func fieldLabel(field string) string {
	if label, ok := fieldLabelTable[field]; ok {
		return label
	}
	return strings.ReplaceAll(field, "_", " ")
}

func fieldLabels(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldLabel(f))
	}
	return out
}

var fieldLabelTable = map[string]string{
	ast.FieldAge:             "age",
	ast.FieldAnnualIncome:    "annual income",
	ast.FieldLandSizeAcres:   "land holding",
	ast.FieldLandOwnership:   "land ownership",
	ast.FieldHasBankAccount:  "bank account status",
	ast.FieldCategory:        "category",
	ast.FieldGender:          "gender",
	ast.FieldState:           "state",
	ast.FieldRegion:          "region",
	ast.FieldHasCertificate:  "special certificate",
	ast.FieldCertificateType: "certificate type",
	"family_members":         "family details",
}
