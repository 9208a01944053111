package explain

import (
	"fmt"
	"strings"

	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/scheme/ast"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// fieldAdvice maps failed fields to actionable next steps. Advice is
// keyed by field so a scheme's wording never leaks into it.
var fieldAdvice = map[string]string{
	ast.FieldAnnualIncome:   "If your income situation changes, you may become eligible. Check for schemes with higher income limits.",
	ast.FieldLandSizeAcres:  "Look for schemes targeting your land-holding size; several schemes cover marginal and small farmers separately.",
	ast.FieldLandOwnership:  "If you cultivate leased or shared land, ask your local agriculture office about tenant-farmer schemes.",
	ast.FieldAge:            "Check schemes with different age brackets; youth and senior-citizen schemes have their own limits.",
	ast.FieldHasBankAccount: "Open a bank account linked to Aadhaar; most benefit transfers require one.",
	ast.FieldCategory:       "Category-specific schemes exist for SC, ST, and OBC applicants; check the ones matching your certificate.",
	ast.FieldGender:         "Some schemes are reserved for women applicants; check the general variants of this scheme.",
	ast.FieldState:          "This scheme is limited to certain states; your state may run an equivalent scheme of its own.",
}

func buildRecommendations(program *compiler.CompiledProgram, verdict *inference.Verdict) []string {
	var recs []string
	seen := map[string]bool{}
	add := func(rec string) {
		if rec != "" && !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	switch verdict.Status {
	case inference.StatusEligible:
		if len(program.Documents) > 0 {
			add(fmt.Sprintf("Keep these documents ready when applying: %s.", strings.Join(program.Documents, ", ")))
		}
		if program.Agency != "" {
			add(fmt.Sprintf("Apply through %s or your nearest Common Service Centre.", program.Agency))
		}

	case inference.StatusNotEligible:
		for _, r := range verdict.FailedCriteria {
			add(fieldAdvice[r.Field])
		}
		add("You may still qualify for other schemes; check the full list for your profile.")

	case inference.StatusInsufficientData:
		for _, field := range verdict.MissingFields {
			add(fmt.Sprintf("Provide your %s to complete the eligibility check.", fieldLabel(field)))
		}
	}

	return recs
}

// Overall builds cross-scheme guidance for a ranked verdict batch. It
// expects the best-first ordering EvaluateAll produces.
func Overall(verdicts []*inference.Verdict) []string {
	var eligible, pending int
	var top *inference.Verdict
	for _, v := range verdicts {
		switch v.Status {
		case inference.StatusEligible:
			eligible++
			if top == nil {
				top = v
			}
		case inference.StatusInsufficientData:
			pending++
		}
	}

	var recs []string
	switch {
	case top != nil:
		recs = append(recs, fmt.Sprintf("Apply for %s first; it is your strongest match.", top.SchemeName))
		if eligible > 1 {
			recs = append(recs, fmt.Sprintf("You appear eligible for %d schemes in total; many benefits can be availed together.", eligible))
		}
		if pending > 0 {
			recs = append(recs, fmt.Sprintf("%d more scheme(s) could not be decided; provide the missing details and check again.", pending))
		}
	case pending > 0:
		recs = append(recs, fmt.Sprintf("%d scheme(s) need more information before a decision; provide the missing details and check again.", pending))
	default:
		recs = append(recs, "No scheme matched your profile; your state may run equivalent schemes, ask at your nearest Common Service Centre.")
	}
	return recs
}
