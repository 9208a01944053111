package explain

import (
	"strings"
	"testing"

	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/scheme/ast"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

func testProgram() *compiler.CompiledProgram {
	return &compiler.CompiledProgram{
		SchemeID:   "pm_kisan",
		SchemeName: "PM-KISAN",
		Agency:     "Ministry of Agriculture",
		Mode:       ast.ModeWeighted,
		Threshold:  0.6,
		Documents:  []string{"aadhaar card", "land records"},
		Benefits: []ast.Benefit{
			{Type: "cash", Description: "income support", Amount: 6000, Frequency: "yearly"},
		},
	}
}

func TestAnnotateEligible(t *testing.T) {
	program := testProgram()
	verdict := &inference.Verdict{
		SchemeID:   "pm_kisan",
		SchemeName: "PM-KISAN",
		Status:     inference.StatusEligible,
		Score:      1.0,
		Threshold:  0.6,
		MatchedCriteria: []inference.CriterionResult{
			{RuleID: "req_1", Field: "age", Passed: true},
		},
	}

	Annotate(program, verdict)

	if !strings.Contains(verdict.Explanation, "eligible for PM-KISAN") {
		t.Errorf("Explanation = %q, want eligibility statement", verdict.Explanation)
	}
	if !strings.Contains(verdict.Explanation, "₹6000 yearly") {
		t.Errorf("Explanation = %q, want benefit summary", verdict.Explanation)
	}
	if len(verdict.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2: %v", len(verdict.Recommendations), verdict.Recommendations)
	}
	if !strings.Contains(verdict.Recommendations[0], "aadhaar card, land records") {
		t.Errorf("Recommendations[0] = %q, want document list", verdict.Recommendations[0])
	}
	if !strings.Contains(verdict.Recommendations[1], "Ministry of Agriculture") {
		t.Errorf("Recommendations[1] = %q, want agency", verdict.Recommendations[1])
	}
}

func TestAnnotateNotEligible(t *testing.T) {
	program := testProgram()
	verdict := &inference.Verdict{
		Status: inference.StatusNotEligible,
		FailedCriteria: []inference.CriterionResult{
			{
				RuleID:    "exc_1",
				Field:     ast.FieldAnnualIncome,
				Operator:  ast.OperatorLessEq,
				Expected:  1000000.0,
				Actual:    2000000.0,
				Exclusion: true,
			},
		},
	}

	Annotate(program, verdict)

	if !strings.Contains(verdict.Explanation, "do not appear to be eligible") {
		t.Errorf("Explanation = %q, want ineligibility statement", verdict.Explanation)
	}
	if !strings.Contains(verdict.Explanation, "annual income must be at most 1000000") {
		t.Errorf("Explanation = %q, want failure description", verdict.Explanation)
	}
	if !strings.Contains(verdict.Explanation, "you declared 2000000") {
		t.Errorf("Explanation = %q, want declared value", verdict.Explanation)
	}

	foundAdvice := false
	for _, rec := range verdict.Recommendations {
		if strings.Contains(rec, "income situation changes") {
			foundAdvice = true
		}
	}
	if !foundAdvice {
		t.Errorf("Recommendations = %v, want income advice", verdict.Recommendations)
	}
}

func TestAnnotateInsufficientData(t *testing.T) {
	program := testProgram()
	verdict := &inference.Verdict{
		Status:        inference.StatusInsufficientData,
		MissingFields: []string{ast.FieldLandSizeAcres, ast.FieldHasBankAccount},
	}

	Annotate(program, verdict)

	if !strings.Contains(verdict.Explanation, "More information is needed") {
		t.Errorf("Explanation = %q, want missing-data statement", verdict.Explanation)
	}
	if !strings.Contains(verdict.Explanation, "land holding") {
		t.Errorf("Explanation = %q, want field label", verdict.Explanation)
	}
	if len(verdict.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(verdict.Recommendations))
	}
	if !strings.Contains(verdict.Recommendations[0], "Provide your land holding") {
		t.Errorf("Recommendations[0] = %q, want prompt for land holding", verdict.Recommendations[0])
	}
}

func TestAnnotateSurfacesManualChecks(t *testing.T) {
	program := testProgram()
	program.Rules = []ast.Rule{
		{
			ID:            "req_9",
			Field:         ast.GenericRequirementField,
			Operator:      ast.OperatorEqual,
			Value:         "must hold a valid Kisan credit card",
			SourceText:    "must hold a valid Kisan credit card",
			LowConfidence: true,
		},
	}
	verdict := &inference.Verdict{Status: inference.StatusEligible}

	Annotate(program, verdict)

	if !strings.Contains(verdict.Explanation, "Please verify separately") {
		t.Errorf("Explanation = %q, want manual-check note", verdict.Explanation)
	}
	if !strings.Contains(verdict.Explanation, "Kisan credit card") {
		t.Errorf("Explanation = %q, want fallback source text", verdict.Explanation)
	}
}

func TestDescribeFailureBetweenRange(t *testing.T) {
	r := inference.CriterionResult{
		Field:    "age",
		Operator: ast.OperatorBetween,
		Expected: []interface{}{18.0, 40.0},
	}
	got := describeFailure(r)
	if !strings.Contains(got, "must be between 18 and 40") {
		t.Errorf("describeFailure() = %q, want range phrasing", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name     string
		verdicts []*inference.Verdict
		want     string
	}{
		{
			"top eligible scheme named first",
			[]*inference.Verdict{
				{SchemeName: "PM-KISAN", Status: inference.StatusEligible, Score: 1.0},
				{SchemeName: "Widow Pension", Status: inference.StatusNotEligible},
			},
			"Apply for PM-KISAN first",
		},
		{
			"pending schemes ask for details",
			[]*inference.Verdict{
				{SchemeName: "PM-KISAN", Status: inference.StatusInsufficientData},
			},
			"1 scheme(s) need more information",
		},
		{
			"no matches point elsewhere",
			[]*inference.Verdict{
				{SchemeName: "PM-KISAN", Status: inference.StatusNotEligible},
			},
			"No scheme matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Overall(tt.verdicts)
			if len(recs) == 0 {
				t.Fatal("Overall() returned no recommendations")
			}
			if !strings.Contains(recs[0], tt.want) {
				t.Errorf("Overall()[0] = %q, want substring %q", recs[0], tt.want)
			}
		})
	}
}

func TestOverallCountsEligibleAndPending(t *testing.T) {
	recs := Overall([]*inference.Verdict{
		{SchemeName: "PM-KISAN", Status: inference.StatusEligible, Score: 1.0},
		{SchemeName: "Widow Pension", Status: inference.StatusEligible, Score: 0.8},
		{SchemeName: "Youth Grant", Status: inference.StatusInsufficientData},
	})

	if len(recs) != 3 {
		t.Fatalf("len(recs) = %d, want 3: %v", len(recs), recs)
	}
	if !strings.Contains(recs[1], "eligible for 2 schemes") {
		t.Errorf("recs[1] = %q, want eligible count", recs[1])
	}
	if !strings.Contains(recs[2], "1 more scheme(s)") {
		t.Errorf("recs[2] = %q, want pending count", recs[2])
	}
}

func TestFieldLabelFallback(t *testing.T) {
	if got := fieldLabel("crop_insurance_status"); got != "crop insurance status" {
		t.Errorf("fieldLabel() = %q, want %q", got, "crop insurance status")
	}
}
