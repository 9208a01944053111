package dialogue

import (
	"fmt"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// questionTable holds the opening question per field. Fields without
// an entry get a generic question built from the field name.
var questionTable = map[string]string{
	ast.FieldAge:             "What is your age?",
	ast.FieldAnnualIncome:    "What is your family's total annual income?",
	ast.FieldLandSizeAcres:   "How much agricultural land do you have?",
	ast.FieldLandOwnership:   "Is the land owned by you, leased, or shared?",
	ast.FieldHasBankAccount:  "Do you have a bank account?",
	ast.FieldCategory:        "Which category do you belong to (SC, ST, OBC, or General)?",
	ast.FieldGender:          "What is your gender?",
	ast.FieldState:           "Which state do you live in?",
	ast.FieldRegion:          "Which region of the country do you live in?",
	ast.FieldHasCertificate:  "Do you hold a certificate from your village authority or council?",
	ast.FieldCertificateType: "Who issued your certificate, the village authority or the village council?",
	FamilyField:              "Please list your family members with their ages, for example: wife 32, son 8.",
}

// clarifyTable holds the per-field example hint used when an answer
// could not be understood.
var clarifyTable = map[string]string{
	ast.FieldAge:            "Please tell me your age in years, for example: 45.",
	ast.FieldAnnualIncome:   "Please give the yearly amount, for example: 2 lakh or 150000.",
	ast.FieldLandSizeAcres:  "Please give the area with a unit, for example: 3 acres or 1.5 hectares.",
	ast.FieldLandOwnership:  "Please answer owned, leased, or shared.",
	ast.FieldHasBankAccount: "Please answer yes or no.",
	ast.FieldCategory:       "Please answer SC, ST, OBC, or General.",
	ast.FieldGender:         "Please answer male, female, or other.",
	ast.FieldHasCertificate: "Please answer yes or no.",
	FamilyField:             "Please list each member as relation and age, for example: wife 32, son 8.",
}

// question returns the opening question for a field.
func question(field string) string {
	if q, ok := questionTable[field]; ok {
		return q
	}
	return fmt.Sprintf("What is your %s?", strings.ReplaceAll(field, "_", " "))
}

// clarification returns the re-ask prompt for a field.
func clarification(field string) string {
	if c, ok := clarifyTable[field]; ok {
		return "Sorry, I didn't catch that. " + c
	}
	return fmt.Sprintf("Sorry, I didn't catch that. Could you tell me your %s again?", strings.ReplaceAll(field, "_", " "))
}

// greeting opens a conversation for a scheme.
func greeting(schemeName string) string {
	return fmt.Sprintf("Namaste! I can check your eligibility for %s. I'll ask a few short questions.", schemeName)
}
