package compiler

import (
	"sahayata-hq/ceres/pkg/scheme/ast"
)

// CompiledProgram is the immutable, evaluable representation of a
// scheme's eligibility criteria. It is built once per (scheme id,
// definition content hash), cached by the registry, and safe for
// unbounded concurrent reads. Rebuilding never mutates a program in
// place; a new version replaces the registry entry atomically.
type CompiledProgram struct {
	// SchemeID is the unique scheme identifier.
	SchemeID string

	// SchemeName is the human-readable scheme name.
	SchemeName string

	// Agency is the implementing ministry or agency.
	Agency string

	// Description summarizes the scheme.
	Description string

	// Mode selects strict or weighted evaluation.
	Mode ast.EvaluationMode

	// Logic is ALL or ANY for combining weighted results.
	Logic ast.Logic

	// Threshold is the weighted-mode eligibility threshold in (0, 1].
	Threshold float64

	// MinorAge is the cutoff below which a dependent counts as a minor.
	MinorAge int

	// Rules are the requirement clauses, in declaration order.
	Rules []ast.Rule

	// Exclusions are the exclusion clauses, stored as inverted rules.
	Exclusions []ast.Rule

	// Family is the derived family-structure predicate, nil when the
	// scheme does not declare one.
	Family *FamilyPredicate

	// Land is the derived land-ownership classifier, nil when no rule
	// references land ownership.
	Land *LandClassifier

	// Provisions are the region special-provision clauses.
	Provisions []ProvisionClause

	// FieldDecls are the ordered base-fact declarations, one per rule
	// field plus the fields the provision clauses consult. Declaration
	// order fixes the conversation collector's question order.
	FieldDecls []FieldDecl

	// Benefits and Documents are carried through for result delivery.
	Benefits  []ast.Benefit
	Documents []string

	// ContentHash is a deterministic sha256 digest of the definition
	// content; identical definitions always produce identical hashes.
	ContentHash string

	// Warnings are non-fatal findings from definition validation
	// (e.g. negative benefit amounts). They do not affect the hash.
	Warnings []string
}

// FieldDecl declares one base fact the program consults.
type FieldDecl struct {
	Field    string
	DataType ast.DataType
}

// FamilyPredicate is the derived family-structure check: true iff the
// applicant declares at least one husband/wife relation and at least one
// dependent younger than MinorAge.
type FamilyPredicate struct {
	MinorAge int
}

// LandClassifier classifies an applicant's land ownership against the
// enumerated ownership types; land-based exclusions consult it.
type LandClassifier struct {
	Types []string
}

// Classify returns the canonical ownership type for a declared value,
// or "" when the value is not in the enumerated set.
func (lc *LandClassifier) Classify(ownership string) string {
	for _, t := range lc.Types {
		if t == ownership {
			return t
		}
	}
	return ""
}

// ProvisionClause is a compiled special provision. It is satisfied only
// when the applicant's declared region matches Region and, if
// RequiresCertificate is set, a certificate of CertificateType is
// present.
type ProvisionClause struct {
	Region              string
	RequiresCertificate bool
	CertificateType     string
	SourceText          string
}

// RequiredFields returns the program's base-fact field names in
// declaration order.
func (p *CompiledProgram) RequiredFields() []string {
	fields := make([]string, 0, len(p.FieldDecls))
	for _, decl := range p.FieldDecls {
		fields = append(fields, decl.Field)
	}
	return fields
}

// FieldType returns the declared data type for a field, defaulting to
// string for undeclared fields.
func (p *CompiledProgram) FieldType(field string) ast.DataType {
	for _, decl := range p.FieldDecls {
		if decl.Field == field {
			return decl.DataType
		}
	}
	return ast.TypeString
}

// AllClauses returns requirement rules followed by exclusion clauses, in
// declaration order. Explanations iterate this.
func (p *CompiledProgram) AllClauses() []ast.Rule {
	clauses := make([]ast.Rule, 0, len(p.Rules)+len(p.Exclusions))
	clauses = append(clauses, p.Rules...)
	clauses = append(clauses, p.Exclusions...)
	return clauses
}

// LowConfidenceRules returns the clauses that degraded to generic
// fallback rules during parsing; the audit trail records these.
func (p *CompiledProgram) LowConfidenceRules() []ast.Rule {
	var out []ast.Rule
	for _, r := range p.AllClauses() {
		if r.LowConfidence {
			out = append(out, r)
		}
	}
	return out
}
