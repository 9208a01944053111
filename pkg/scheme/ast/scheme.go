package ast

import "strings"

// EvaluationMode selects the evaluation policy for a scheme.
type EvaluationMode string

const (
	// ModeStrict requires every mandatory rule and every exclusion clause
	// to pass; there is no partial credit.
	ModeStrict EvaluationMode = "strict"

	// ModeWeighted computes a 0-1 score from weighted rule satisfaction
	// and compares it against the scheme's threshold.
	ModeWeighted EvaluationMode = "weighted"
)

// Valid returns true for a recognized evaluation mode.
func (m EvaluationMode) Valid() bool {
	return m == ModeStrict || m == ModeWeighted
}

// Logic controls how weighted-mode results are combined: ALL requires
// every rule to pass for full eligibility, ANY requires at least one.
type Logic string

const (
	LogicAll Logic = "ALL"
	LogicAny Logic = "ANY"
)

// SchemeDefinition is a declarative definition of a government benefit
// scheme as supplied by the scheme-management collaborator (YAML/JSON).
type SchemeDefinition struct {
	// ID uniquely identifies the scheme across the registry (e.g. "pm_kisan").
	ID string `yaml:"id"`

	// Name is the human-readable scheme name.
	Name string `yaml:"name"`

	// Agency is the implementing ministry or agency.
	Agency string `yaml:"agency"`

	// Description summarizes the scheme for prompts and explanations.
	Description string `yaml:"description"`

	// Benefits lists what the scheme provides.
	Benefits []Benefit `yaml:"benefits"`

	// Documents lists the documents required to apply.
	Documents []string `yaml:"documents"`

	// Eligibility is the scheme's eligibility block.
	Eligibility EligibilityBlock `yaml:"eligibility"`

	// SpecialProvisions are region-specific relaxations or alternate
	// requirements, typically certificate-based exceptions.
	SpecialProvisions []SpecialProvision `yaml:"special_provisions"`
}

// EligibilityBlock groups a scheme's eligibility criteria.
type EligibilityBlock struct {
	// Rules are directly-specified structured rules, merged verbatim
	// with rules parsed from the criterion strings.
	Rules []Rule `yaml:"rules"`

	// RequiredCriteria are raw criterion sentences parsed into
	// mandatory-leaning rules (e.g. "age >= 18").
	RequiredCriteria []string `yaml:"required"`

	// ExclusionCriteria are raw disqualifying sentences parsed into
	// inverted rules (e.g. "income > 1000000").
	ExclusionCriteria []string `yaml:"exclusions"`

	// Logic is ALL or ANY; defaults to ALL.
	Logic Logic `yaml:"logic"`

	// Mode selects strict or weighted evaluation; defaults to weighted.
	Mode EvaluationMode `yaml:"mode"`

	// Threshold is the weighted-mode eligibility threshold in (0, 1].
	// Zero means "use the engine default"; it is never hard-coded at
	// evaluation call sites.
	Threshold float64 `yaml:"threshold"`

	// MinorAge is the age below which a dependent counts as a minor for
	// the family-structure predicate. Zero means "use the engine default".
	MinorAge int `yaml:"minor_age"`

	// RequiresFamilyStructure declares the family-structure predicate:
	// the applicant must have a spouse relation and at least one minor
	// dependent.
	RequiresFamilyStructure bool `yaml:"requires_family_structure"`
}

// Benefit describes one benefit a scheme provides.
type Benefit struct {
	Type        string  `yaml:"type"`
	Description string  `yaml:"description"`
	Amount      float64 `yaml:"amount"`
	Frequency   string  `yaml:"frequency"`
}

// SpecialProvision is a region-specific clause. It is satisfied only when
// the applicant's declared region matches and, if RequiresCertificate is
// set, a certificate of the matching type is present.
type SpecialProvision struct {
	Region              string `yaml:"region"`
	Description         string `yaml:"description"`
	RequiresCertificate bool   `yaml:"requires_certificate"`
	CertificateType     string `yaml:"certificate_type"`
}

// NormalizeFieldName lower-cases a criterion field name and collapses it
// to a snake_case identifier.
func NormalizeFieldName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// Well-known applicant fact field names shared between the extractors,
// the compiler's derived predicates, and the evaluator.
const (
	FieldAge             = "age"
	FieldAnnualIncome    = "annual_income"
	FieldLandSizeAcres   = "land_size_acres"
	FieldLandOwnership   = "land_ownership"
	FieldHasBankAccount  = "has_bank_account"
	FieldCategory        = "category"
	FieldGender          = "gender"
	FieldState           = "state"
	FieldRegion          = "region"
	FieldHasCertificate  = "has_special_certificate"
	FieldCertificateType = "certificate_type"
)

// LandOwnershipTypes is the enumerated set the land-ownership predicate
// classifies against.
var LandOwnershipTypes = []string{"owned", "leased", "shared", "institutional"}
