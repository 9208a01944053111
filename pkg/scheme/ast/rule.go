package ast

// Operator is a comparison operator in an eligibility rule.
// The operator vocabulary is closed: the evaluator dispatches over this
// exact set and rejects anything else at compile time rather than
// silently evaluating to false.
type Operator string

const (
	OperatorEqual       Operator = "eq"
	OperatorNotEqual    Operator = "ne"
	OperatorGreaterThan Operator = "gt"
	OperatorGreaterEq   Operator = "gte"
	OperatorLessThan    Operator = "lt"
	OperatorLessEq      Operator = "lte"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
	OperatorBetween     Operator = "between"
	OperatorNotBetween  Operator = "not_between"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
)

// Valid returns true if the operator is part of the closed vocabulary.
func (op Operator) Valid() bool {
	switch op {
	case OperatorEqual, OperatorNotEqual,
		OperatorGreaterThan, OperatorGreaterEq,
		OperatorLessThan, OperatorLessEq,
		OperatorIn, OperatorNotIn,
		OperatorBetween, OperatorNotBetween,
		OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith:
		return true
	}
	return false
}

// inversionTable maps each operator to its logical negation. Exclusion
// criteria are stored as ordinary rules with the operator inverted, so
// "income > 1000000 is excluded" becomes "income <= 1000000 must hold".
var inversionTable = map[Operator]Operator{
	OperatorEqual:       OperatorNotEqual,
	OperatorNotEqual:    OperatorEqual,
	OperatorGreaterThan: OperatorLessEq,
	OperatorGreaterEq:   OperatorLessThan,
	OperatorLessThan:    OperatorGreaterEq,
	OperatorLessEq:      OperatorGreaterThan,
	OperatorIn:          OperatorNotIn,
	OperatorNotIn:       OperatorIn,
	OperatorBetween:     OperatorNotBetween,
	OperatorNotBetween:  OperatorBetween,
	OperatorContains:    OperatorNotContains,
	OperatorNotContains: OperatorContains,
}

// Invert returns the logical negation of the operator. The second return
// value is false for operators with no defined inversion (starts_with,
// ends_with); callers fall back to OperatorNotEqual for those.
func (op Operator) Invert() (Operator, bool) {
	inv, ok := inversionTable[op]
	return inv, ok
}

// DataType is the declared type of a rule's field and value.
type DataType string

const (
	TypeNumber  DataType = "number"
	TypeString  DataType = "string"
	TypeBoolean DataType = "boolean"
	TypeDate    DataType = "date"
	TypeArray   DataType = "array"
)

// Valid returns true if the data type is one of the supported types.
func (dt DataType) Valid() bool {
	switch dt {
	case TypeNumber, TypeString, TypeBoolean, TypeDate, TypeArray:
		return true
	}
	return false
}

// Rule is a single structured eligibility condition.
//
// A rule reads "applicant's Field, compared with Operator against Value,
// must hold". Exclusion criteria are represented as rules with inverted
// operators (see Operator.Invert), not as a separate rule type.
type Rule struct {
	// ID uniquely identifies the rule within its scheme (e.g. "req_1").
	ID string `yaml:"rule_id"`

	// Field is the applicant attribute name, lower-cased snake_case
	// (e.g. "age", "annual_income", "land_size_acres").
	Field string `yaml:"field"`

	// Operator is the comparison operator.
	Operator Operator `yaml:"operator"`

	// Value is the expected value: a scalar, a list (in/not_in), or a
	// two-element [min, max] range (between/not_between).
	Value interface{} `yaml:"value"`

	// DataType declares how both operands are coerced before comparison.
	DataType DataType `yaml:"data_type"`

	// Weight is the rule's contribution in weighted-scoring mode, in (0, 1].
	Weight float64 `yaml:"weight"`

	// Mandatory rules are evaluated independently of weight: a failed
	// mandatory rule forces ineligibility regardless of score.
	Mandatory bool `yaml:"mandatory"`

	// Exclusion marks rules compiled from exclusion criteria. Exclusion
	// rules are always treated as mandatory by the evaluator.
	Exclusion bool `yaml:"-"`

	// SourceText is the original criterion text the rule was parsed from,
	// kept for traceability in explanations and audit records.
	SourceText string `yaml:"description"`

	// LowConfidence marks generic fallback rules produced when no pattern
	// template matched the criterion text. These are logged for audit.
	LowConfidence bool `yaml:"-"`
}

// IsGeneric returns true if the rule is a parse fallback rather than a
// structured condition.
func (r *Rule) IsGeneric() bool {
	return r.Field == GenericRequirementField || r.Field == GenericExclusionField
}

// Field names assigned to fallback rules when no pattern template matches
// the criterion text. Every criterion produces a rule; unparseable ones
// degrade to these rather than being dropped.
const (
	GenericRequirementField = "generic_requirement"
	GenericExclusionField   = "generic_exclusion"
)
