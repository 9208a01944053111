package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// patternTemplate pairs a textual pattern with the operator it produces.
// Templates are tried in declaration order; the first match wins.
type patternTemplate struct {
	re *regexp.Regexp
	op ast.Operator
}

// patternTemplates is the ordered template list. More specific patterns
// come first: "between" before single comparisons, ">=" before ">",
// "not in" before "in", "not equals" before "equals".
var patternTemplates = []patternTemplate{
	{regexp.MustCompile(`(?i)^(.+?)\s+between\s+([\d.,]+)\s+and\s+([\d.,]+)`), ast.OperatorBetween},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:>=|≥|\bgreater than or equal to\b|\bat least\b)\s*([\d.,]+)`), ast.OperatorGreaterEq},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:<=|≤|\bless than or equal to\b|\bat most\b)\s*([\d.,]+)`), ast.OperatorLessEq},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:>|\bgreater than\b|\bmore than\b|\babove\b)\s*([\d.,]+)`), ast.OperatorGreaterThan},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:<|\bless than\b|\bbelow\b)\s*([\d.,]+)`), ast.OperatorLessThan},
	{regexp.MustCompile(`(?i)^(.+?)\s+not\s+in\s*\[(.+?)\]`), ast.OperatorNotIn},
	{regexp.MustCompile(`(?i)^(.+?)\s+(?:in|belongs\s+to)\s*\[(.+?)\]`), ast.OperatorIn},
	{regexp.MustCompile(`(?i)^(.+?)\s+contains\s+"([^"]+)"`), ast.OperatorContains},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:!=|\bnot\s+equals?\b)\s+(.+)`), ast.OperatorNotEqual},
	{regexp.MustCompile(`(?i)^(.+?)\s+(?:must\s+be|should\s+be)\s+(true|false)`), ast.OperatorEqual},
	{regexp.MustCompile(`(?i)^(.+?)\s*(?:==|\bequals?\b|\bis\b)\s+(.+)`), ast.OperatorEqual},
}

// CriterionParser turns free-text eligibility and exclusion sentences
// into structured rules.
type CriterionParser struct {
	logger *slog.Logger
}

// NewCriterionParser creates a criterion parser.
func NewCriterionParser(logger *slog.Logger) *CriterionParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &CriterionParser{logger: logger}
}

// Parse converts one criterion sentence into a rule. For exclusion text
// the matched operator is inverted so the result reads as a condition
// the applicant must satisfy.
//
// Parse never fails: when no template matches, it emits a generic
// fallback rule (field generic_requirement or generic_exclusion) holding
// the raw text, flagged low-confidence for audit.
func (p *CriterionParser) Parse(criterionText string, ruleID string, isExclusion bool) ast.Rule {
	text := strings.TrimSpace(criterionText)

	for _, tmpl := range patternTemplates {
		m := tmpl.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		field := ast.NormalizeFieldName(m[1])
		dataType := InferDataType(field, text)
		op := tmpl.op

		if isExclusion {
			if inv, ok := op.Invert(); ok {
				op = inv
			} else {
				op = ast.OperatorNotEqual
			}
		}

		var value interface{}
		switch tmpl.op {
		case ast.OperatorBetween:
			lo, _ := parseNumber(m[2])
			hi, _ := parseNumber(m[3])
			value = []interface{}{lo, hi}
			dataType = ast.TypeNumber
		case ast.OperatorIn, ast.OperatorNotIn:
			value = splitListValue(m[2], dataType)
		default:
			value = CoerceValue(m[2], dataType)
		}

		rule := ast.Rule{
			ID:         ruleID,
			Field:      field,
			Operator:   op,
			Value:      value,
			DataType:   dataType,
			Weight:     1.0,
			Mandatory:  true,
			Exclusion:  isExclusion,
			SourceText: text,
		}
		return rule
	}

	// No template matched: degrade to a flagged generic rule rather than
	// dropping the requirement.
	p.logger.Warn("criterion did not match any pattern template, emitting generic rule",
		"criterion", text,
		"exclusion", isExclusion,
	)

	field := ast.GenericRequirementField
	op := ast.OperatorEqual
	if isExclusion {
		field = ast.GenericExclusionField
		op = ast.OperatorNotEqual
	}

	return ast.Rule{
		ID:            ruleID,
		Field:         field,
		Operator:      op,
		Value:         text,
		DataType:      ast.TypeString,
		Weight:        1.0,
		Mandatory:     true,
		Exclusion:     isExclusion,
		SourceText:    text,
		LowConfidence: true,
	}
}

// splitListValue splits a bracketed list body ("a, b, c") into elements
// coerced to the list's declared type.
func splitListValue(body string, dataType ast.DataType) []interface{} {
	parts := strings.Split(body, ",")
	out := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		item := strings.Trim(strings.TrimSpace(part), `"'`)
		if item == "" {
			continue
		}
		if dataType == ast.TypeNumber {
			if n, ok := parseNumber(item); ok {
				out = append(out, n)
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// parseNumber parses a numeric literal, tolerating thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
