package parser

import (
	"regexp"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// fieldTypeTable is the static dictionary of known field names to data
// types, consulted before any heuristic.
var fieldTypeTable = map[string]ast.DataType{
	// Demographics
	"age":            ast.TypeNumber,
	"date_of_birth":  ast.TypeDate,
	"gender":         ast.TypeString,
	"marital_status": ast.TypeString,
	"nationality":    ast.TypeString,
	"citizenship":    ast.TypeString,

	// Economic
	"income":            ast.TypeNumber,
	"annual_income":     ast.TypeNumber,
	"monthly_income":    ast.TypeNumber,
	"family_income":     ast.TypeNumber,
	"per_capita_income": ast.TypeNumber,

	// Agricultural
	"land_size":         ast.TypeNumber,
	"land_size_acres":   ast.TypeNumber,
	"land_area":         ast.TypeNumber,
	"agricultural_land": ast.TypeNumber,
	"farm_size":         ast.TypeNumber,
	"land_ownership":    ast.TypeString,
	"crop_type":         ast.TypeString,

	// Employment
	"employment_status": ast.TypeString,
	"occupation":        ast.TypeString,
	"work_experience":   ast.TypeNumber,

	// Social
	"category":          ast.TypeString,
	"caste":             ast.TypeString,
	"religion":          ast.TypeString,
	"disability_status": ast.TypeBoolean,
	"education_level":   ast.TypeString,

	// Family
	"family_size": ast.TypeNumber,
	"dependents":  ast.TypeNumber,
	"children":    ast.TypeNumber,

	// Location
	"state":       ast.TypeString,
	"district":    ast.TypeString,
	"village":     ast.TypeString,
	"region":      ast.TypeString,
	"urban_rural": ast.TypeString,
	"location":    ast.TypeString,

	// Status flags
	"is_farmer":           ast.TypeBoolean,
	"is_citizen":          ast.TypeBoolean,
	"is_bpl":              ast.TypeBoolean,
	"government_employee": ast.TypeBoolean,
	"pension_recipient":   ast.TypeBoolean,
	"income_tax_payer":    ast.TypeBoolean,
	"has_bank_account":    ast.TypeBoolean,

	// Arrays
	"documents":    ast.TypeArray,
	"certificates": ast.TypeArray,
	"crops":        ast.TypeArray,
}

var numericLiteralRe = regexp.MustCompile(`\d+(\.\d+)?`)

// InferDataType determines the data type for a field, trying in order:
// the static dictionary, keyword heuristics on the field name, content
// heuristics on the criterion text, and finally defaulting to string.
func InferDataType(field, context string) ast.DataType {
	if dt, ok := fieldTypeTable[field]; ok {
		return dt
	}

	// Keywords match whole underscore-separated tokens, never raw
	// substrings: "village_name" must not read as an age field.
	tokens := strings.Split(field, "_")
	hasToken := func(kws ...string) bool {
		for _, t := range tokens {
			for _, kw := range kws {
				if t == kw {
					return true
				}
			}
		}
		return false
	}

	if hasToken("income", "amount", "size", "area", "age", "count") {
		return ast.TypeNumber
	}
	if strings.HasPrefix(field, "is_") || strings.HasPrefix(field, "has_") ||
		strings.HasPrefix(field, "can_") || hasToken("eligible") {
		return ast.TypeBoolean
	}
	if hasToken("date", "born", "time") {
		return ast.TypeDate
	}
	if hasToken("list", "array", "documents", "certificates") {
		return ast.TypeArray
	}

	lower := strings.ToLower(context)
	for _, kw := range []string{"true", "false", "yes", "no"} {
		if strings.Contains(lower, kw) {
			return ast.TypeBoolean
		}
	}
	if numericLiteralRe.MatchString(context) {
		return ast.TypeNumber
	}

	return ast.TypeString
}

// CoerceValue converts matched criterion text to the declared type.
// Numbers tolerate currency prefixes and thousands separators; booleans
// accept the usual affirmative tokens. Values that cannot be coerced are
// returned as trimmed strings so the rule still evaluates (and fails
// closed) rather than erroring.
func CoerceValue(raw string, dataType ast.DataType) interface{} {
	s := strings.Trim(strings.TrimSpace(raw), `"'`)

	switch dataType {
	case ast.TypeNumber:
		cleaned := strings.NewReplacer(",", "", "₹", "", "rs.", "", "Rs.", "", "rs", "").Replace(s)
		if n, ok := parseNumber(cleaned); ok {
			return n
		}
		return s

	case ast.TypeBoolean:
		switch strings.ToLower(s) {
		case "true", "yes", "1", "y", "on":
			return true
		case "false", "no", "0", "n", "off":
			return false
		}
		return s

	case ast.TypeArray:
		return splitListValue(strings.Trim(s, "[]"), ast.TypeString)

	default:
		return s
	}
}
