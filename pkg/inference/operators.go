package inference

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// evaluateRule evaluates one rule against the applicant's actual value.
// Errors indicate coercion failure; the evaluator treats them as a
// failed rule rather than surfacing them.
func evaluateRule(rule ast.Rule, actual interface{}) (bool, error) {
	switch rule.Operator {
	case ast.OperatorEqual:
		return evaluateEqual(actual, rule.Value, rule.DataType)

	case ast.OperatorNotEqual:
		equal, err := evaluateEqual(actual, rule.Value, rule.DataType)
		return !equal, err

	case ast.OperatorGreaterThan:
		a, e, err := toOrdered(actual, rule.Value, rule.DataType)
		if err != nil {
			return false, err
		}
		return a > e, nil

	case ast.OperatorGreaterEq:
		a, e, err := toOrdered(actual, rule.Value, rule.DataType)
		if err != nil {
			return false, err
		}
		return a >= e, nil

	case ast.OperatorLessThan:
		a, e, err := toOrdered(actual, rule.Value, rule.DataType)
		if err != nil {
			return false, err
		}
		return a < e, nil

	case ast.OperatorLessEq:
		a, e, err := toOrdered(actual, rule.Value, rule.DataType)
		if err != nil {
			return false, err
		}
		return a <= e, nil

	case ast.OperatorIn:
		return evaluateIn(actual, rule.Value, rule.DataType)

	case ast.OperatorNotIn:
		in, err := evaluateIn(actual, rule.Value, rule.DataType)
		return !in, err

	case ast.OperatorBetween:
		return evaluateBetween(actual, rule.Value, rule.DataType)

	case ast.OperatorNotBetween:
		between, err := evaluateBetween(actual, rule.Value, rule.DataType)
		return !between, err

	case ast.OperatorContains:
		return evaluateContains(actual, rule.Value)

	case ast.OperatorNotContains:
		contains, err := evaluateContains(actual, rule.Value)
		return !contains, err

	case ast.OperatorStartsWith:
		return strings.HasPrefix(normalizeString(actual), normalizeString(rule.Value)), nil

	case ast.OperatorEndsWith:
		return strings.HasSuffix(normalizeString(actual), normalizeString(rule.Value)), nil

	default:
		// Unreachable for compiled programs; the compiler validates the
		// operator vocabulary.
		return false, fmt.Errorf("unknown operator: %q", rule.Operator)
	}
}

// evaluateEqual compares two values under the rule's declared type.
func evaluateEqual(actual, expected interface{}, dt ast.DataType) (bool, error) {
	if actual == nil && expected == nil {
		return true, nil
	}
	if actual == nil || expected == nil {
		return false, nil
	}

	switch dt {
	case ast.TypeNumber:
		a, err := coerceNumber(actual)
		if err != nil {
			return false, err
		}
		e, err := coerceNumber(expected)
		if err != nil {
			return false, err
		}
		return a == e, nil

	case ast.TypeBoolean:
		a, err := coerceBool(actual)
		if err != nil {
			return false, err
		}
		e, err := coerceBool(expected)
		if err != nil {
			return false, err
		}
		return a == e, nil

	case ast.TypeDate:
		a, err := coerceDate(actual)
		if err != nil {
			return false, err
		}
		e, err := coerceDate(expected)
		if err != nil {
			return false, err
		}
		return a.Equal(e), nil

	default:
		return normalizeString(actual) == normalizeString(expected), nil
	}
}

// toOrdered coerces both operands for an ordered comparison. Numbers
// compare as float64; dates compare as seconds since epoch.
func toOrdered(actual, expected interface{}, dt ast.DataType) (float64, float64, error) {
	if dt == ast.TypeDate {
		a, err := coerceDate(actual)
		if err != nil {
			return 0, 0, err
		}
		e, err := coerceDate(expected)
		if err != nil {
			return 0, 0, err
		}
		return float64(a.Unix()), float64(e.Unix()), nil
	}

	a, err := coerceNumber(actual)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert actual value to number: %w", err)
	}
	e, err := coerceNumber(expected)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert expected value to number: %w", err)
	}
	return a, e, nil
}

// evaluateIn checks membership of actual in the expected list.
// String membership compares trimmed, lower-cased values.
func evaluateIn(actual, expected interface{}, dt ast.DataType) (bool, error) {
	items, err := toSlice(expected)
	if err != nil {
		return false, fmt.Errorf("in operator requires a list for expected: %w", err)
	}

	for _, item := range items {
		equal, err := evaluateEqual(actual, item, memberType(dt))
		if err != nil {
			continue
		}
		if equal {
			return true, nil
		}
	}
	return false, nil
}

// memberType maps a list rule's declared type to its element type.
func memberType(dt ast.DataType) ast.DataType {
	if dt == ast.TypeArray {
		return ast.TypeString
	}
	return dt
}

// evaluateBetween checks lo <= actual <= hi against a two-element range.
func evaluateBetween(actual, expected interface{}, dt ast.DataType) (bool, error) {
	bounds, err := toSlice(expected)
	if err != nil || len(bounds) != 2 {
		return false, fmt.Errorf("between operator requires a [min, max] range")
	}

	a, lo, err := toOrdered(actual, bounds[0], dt)
	if err != nil {
		return false, err
	}
	_, hi, err := toOrdered(actual, bounds[1], dt)
	if err != nil {
		return false, err
	}
	return a >= lo && a <= hi, nil
}

// evaluateContains checks substring containment for strings, element
// containment for lists. Matching is case-insensitive.
func evaluateContains(actual, expected interface{}) (bool, error) {
	if items, err := toSlice(actual); err == nil {
		want := normalizeString(expected)
		for _, item := range items {
			if normalizeString(item) == want {
				return true, nil
			}
		}
		return false, nil
	}

	return strings.Contains(normalizeString(actual), normalizeString(expected)), nil
}

// coerceNumber converts a value to float64. Strings tolerate grouping
// commas and rupee prefixes the extractors may have left in place.
func coerceNumber(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case string:
		s := strings.TrimSpace(strings.ToLower(val))
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimPrefix(s, "rs.")
		s = strings.TrimPrefix(s, "rs")
		s = strings.TrimSpace(s)
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number", val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}

// coerceBool converts a value to bool, accepting the affirmative and
// negative spellings the conversational extractors produce.
func coerceBool(v interface{}) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.TrimSpace(strings.ToLower(val)) {
		case "true", "yes", "y", "1", "on":
			return true, nil
		case "false", "no", "n", "0", "off":
			return false, nil
		}
		return false, fmt.Errorf("cannot convert %q to boolean", val)
	case int:
		return val != 0, nil
	case float64:
		return val != 0, nil
	default:
		return false, fmt.Errorf("cannot convert %T to boolean", v)
	}
}

// dateLayouts are the accepted date spellings, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// coerceDate converts a value to a time.Time.
func coerceDate(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as date", val)
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to date", v)
	}
}

// toSlice converts a slice or array value to []interface{}.
func toSlice(v interface{}) ([]interface{}, error) {
	if items, ok := v.([]interface{}); ok {
		return items, nil
	}
	if items, ok := v.([]string); ok {
		out := make([]interface{}, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%T is not a list", v)
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// normalizeString renders a value as a trimmed, lower-cased string.
func normalizeString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(strings.ToLower(s))
}
