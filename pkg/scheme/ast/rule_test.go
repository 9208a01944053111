package ast

import "testing"

func TestOperatorInvert(t *testing.T) {
	tests := []struct {
		op   Operator
		want Operator
	}{
		{OperatorEqual, OperatorNotEqual},
		{OperatorNotEqual, OperatorEqual},
		{OperatorGreaterThan, OperatorLessEq},
		{OperatorGreaterEq, OperatorLessThan},
		{OperatorLessThan, OperatorGreaterEq},
		{OperatorLessEq, OperatorGreaterThan},
		{OperatorIn, OperatorNotIn},
		{OperatorBetween, OperatorNotBetween},
		{OperatorContains, OperatorNotContains},
	}
	for _, tt := range tests {
		got, ok := tt.op.Invert()
		if !ok {
			t.Errorf("%q.Invert() ok = false, want true", tt.op)
		}
		if got != tt.want {
			t.Errorf("%q.Invert() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOperatorInvertUndefined(t *testing.T) {
	for _, op := range []Operator{OperatorStartsWith, OperatorEndsWith} {
		if _, ok := op.Invert(); ok {
			t.Errorf("%q.Invert() ok = true, want false", op)
		}
	}
}

func TestOperatorValid(t *testing.T) {
	if !OperatorBetween.Valid() {
		t.Error("between should be valid")
	}
	if Operator("matches").Valid() {
		t.Error("unknown operator should be invalid")
	}
}

func TestDataTypeValid(t *testing.T) {
	if !TypeDate.Valid() {
		t.Error("date should be valid")
	}
	if DataType("decimal").Valid() {
		t.Error("unknown data type should be invalid")
	}
}

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Annual Income", "annual_income"},
		{"  land-size-acres ", "land_size_acres"},
		{"age", "age"},
	}
	for _, tt := range tests {
		if got := NormalizeFieldName(tt.in); got != tt.want {
			t.Errorf("NormalizeFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuleIsGeneric(t *testing.T) {
	r := Rule{Field: GenericRequirementField}
	if !r.IsGeneric() {
		t.Error("generic requirement rule should be generic")
	}
	r = Rule{Field: "age"}
	if r.IsGeneric() {
		t.Error("structured rule should not be generic")
	}
}
