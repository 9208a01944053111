package compiler

import (
	"errors"
	"reflect"
	"testing"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

func validDefinition() *ast.SchemeDefinition {
	return &ast.SchemeDefinition{
		ID:     "pm_kisan",
		Name:   "PM-KISAN",
		Agency: "Ministry of Agriculture",
		Documents: []string{
			"aadhaar card",
			"land records",
		},
		Eligibility: ast.EligibilityBlock{
			RequiredCriteria: []string{
				"age at least 18",
				"land_size_acres >= 0.5",
			},
			ExclusionCriteria: []string{
				"annual_income greater than 1,000,000",
			},
		},
	}
}

func TestCompileValidDefinition(t *testing.T) {
	c := New(DefaultOptions(), nil)

	program, err := c.Compile(validDefinition())
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if program.SchemeID != "pm_kisan" {
		t.Errorf("SchemeID = %q, want %q", program.SchemeID, "pm_kisan")
	}
	if len(program.Rules) != 2 {
		t.Errorf("len(Rules) = %d, want 2", len(program.Rules))
	}
	if len(program.Exclusions) != 1 {
		t.Errorf("len(Exclusions) = %d, want 1", len(program.Exclusions))
	}
	if program.Mode != ast.ModeWeighted {
		t.Errorf("Mode = %q, want %q", program.Mode, ast.ModeWeighted)
	}
	if program.Logic != ast.LogicAll {
		t.Errorf("Logic = %q, want %q", program.Logic, ast.LogicAll)
	}
	if program.Threshold != 0.6 {
		t.Errorf("Threshold = %v, want 0.6", program.Threshold)
	}
	if program.MinorAge != 18 {
		t.Errorf("MinorAge = %d, want 18", program.MinorAge)
	}
	if program.ContentHash == "" || len(program.ContentHash) != 16 {
		t.Errorf("ContentHash = %q, want 16 hex chars", program.ContentHash)
	}

	// Exclusions compile to inverted rules.
	exc := program.Exclusions[0]
	if exc.Operator != ast.OperatorLessEq {
		t.Errorf("exclusion operator = %q, want %q", exc.Operator, ast.OperatorLessEq)
	}
	if !exc.Exclusion {
		t.Error("exclusion rule should be marked Exclusion")
	}
}

func TestCompileMissingMetadata(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Name = ""
	def.Agency = ""

	_, err := c.Compile(def)
	if err == nil {
		t.Fatal("Compile() error = nil, want *CompileError")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile() error type = %T, want *CompileError", err)
	}
	if len(ce.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2: %v", len(ce.Errors), ce.Errors)
	}
}

func TestCompileNilDefinition(t *testing.T) {
	c := New(DefaultOptions(), nil)
	if _, err := c.Compile(nil); err == nil {
		t.Error("Compile(nil) error = nil, want error")
	}
}

func TestCompileZeroRules(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility = ast.EligibilityBlock{}

	_, err := c.Compile(def)
	if err == nil {
		t.Fatal("Compile() error = nil, want error for zero rules")
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile() error type = %T, want *CompileError", err)
	}
}

func TestCompileStructuredRuleValidation(t *testing.T) {
	c := New(DefaultOptions(), nil)

	tests := []struct {
		name string
		rule ast.Rule
	}{
		{"missing field", ast.Rule{Operator: ast.OperatorEqual, Value: 1}},
		{"unknown operator", ast.Rule{Field: "age", Operator: "matches", Value: 18}},
		{"missing value", ast.Rule{Field: "age", Operator: ast.OperatorEqual}},
		{"weight out of range", ast.Rule{Field: "age", Operator: ast.OperatorEqual, Value: 18, Weight: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			def.Eligibility.Rules = []ast.Rule{tt.rule}
			if _, err := c.Compile(def); err == nil {
				t.Error("Compile() error = nil, want validation error")
			}
		})
	}
}

func TestCompileDuplicateRuleID(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.Rules = []ast.Rule{
		{ID: "r1", Field: "age", Operator: ast.OperatorGreaterEq, Value: 18},
		{ID: "r1", Field: "gender", Operator: ast.OperatorEqual, Value: "female"},
	}

	if _, err := c.Compile(def); err == nil {
		t.Error("Compile() error = nil, want duplicate id error")
	}
}

func TestCompileStructuredRuleDefaults(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.RequiredCriteria = nil
	def.Eligibility.ExclusionCriteria = nil
	def.Eligibility.Rules = []ast.Rule{
		{Field: "Annual Income", Operator: ast.OperatorLessEq, Value: 200000},
	}

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	rule := program.Rules[0]
	if rule.Field != "annual_income" {
		t.Errorf("Field = %q, want %q", rule.Field, "annual_income")
	}
	if rule.ID != "rule_1" {
		t.Errorf("ID = %q, want %q", rule.ID, "rule_1")
	}
	if rule.Weight != 0.8 {
		t.Errorf("Weight = %v, want default 0.8 for annual_income", rule.Weight)
	}
	if rule.DataType != ast.TypeNumber {
		t.Errorf("DataType = %q, want %q", rule.DataType, ast.TypeNumber)
	}
	if rule.SourceText == "" {
		t.Error("SourceText should be synthesized when empty")
	}
}

func TestCompileStructuredRuleOverridesParsedCriterion(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.RequiredCriteria = []string{"age at least 18"}
	def.Eligibility.ExclusionCriteria = nil
	def.Eligibility.Rules = []ast.Rule{
		{ID: "age_override", Field: "age", Operator: ast.OperatorBetween, Value: []interface{}{18.0, 60.0}},
	}

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if len(program.Rules) != 1 {
		t.Fatalf("len(Rules) = %d, want 1 (structured record overrides parsed criterion)", len(program.Rules))
	}
	if program.Rules[0].ID != "age_override" {
		t.Errorf("surviving rule = %q, want %q", program.Rules[0].ID, "age_override")
	}
}

func TestCompileDerivedPredicates(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.RequiresFamilyStructure = true
	def.Eligibility.MinorAge = 14
	def.Eligibility.RequiredCriteria = append(def.Eligibility.RequiredCriteria,
		"land_ownership is owned")

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if program.Family == nil {
		t.Fatal("Family = nil, want family predicate")
	}
	if program.Family.MinorAge != 14 {
		t.Errorf("Family.MinorAge = %d, want 14", program.Family.MinorAge)
	}
	if program.Land == nil {
		t.Fatal("Land = nil, want land classifier")
	}
	if got := program.Land.Classify("leased"); got != "leased" {
		t.Errorf("Classify(leased) = %q, want %q", got, "leased")
	}
	if got := program.Land.Classify("rented"); got != "" {
		t.Errorf("Classify(rented) = %q, want empty", got)
	}
}

func TestCompileProvisionFieldDecls(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.SpecialProvisions = []ast.SpecialProvision{
		{Region: "North East", RequiresCertificate: true, CertificateType: "Tribal Certificate"},
	}

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if len(program.Provisions) != 1 {
		t.Fatalf("len(Provisions) = %d, want 1", len(program.Provisions))
	}
	if program.Provisions[0].Region != "north_east" {
		t.Errorf("provision region = %q, want normalized %q", program.Provisions[0].Region, "north_east")
	}
	if program.Provisions[0].CertificateType != "tribal_certificate" {
		t.Errorf("certificate type = %q, want normalized %q", program.Provisions[0].CertificateType, "tribal_certificate")
	}

	fields := program.RequiredFields()
	want := []string{"age", "land_size_acres", "annual_income", "region", "has_special_certificate", "certificate_type"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("RequiredFields() = %v, want %v", fields, want)
	}
}

func TestCompileFieldDeclsSkipGenericFields(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.RequiredCriteria = append(def.Eligibility.RequiredCriteria,
		"must hold a valid Kisan credit card")

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	for _, f := range program.RequiredFields() {
		if f == ast.GenericRequirementField {
			t.Error("generic fallback field should not be a collectable fact")
		}
	}
	if len(program.LowConfidenceRules()) != 1 {
		t.Errorf("LowConfidenceRules() = %d, want 1", len(program.LowConfidenceRules()))
	}
	if len(program.Warnings) == 0 {
		t.Error("degraded criterion should produce a warning")
	}
}

func TestCompileContentHashDeterminism(t *testing.T) {
	c := New(DefaultOptions(), nil)

	p1, err := c.Compile(validDefinition())
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	p2, err := c.Compile(validDefinition())
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if p1.ContentHash != p2.ContentHash {
		t.Errorf("identical definitions produced different hashes: %q vs %q", p1.ContentHash, p2.ContentHash)
	}

	changed := validDefinition()
	changed.Eligibility.Threshold = 0.8
	p3, err := c.Compile(changed)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if p3.ContentHash == p1.ContentHash {
		t.Error("changed definition produced the same hash")
	}
}

func TestCompileOptionDefaults(t *testing.T) {
	c := New(Options{DefaultThreshold: -1, DefaultMinorAge: 0}, nil)

	program, err := c.Compile(validDefinition())
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if program.Threshold != 0.6 {
		t.Errorf("Threshold = %v, want engine default 0.6", program.Threshold)
	}
	if program.MinorAge != 18 {
		t.Errorf("MinorAge = %d, want engine default 18", program.MinorAge)
	}
}

func TestCompileAnyLogicAndStrictMode(t *testing.T) {
	c := New(DefaultOptions(), nil)

	def := validDefinition()
	def.Eligibility.Logic = ast.LogicAny
	def.Eligibility.Mode = ast.ModeStrict
	def.Eligibility.Threshold = 0.75

	program, err := c.Compile(def)
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	if program.Logic != ast.LogicAny {
		t.Errorf("Logic = %q, want %q", program.Logic, ast.LogicAny)
	}
	if program.Mode != ast.ModeStrict {
		t.Errorf("Mode = %q, want %q", program.Mode, ast.ModeStrict)
	}
	if program.Threshold != 0.75 {
		t.Errorf("Threshold = %v, want 0.75", program.Threshold)
	}
}
