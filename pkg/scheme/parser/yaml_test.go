package parser

import "testing"

const multiSchemeYAML = `
schemes:
  - id: pm_kisan
    name: PM-KISAN
    agency: Ministry of Agriculture
    eligibility:
      required:
        - "age at least 18"
  - id: widow_pension
    name: Widow Pension
    agency: Department of Social Welfare
`

const wrappedSchemeYAML = `
scheme:
  id: pm_kisan
  name: PM-KISAN
  agency: Ministry of Agriculture
`

const bareSchemeYAML = `
id: pm_kisan
name: PM-KISAN
agency: Ministry of Agriculture
eligibility:
  mode: strict
  exclusions:
    - "income_tax_payer must be true"
`

func TestParseBytesSchemesList(t *testing.T) {
	defs, err := ParseBytes([]byte(multiSchemeYAML))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if len(defs) != 2 {
		t.Fatalf("len(defs) = %d, want 2", len(defs))
	}
	if defs[0].ID != "pm_kisan" || defs[1].ID != "widow_pension" {
		t.Errorf("scheme ids = %q, %q", defs[0].ID, defs[1].ID)
	}
	if len(defs[0].Eligibility.RequiredCriteria) != 1 {
		t.Errorf("required criteria = %d, want 1", len(defs[0].Eligibility.RequiredCriteria))
	}
}

func TestParseBytesWrappedScheme(t *testing.T) {
	defs, err := ParseBytes([]byte(wrappedSchemeYAML))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if len(defs) != 1 {
		t.Fatalf("len(defs) = %d, want 1", len(defs))
	}
	if defs[0].Name != "PM-KISAN" {
		t.Errorf("Name = %q, want %q", defs[0].Name, "PM-KISAN")
	}
}

func TestParseBytesBareScheme(t *testing.T) {
	defs, err := ParseBytes([]byte(bareSchemeYAML))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v, want nil", err)
	}
	if len(defs) != 1 {
		t.Fatalf("len(defs) = %d, want 1", len(defs))
	}
	if len(defs[0].Eligibility.ExclusionCriteria) != 1 {
		t.Errorf("exclusion criteria = %d, want 1", len(defs[0].Eligibility.ExclusionCriteria))
	}
}

func TestParseBytesRejectsEmptyDocument(t *testing.T) {
	if _, err := ParseBytes([]byte("just_a_key: value")); err == nil {
		t.Error("ParseBytes() error = nil, want error for document with no scheme")
	}
}

func TestParseBytesRejectsInvalidYAML(t *testing.T) {
	if _, err := ParseBytes([]byte("schemes: [unclosed")); err == nil {
		t.Error("ParseBytes() error = nil, want error for invalid YAML")
	}
}
