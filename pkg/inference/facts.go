package inference

// FamilyMember is one declared household relation with an age, used by
// the family-structure predicate.
type FamilyMember struct {
	Relation string `yaml:"relation" json:"relation"`
	Age      int    `yaml:"age" json:"age"`
}

// Facts is an applicant's typed attribute values plus the repeated
// family-member relation. A Facts value is built per evaluation, owned
// exclusively by one conversation or evaluation request, and never
// shared across applicants.
type Facts struct {
	values map[string]interface{}
	family []FamilyMember
}

// NewFacts creates an empty facts record.
func NewFacts() *Facts {
	return &Facts{values: make(map[string]interface{})}
}

// FactsFromMap creates a facts record from a field-value map. The
// optional "family_members" key, when holding []FamilyMember, populates
// the family relation.
func FactsFromMap(values map[string]interface{}) *Facts {
	f := NewFacts()
	for k, v := range values {
		if k == "family_members" {
			if members, ok := v.([]FamilyMember); ok {
				f.family = append(f.family, members...)
				continue
			}
		}
		f.values[k] = v
	}
	return f
}

// Set stores one field value.
func (f *Facts) Set(field string, value interface{}) {
	f.values[field] = value
}

// Get returns a field value and whether it is present.
func (f *Facts) Get(field string) (interface{}, bool) {
	v, ok := f.values[field]
	return v, ok
}

// Has reports whether a field is present.
func (f *Facts) Has(field string) bool {
	_, ok := f.values[field]
	return ok
}

// Fields returns the set of present field names.
func (f *Facts) Fields() []string {
	out := make([]string, 0, len(f.values))
	for k := range f.values {
		out = append(out, k)
	}
	return out
}

// Values returns a copy of the field-value map. Persistence layers
// serialize this rather than reaching into the facts record.
func (f *Facts) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// AddFamilyMember appends one household relation.
func (f *Facts) AddFamilyMember(relation string, age int) {
	f.family = append(f.family, FamilyMember{Relation: relation, Age: age})
}

// FamilyMembers returns the declared household relations.
func (f *Facts) FamilyMembers() []FamilyMember {
	return f.family
}

// Clone returns an independent copy. The dialogue collector clones
// facts when handing them to the evaluator so the conversation context
// stays isolated.
func (f *Facts) Clone() *Facts {
	clone := &Facts{
		values: make(map[string]interface{}, len(f.values)),
		family: append([]FamilyMember(nil), f.family...),
	}
	for k, v := range f.values {
		clone.values[k] = v
	}
	return clone
}
