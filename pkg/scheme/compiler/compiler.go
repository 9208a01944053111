package compiler

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
	"sahayata-hq/ceres/pkg/scheme/parser"
)

// Options configure compilation defaults for values a scheme definition
// may omit. Threshold and minor-age are deliberately configuration, not
// constants: different schemes have used different values.
type Options struct {
	// DefaultThreshold is used when a weighted scheme omits its
	// eligibility threshold.
	DefaultThreshold float64

	// DefaultMinorAge is used when a scheme with a family-structure
	// predicate omits its minor-age cutoff.
	DefaultMinorAge int
}

// DefaultOptions returns the engine defaults (threshold 0.6, minors
// under 18).
func DefaultOptions() Options {
	return Options{
		DefaultThreshold: 0.6,
		DefaultMinorAge:  18,
	}
}

// defaultFieldWeights assigns weights to rules parsed from criterion
// text, which carry no explicit weight of their own.
var defaultFieldWeights = map[string]float64{
	"land_size_acres": 0.9,
	"land_size":       0.9,
	"annual_income":   0.8,
	"crops":           0.8,
	"age":             0.7,
	"land_ownership":  0.7,
	"irrigation_type": 0.6,
	"state":           0.6,
	"family_size":     0.5,
	"gender":          0.4,
}

const fallbackFieldWeight = 0.5

// Compiler compiles scheme definitions into programs.
type Compiler struct {
	opts      Options
	criterion *parser.CriterionParser
	logger    *slog.Logger
}

// New creates a compiler.
func New(opts Options, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultThreshold <= 0 || opts.DefaultThreshold > 1 {
		opts.DefaultThreshold = DefaultOptions().DefaultThreshold
	}
	if opts.DefaultMinorAge <= 0 {
		opts.DefaultMinorAge = DefaultOptions().DefaultMinorAge
	}
	return &Compiler{
		opts:      opts,
		criterion: parser.NewCriterionParser(logger),
		logger:    logger,
	}
}

// Compile turns a scheme definition into an immutable program.
//
// Steps: validate metadata, parse required criteria into mandatory
// rules, parse exclusion criteria into inverted rules, merge structured
// rule records verbatim, synthesize derived predicates, and attach
// special-provision clauses. Fails with *CompileError when id, name, or
// agency is missing or when zero rules result.
func (c *Compiler) Compile(def *ast.SchemeDefinition) (*CompiledProgram, error) {
	if def == nil {
		return nil, &CompileError{SchemeID: "", Errors: []string{"definition is nil"}}
	}

	var errs []string
	if def.ID == "" {
		errs = append(errs, "scheme id is required")
	}
	if def.Name == "" {
		errs = append(errs, "scheme name is required")
	}
	if def.Agency == "" {
		errs = append(errs, "implementing agency is required")
	}
	if len(errs) > 0 {
		return nil, &CompileError{SchemeID: def.ID, Errors: errs}
	}

	var warnings []string

	// Structured rules are merged verbatim and take precedence over
	// rules parsed from criterion text for the same field.
	structured, structErrs := c.normalizeStructuredRules(def)
	errs = append(errs, structErrs...)

	structuredFields := make(map[string]bool, len(structured))
	for _, r := range structured {
		structuredFields[r.Field] = true
	}

	var rules, exclusions []ast.Rule
	ruleSeq := 1

	for _, criterion := range def.Eligibility.RequiredCriteria {
		rule := c.criterion.Parse(criterion, fmt.Sprintf("req_%d", ruleSeq), false)
		ruleSeq++
		if structuredFields[rule.Field] && !rule.IsGeneric() {
			// The structured record for this field overrides the parsed
			// criterion, including its mandatory flag.
			continue
		}
		rule.Weight = fieldWeight(rule.Field)
		rules = append(rules, rule)
	}

	for _, criterion := range def.Eligibility.ExclusionCriteria {
		rule := c.criterion.Parse(criterion, fmt.Sprintf("exc_%d", ruleSeq), true)
		ruleSeq++
		rule.Weight = fieldWeight(rule.Field)
		exclusions = append(exclusions, rule)
	}

	for _, r := range structured {
		if r.Exclusion {
			exclusions = append(exclusions, r)
		} else {
			rules = append(rules, r)
		}
	}

	if len(rules)+len(exclusions) == 0 {
		errs = append(errs, "zero rules after compilation")
	}
	if len(errs) > 0 {
		return nil, &CompileError{SchemeID: def.ID, Errors: errs}
	}

	warnings = append(warnings, validateDefinition(def, rules, exclusions)...)

	mode := def.Eligibility.Mode
	if !mode.Valid() {
		mode = ast.ModeWeighted
	}
	logic := def.Eligibility.Logic
	if logic != ast.LogicAny {
		logic = ast.LogicAll
	}
	threshold := def.Eligibility.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = c.opts.DefaultThreshold
	}
	minorAge := def.Eligibility.MinorAge
	if minorAge <= 0 {
		minorAge = c.opts.DefaultMinorAge
	}

	program := &CompiledProgram{
		SchemeID:    def.ID,
		SchemeName:  def.Name,
		Agency:      def.Agency,
		Description: def.Description,
		Mode:        mode,
		Logic:       logic,
		Threshold:   threshold,
		MinorAge:    minorAge,
		Rules:       rules,
		Exclusions:  exclusions,
		Benefits:    append([]ast.Benefit(nil), def.Benefits...),
		Documents:   append([]string(nil), def.Documents...),
		Warnings:    warnings,
	}

	if def.Eligibility.RequiresFamilyStructure {
		program.Family = &FamilyPredicate{MinorAge: minorAge}
	}
	if referencesLandOwnership(rules, exclusions) {
		program.Land = &LandClassifier{Types: append([]string(nil), ast.LandOwnershipTypes...)}
	}
	for _, sp := range def.SpecialProvisions {
		program.Provisions = append(program.Provisions, ProvisionClause{
			Region:              ast.NormalizeFieldName(sp.Region),
			RequiresCertificate: sp.RequiresCertificate,
			CertificateType:     ast.NormalizeFieldName(sp.CertificateType),
			SourceText:          sp.Description,
		})
	}

	program.FieldDecls = buildFieldDecls(program)
	program.ContentHash = contentHash(program)

	if lc := program.LowConfidenceRules(); len(lc) > 0 {
		c.logger.Warn("scheme compiled with low-confidence fallback rules",
			"scheme_id", def.ID,
			"fallback_count", len(lc),
		)
	}

	return program, nil
}

// normalizeStructuredRules validates and defaults the directly-specified
// rule records. Invalid operators and out-of-range weights are compile
// errors: a rule that would silently evaluate false is worse than a
// rejected scheme.
func (c *Compiler) normalizeStructuredRules(def *ast.SchemeDefinition) ([]ast.Rule, []string) {
	var errs []string
	seen := make(map[string]bool)
	out := make([]ast.Rule, 0, len(def.Eligibility.Rules))

	for i, r := range def.Eligibility.Rules {
		if r.Field == "" {
			errs = append(errs, fmt.Sprintf("rule %d: field is required", i+1))
			continue
		}
		r.Field = ast.NormalizeFieldName(r.Field)
		if !r.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("rule %d (%s): unknown operator %q", i+1, r.Field, r.Operator))
			continue
		}
		if r.Value == nil {
			errs = append(errs, fmt.Sprintf("rule %d (%s): value is required", i+1, r.Field))
			continue
		}
		if r.Weight < 0 || r.Weight > 1 {
			errs = append(errs, fmt.Sprintf("rule %d (%s): weight %v out of range (0,1]", i+1, r.Field, r.Weight))
			continue
		}
		if r.Weight == 0 {
			r.Weight = fieldWeight(r.Field)
		}
		if !r.DataType.Valid() {
			r.DataType = parser.InferDataType(r.Field, fmt.Sprintf("%v", r.Value))
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule_%d", i+1)
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Sprintf("duplicate rule id %q", r.ID))
			continue
		}
		seen[r.ID] = true
		if r.SourceText == "" {
			r.SourceText = fmt.Sprintf("%s %s %v", r.Field, r.Operator, r.Value)
		}
		out = append(out, r)
	}

	return out, errs
}

// validateDefinition produces non-fatal warnings about the definition.
func validateDefinition(def *ast.SchemeDefinition, rules, exclusions []ast.Rule) []string {
	var warnings []string

	for _, b := range def.Benefits {
		if b.Amount < 0 {
			warnings = append(warnings, fmt.Sprintf("negative benefit amount for %q", b.Type))
		}
	}
	if len(def.Documents) == 0 {
		warnings = append(warnings, "no required documents specified")
	}
	for _, r := range rules {
		if r.LowConfidence {
			warnings = append(warnings, fmt.Sprintf("criterion %q degraded to generic rule", r.SourceText))
		}
	}
	for _, r := range exclusions {
		if r.LowConfidence {
			warnings = append(warnings, fmt.Sprintf("exclusion %q degraded to generic rule", r.SourceText))
		}
	}

	return warnings
}

// buildFieldDecls derives the ordered base-fact declarations: one per
// rule field in declaration order (requirements before exclusions),
// followed by the provision fields when special provisions exist.
// Generic fallback fields are not collectable facts and are skipped.
func buildFieldDecls(p *CompiledProgram) []FieldDecl {
	var decls []FieldDecl
	seen := make(map[string]bool)

	add := func(field string, dt ast.DataType) {
		if field == "" || seen[field] {
			return
		}
		seen[field] = true
		decls = append(decls, FieldDecl{Field: field, DataType: dt})
	}

	for _, r := range p.Rules {
		if !r.IsGeneric() {
			add(r.Field, r.DataType)
		}
	}
	for _, r := range p.Exclusions {
		if !r.IsGeneric() {
			add(r.Field, r.DataType)
		}
	}
	if len(p.Provisions) > 0 {
		add(ast.FieldRegion, ast.TypeString)
		add(ast.FieldHasCertificate, ast.TypeBoolean)
		add(ast.FieldCertificateType, ast.TypeString)
	}

	return decls
}

// fieldWeight returns the default weight for a parsed rule's field.
func fieldWeight(field string) float64 {
	if w, ok := defaultFieldWeights[field]; ok {
		return w
	}
	return fallbackFieldWeight
}

// referencesLandOwnership reports whether any clause consults the land
// ownership field.
func referencesLandOwnership(rules, exclusions []ast.Rule) bool {
	for _, r := range rules {
		if r.Field == ast.FieldLandOwnership {
			return true
		}
	}
	for _, r := range exclusions {
		if r.Field == ast.FieldLandOwnership {
			return true
		}
	}
	return false
}

// contentHash digests the program's definition-derived content. The
// digest is stable across compilations of identical definitions: all
// inputs are written in a fixed order and map-derived data is sorted.
func contentHash(p *CompiledProgram) string {
	h := sha256.New()

	write := func(parts ...string) {
		for _, s := range parts {
			h.Write([]byte(s))
			h.Write([]byte{0})
		}
	}

	write(p.SchemeID, p.SchemeName, p.Agency, string(p.Mode), string(p.Logic))
	write(fmt.Sprintf("%.6f", p.Threshold), fmt.Sprintf("%d", p.MinorAge))

	for _, r := range p.AllClauses() {
		write(r.ID, r.Field, string(r.Operator), fmt.Sprintf("%v", r.Value),
			string(r.DataType), fmt.Sprintf("%.6f", r.Weight),
			fmt.Sprintf("%t", r.Mandatory), fmt.Sprintf("%t", r.Exclusion))
	}
	for _, pr := range p.Provisions {
		write(pr.Region, fmt.Sprintf("%t", pr.RequiresCertificate), pr.CertificateType)
	}
	if p.Family != nil {
		write("family", fmt.Sprintf("%d", p.Family.MinorAge))
	}
	if p.Land != nil {
		types := append([]string(nil), p.Land.Types...)
		sort.Strings(types)
		write("land", strings.Join(types, ","))
	}

	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
