package inference

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"sahayata-hq/ceres/pkg/scheme/ast"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// Synthetic clause identifiers for the derived predicates, used in
// criterion results and explanations.
const (
	familyClauseID    = "family_structure"
	provisionClauseID = "special_provision"
)

// MetricsRecorder receives one observation per evaluation. The
// telemetry metrics collector satisfies it.
type MetricsRecorder interface {
	RecordEvaluation(schemeID, status string, duration time.Duration)
}

// Evaluator applies compiled scheme programs to applicant facts. It is
// stateless apart from its logger and safe for concurrent use.
type Evaluator struct {
	logger  *slog.Logger
	metrics MetricsRecorder
}

// NewEvaluator creates an evaluator.
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger}
}

// WithMetrics sets the evaluation metrics recorder.
func (e *Evaluator) WithMetrics(m MetricsRecorder) *Evaluator {
	e.metrics = m
	return e
}

// Evaluate applies one compiled program to the applicant's facts and
// returns the verdict. It never returns an error: coercion failures
// evaluate the affected clause to false, and missing facts map to the
// insufficient_data status.
func (e *Evaluator) Evaluate(program *compiler.CompiledProgram, facts *Facts) *Verdict {
	start := time.Now()
	verdict := &Verdict{
		SchemeID:   program.SchemeID,
		SchemeName: program.SchemeName,
		Threshold:  program.Threshold,
	}

	results := e.evaluateClauses(program, facts)
	results = append(results, e.evaluateFamily(program, facts)...)
	results = append(results, e.evaluateProvisions(program, facts)...)

	var (
		achieved, total  float64
		mandatoryFailed  bool
		mandatoryMissing bool
		anyPassed        bool
		seenMissing      = map[string]bool{}
	)
	for _, r := range results {
		if r.Missing {
			if !seenMissing[r.Field] {
				seenMissing[r.Field] = true
				verdict.MissingFields = append(verdict.MissingFields, r.Field)
			}
			if r.Mandatory || r.Exclusion {
				mandatoryMissing = true
			}
			continue
		}

		total += r.Weight
		if r.Passed {
			achieved += r.Weight
			anyPassed = true
			verdict.MatchedCriteria = append(verdict.MatchedCriteria, r)
		} else {
			if r.Mandatory || r.Exclusion {
				mandatoryFailed = true
			}
			verdict.FailedCriteria = append(verdict.FailedCriteria, r)
		}
	}

	if total > 0 {
		verdict.Score = achieved / total
	}

	verdict.Status = decide(program, verdict.Score, mandatoryFailed, mandatoryMissing, anyPassed, len(verdict.MissingFields) > 0, total)

	if e.metrics != nil {
		e.metrics.RecordEvaluation(program.SchemeID, string(verdict.Status), time.Since(start))
	}
	e.logger.Debug("evaluation complete",
		"scheme_id", program.SchemeID,
		"status", verdict.Status,
		"score", verdict.Score,
		"missing_fields", len(verdict.MissingFields),
	)
	return verdict
}

// decide maps the aggregate clause outcomes to a verdict status.
//
// A definitive mandatory or exclusion failure dominates everything,
// including a perfect score. In strict mode a missing mandatory fact
// stalls the verdict; in weighted mode missing facts stall it only when
// the known facts do not already clear the threshold.
func decide(program *compiler.CompiledProgram, score float64, mandatoryFailed, mandatoryMissing, anyPassed, anyMissing bool, total float64) Status {
	if mandatoryFailed {
		return StatusNotEligible
	}

	if program.Mode == ast.ModeStrict {
		if mandatoryMissing {
			return StatusInsufficientData
		}
		return StatusEligible
	}

	if total == 0 {
		return StatusInsufficientData
	}

	if program.Logic == ast.LogicAny {
		if anyPassed {
			return StatusEligible
		}
		if anyMissing {
			return StatusInsufficientData
		}
		return StatusNotEligible
	}

	if score >= program.Threshold {
		return StatusEligible
	}
	if anyMissing {
		return StatusInsufficientData
	}
	return StatusNotEligible
}

// evaluateClauses runs the requirement and exclusion rules. Generic
// fallback clauses are skipped here; they carry no checkable condition
// and are surfaced by explanations as manual-verification items.
func (e *Evaluator) evaluateClauses(program *compiler.CompiledProgram, facts *Facts) []CriterionResult {
	var results []CriterionResult
	for _, rule := range program.AllClauses() {
		if rule.IsGeneric() {
			continue
		}

		result := CriterionResult{
			RuleID:     rule.ID,
			Field:      rule.Field,
			Operator:   rule.Operator,
			Expected:   rule.Value,
			Weight:     rule.Weight,
			Mandatory:  rule.Mandatory,
			Exclusion:  rule.Exclusion,
			SourceText: rule.SourceText,
		}

		actual, ok := facts.Get(rule.Field)
		if !ok {
			result.Missing = true
			results = append(results, result)
			continue
		}
		result.Actual = actual

		if rule.Field == ast.FieldLandOwnership && program.Land != nil {
			canonical := program.Land.Classify(normalizeString(actual))
			if canonical == "" {
				results = append(results, result)
				continue
			}
			actual = canonical
		}

		passed, err := evaluateRule(rule, actual)
		if err != nil {
			e.logger.Debug("rule coercion failed",
				"scheme_id", program.SchemeID,
				"rule_id", rule.ID,
				"field", rule.Field,
				"error", err,
			)
			passed = false
		}
		result.Passed = passed
		results = append(results, result)
	}
	return results
}

// evaluateFamily runs the derived family-structure predicate: at least
// one spouse relation and at least one dependent younger than the
// scheme's minor age.
func (e *Evaluator) evaluateFamily(program *compiler.CompiledProgram, facts *Facts) []CriterionResult {
	if program.Family == nil {
		return nil
	}

	result := CriterionResult{
		RuleID:     familyClauseID,
		Field:      "family_members",
		Operator:   ast.OperatorContains,
		Expected:   "spouse and minor dependent",
		Weight:     1.0,
		Mandatory:  true,
		SourceText: "household must include a spouse and a minor dependent",
	}

	members := facts.FamilyMembers()
	if len(members) == 0 {
		result.Missing = true
		return []CriterionResult{result}
	}

	var hasSpouse, hasMinor bool
	for _, m := range members {
		switch strings.TrimSpace(strings.ToLower(m.Relation)) {
		case "husband", "wife", "spouse":
			hasSpouse = true
		}
		if m.Age >= 0 && m.Age < program.Family.MinorAge {
			hasMinor = true
		}
	}
	result.Actual = len(members)
	result.Passed = hasSpouse && hasMinor
	return []CriterionResult{result}
}

// evaluateProvisions runs the region special-provision clauses. A
// clause whose region does not match the applicant is inapplicable and
// produces no result. A matching clause fails when its certificate
// requirement is unmet.
func (e *Evaluator) evaluateProvisions(program *compiler.CompiledProgram, facts *Facts) []CriterionResult {
	if len(program.Provisions) == 0 {
		return nil
	}

	regionVal, ok := facts.Get(ast.FieldRegion)
	if !ok {
		return nil
	}
	// Compiled regions are snake_case identifiers; fold the declared
	// value the same way so "North East" matches north_east.
	region := ast.NormalizeFieldName(normalizeString(regionVal))

	var results []CriterionResult
	for _, clause := range program.Provisions {
		if clause.Region != region {
			continue
		}

		result := CriterionResult{
			RuleID:     provisionClauseID,
			Field:      ast.FieldRegion,
			Operator:   ast.OperatorEqual,
			Expected:   clause.Region,
			Actual:     region,
			Weight:     1.0,
			Mandatory:  true,
			SourceText: clause.SourceText,
		}

		if !clause.RequiresCertificate {
			result.Passed = true
			results = append(results, result)
			continue
		}

		hasCert, ok := facts.Get(ast.FieldHasCertificate)
		if !ok {
			result.Field = ast.FieldHasCertificate
			result.Missing = true
			results = append(results, result)
			continue
		}
		held, err := coerceBool(hasCert)
		if err != nil || !held {
			result.Field = ast.FieldHasCertificate
			results = append(results, result)
			continue
		}

		if clause.CertificateType != "" {
			certType, ok := facts.Get(ast.FieldCertificateType)
			if !ok {
				result.Field = ast.FieldCertificateType
				result.Missing = true
				results = append(results, result)
				continue
			}
			if ast.NormalizeFieldName(normalizeString(certType)) != clause.CertificateType {
				result.Field = ast.FieldCertificateType
				result.Expected = clause.CertificateType
				result.Actual = certType
				results = append(results, result)
				continue
			}
		}

		result.Passed = true
		results = append(results, result)
	}
	return results
}

// EvaluateAll evaluates the applicant against every given program and
// returns the verdicts ranked best-first: eligible before stalled
// before ineligible, then by descending score, then by scheme id.
func (e *Evaluator) EvaluateAll(programs []*compiler.CompiledProgram, facts *Facts) []*Verdict {
	verdicts := make([]*Verdict, 0, len(programs))
	for _, p := range programs {
		verdicts = append(verdicts, e.Evaluate(p, facts))
	}

	rank := map[Status]int{
		StatusEligible:         0,
		StatusInsufficientData: 1,
		StatusNotEligible:      2,
	}
	sort.SliceStable(verdicts, func(i, j int) bool {
		if rank[verdicts[i].Status] != rank[verdicts[j].Status] {
			return rank[verdicts[i].Status] < rank[verdicts[j].Status]
		}
		if verdicts[i].Score != verdicts[j].Score {
			return verdicts[i].Score > verdicts[j].Score
		}
		return verdicts[i].SchemeID < verdicts[j].SchemeID
	})
	return verdicts
}
