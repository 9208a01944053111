// Package inference evaluates applicant facts against compiled scheme
// programs, producing scored, explained eligibility verdicts.
//
// Two evaluation policies exist, selected per scheme:
//
//   - Strict: eligibility requires every mandatory rule, every exclusion
//     clause, and the family-structure predicate (when declared) to
//     pass. No partial credit. A missing mandatory fact yields
//     insufficient_data; a present but failing one yields not eligible.
//
//   - Weighted: each rule with a known fact contributes its weight to a
//     denominator, and to the numerator when it passes. The score is
//     achieved/total weight, compared against the scheme's threshold.
//     Missing facts are skipped from the denominator and reported.
//
// Evaluation is a pure function of (program, facts): it never mutates
// the program, performs no I/O, and is deterministic, so callers may
// cache results and run any number of evaluations concurrently. No
// failure mode raises an error; coercion failures evaluate the rule to
// false and missing data maps to a defined verdict state.
package inference
