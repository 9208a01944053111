// Package explain renders eligibility verdicts into human-readable
// explanations and actionable recommendations.
//
// Explanations are generated from the verdict's clause outcomes, not
// re-derived from the facts, so annotating a verdict never changes its
// status or score. Every phrase is built from the clause's field,
// operator, and values; low-confidence fallback clauses are surfaced
// as manual-verification notes rather than silently omitted.
package explain
