// Package compiler turns a SchemeDefinition into an immutable
// CompiledProgram: the canonical, machine-evaluable form of a scheme's
// eligibility criteria.
//
// Compilation parses the free-text required and exclusion criteria into
// structured rules, merges directly-specified rule records verbatim,
// synthesizes derived predicates (family structure, land ownership), and
// attaches region special-provision clauses. Every clause records its
// source text for traceability.
//
// Compilation is pure and deterministic: identical definitions always
// yield identical programs, with a content hash and no timestamps or
// random identifiers inside the program. A definition missing required
// metadata, or producing zero rules, is rejected with a CompileError
// rather than registered as "always eligible".
package compiler
