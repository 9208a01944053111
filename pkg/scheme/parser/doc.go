// Package parser turns scheme definition documents and free-text
// eligibility criteria into the structured types in pkg/scheme/ast.
//
// Two layers live here:
//
//  1. YAML ingest - ParseFile/ParseBytes load a SchemeDefinition document
//     (single scheme or a "schemes:" list) supplied by the external
//     scheme-management collaborator.
//  2. CriterionParser - Parse turns one criterion sentence like
//     "age >= 18" or "income > 1000000" into an ast.Rule by trying an
//     ordered list of pattern templates. Exclusion criteria get their
//     operator inverted so they evaluate as ordinary rules.
//
// Parsing is fail-soft: a criterion no template matches degrades to a
// generic fallback rule flagged low-confidence, so no requirement is ever
// silently dropped. Compilation, not parsing, decides whether the scheme
// as a whole is usable.
package parser
