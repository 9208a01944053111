// Package ast defines the data types for government benefit scheme
// definitions: eligibility rules, operators, data types, benefits, and
// region-specific special provisions.
//
// The types in this package are pure data with no behavior beyond small
// accessors, so the parser, compiler, and evaluator can all share them
// without import cycles. A SchemeDefinition is what the YAML ingest
// produces; the compiler turns it into an immutable compiled program.
package ast
