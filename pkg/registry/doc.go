// Package registry holds the compiled scheme programs the rest of the
// system evaluates against.
//
// The registry is an in-memory map from scheme id to compiled program
// with copy-on-write semantics: readers take a read lock and see a
// consistent snapshot, and Replace swaps the whole program set
// atomically during hot reload. In-flight evaluations keep the program
// pointer they resolved and are unaffected by a concurrent swap.
//
// The loader reads scheme definition files from a directory, compiles
// each one, and reports per-scheme failures without aborting the rest;
// a scheme that fails to compile keeps its previous version until a
// corrected definition arrives. The watcher rebuilds the registry when
// definition files change, debounced so editor save storms trigger one
// reload.
package registry
