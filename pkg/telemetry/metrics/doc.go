// Package metrics exposes Prometheus metrics for scheme compilation,
// evaluation, and the dialogue layer.
//
// All metrics share a configurable namespace/subsystem prefix and
// register on a caller-supplied registry, so tests can use isolated
// registries. When metrics are disabled the collector's record methods
// are no-ops.
package metrics
