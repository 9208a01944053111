// Ceres is a scheme eligibility engine for government benefit schemes.
//
// It compiles declarative scheme definitions into immutable rule
// programs and evaluates applicant facts against them, producing
// scored, explained eligibility verdicts.
//
// Usage:
//
//	# Compile and lint scheme definitions
//	ceres compile schemes/
//
//	# Check eligibility from a facts file
//	ceres check --scheme pm_kisan --facts applicant.yaml
//
//	# Interactive eligibility conversation
//	ceres chat --scheme pm_kisan
//
//	# Run the engine with hot reload and metrics
//	ceres run --config config.yaml
//
//	# Show version information
//	ceres version
package main

func main() {
	Execute()
}
