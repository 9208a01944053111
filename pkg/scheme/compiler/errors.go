package compiler

import "fmt"

// CompileError indicates a scheme definition could not be compiled:
// required metadata is missing or zero rules resulted after parsing.
// It is fatal for that scheme only; other schemes remain usable.
type CompileError struct {
	SchemeID string
	Errors   []string
}

// Error returns the error message.
func (e *CompileError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("scheme %s: compile error: %s", e.SchemeID, e.Errors[0])
	}
	return fmt.Sprintf("scheme %s: %d compile errors: %v", e.SchemeID, len(e.Errors), e.Errors)
}
