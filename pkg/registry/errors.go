package registry

import "fmt"

// RegistryError indicates a registry operation failed.
type RegistryError struct {
	SchemeID  string
	Operation string
	Message   string
}

// Error returns the error message.
func (e *RegistryError) Error() string {
	if e.SchemeID != "" {
		return fmt.Sprintf("registry %s: scheme %s: %s", e.Operation, e.SchemeID, e.Message)
	}
	return fmt.Sprintf("registry %s: %s", e.Operation, e.Message)
}
