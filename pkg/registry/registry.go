package registry

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
	"time"

	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// SchemeRegistry is thread-safe in-memory storage for compiled scheme
// programs, keyed by scheme id. Updates use copy-on-write semantics:
// readers resolve a program pointer under a read lock and keep using
// it regardless of concurrent replacement.
type SchemeRegistry struct {
	mu       sync.RWMutex
	programs map[string]*compiler.CompiledProgram
	version  string
	loadTime time.Time
}

// NewSchemeRegistry creates an empty registry.
func NewSchemeRegistry() *SchemeRegistry {
	return &SchemeRegistry{
		programs: make(map[string]*compiler.CompiledProgram),
		loadTime: time.Now(),
	}
}

// Register adds or replaces one program.
func (r *SchemeRegistry) Register(program *compiler.CompiledProgram) error {
	if program == nil {
		return &RegistryError{Operation: "register", Message: "program cannot be nil"}
	}
	if program.SchemeID == "" {
		return &RegistryError{Operation: "register", Message: "scheme id cannot be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.programs[program.SchemeID] = program
	r.updateVersion()
	return nil
}

// Replace atomically swaps the entire program set. Used by hot reload.
func (r *SchemeRegistry) Replace(programs []*compiler.CompiledProgram) error {
	for _, p := range programs {
		if p == nil {
			return &RegistryError{Operation: "replace", Message: "program cannot be nil"}
		}
		if p.SchemeID == "" {
			return &RegistryError{Operation: "replace", Message: "scheme id cannot be empty"}
		}
	}

	next := make(map[string]*compiler.CompiledProgram, len(programs))
	for _, p := range programs {
		next[p.SchemeID] = p
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.programs = next
	r.loadTime = time.Now()
	r.updateVersion()
	return nil
}

// Unregister removes one program by scheme id.
func (r *SchemeRegistry) Unregister(schemeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.programs[schemeID]; !ok {
		return &RegistryError{SchemeID: schemeID, Operation: "unregister", Message: "scheme not found"}
	}
	delete(r.programs, schemeID)
	r.updateVersion()
	return nil
}

// Get retrieves a program by scheme id.
func (r *SchemeRegistry) Get(schemeID string) (*compiler.CompiledProgram, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.programs[schemeID]
	return p, ok
}

// GetAll returns every program, sorted by scheme id.
func (r *SchemeRegistry) GetAll() []*compiler.CompiledProgram {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	programs := make([]*compiler.CompiledProgram, 0, len(ids))
	for _, id := range ids {
		programs = append(programs, r.programs[id])
	}
	return programs
}

// SchemeIDs returns the sorted scheme ids.
func (r *SchemeRegistry) SchemeIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered programs.
func (r *SchemeRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.programs)
}

// Version returns the registry content version. It changes whenever
// the program set changes.
func (r *SchemeRegistry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// LoadTime returns when the program set was last replaced.
func (r *SchemeRegistry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadTime
}

// updateVersion recomputes the registry version from the program
// content hashes. Caller holds the write lock.
func (r *SchemeRegistry) updateVersion() {
	h := sha256.New()

	ids := make([]string, 0, len(r.programs))
	for id := range r.programs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte(r.programs[id].ContentHash))
	}
	r.version = fmt.Sprintf("%x", h.Sum(nil))[:16]
}
