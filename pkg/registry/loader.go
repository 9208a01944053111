package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/compiler"
	"sahayata-hq/ceres/pkg/scheme/parser"
)

// LoadFailure records one definition that could not be loaded.
// SchemeID is empty when the whole file failed to parse.
type LoadFailure struct {
	Path     string
	SchemeID string
	Err      error
}

// LoadResult is the outcome of loading a definition directory.
type LoadResult struct {
	// Programs are the successfully compiled programs.
	Programs []*compiler.CompiledProgram

	// Failures are the definitions that did not compile. A failure
	// never aborts the rest of the load.
	Failures []LoadFailure

	// Files is how many definition files were read.
	Files int
}

// Loader reads scheme definition files and compiles them into
// programs.
type Loader struct {
	compiler *compiler.Compiler
	logger   *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(c *compiler.Compiler, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{compiler: c, logger: logger}
}

// LoadDir loads every .yaml/.yml file under dir. Files and schemes
// that fail are recorded in the result; the rest load normally.
func (l *Loader) LoadDir(dir string) (*LoadResult, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan scheme directory %q: %w", dir, err)
	}
	sort.Strings(files)

	result := &LoadResult{Files: len(files)}
	for _, path := range files {
		l.loadFile(path, result)
	}

	l.logger.Info("scheme definitions loaded",
		"dir", dir,
		"files", result.Files,
		"schemes", len(result.Programs),
		"failures", len(result.Failures),
	)
	return result, nil
}

// LoadFile loads a single definition file.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	result := &LoadResult{Files: 1}
	l.loadFile(path, result)
	return result, nil
}

func (l *Loader) loadFile(path string, result *LoadResult) {
	defs, err := parser.ParseFile(path)
	if err != nil {
		l.logger.Error("scheme file failed to parse", "path", path, "error", err)
		result.Failures = append(result.Failures, LoadFailure{Path: path, Err: err})
		return
	}

	for _, def := range defs {
		program, err := l.compiler.Compile(def)
		if err != nil {
			l.logger.Error("scheme failed to compile",
				"path", path,
				"scheme_id", def.ID,
				"error", err,
			)
			result.Failures = append(result.Failures, LoadFailure{Path: path, SchemeID: def.ID, Err: err})
			continue
		}
		for _, w := range program.Warnings {
			l.logger.Warn("scheme definition warning",
				"scheme_id", program.SchemeID,
				"warning", w,
			)
		}
		result.Programs = append(result.Programs, program)
	}
}

// ReloadInto loads dir and atomically replaces the registry's program
// set. A scheme whose new definition fails to compile keeps its
// previously registered program instead of disappearing.
func (l *Loader) ReloadInto(dir string, reg *SchemeRegistry) (*LoadResult, error) {
	result, err := l.LoadDir(dir)
	if err != nil {
		return nil, err
	}

	programs := result.Programs
	for _, failure := range result.Failures {
		if failure.SchemeID == "" {
			continue
		}
		if prev, ok := reg.Get(failure.SchemeID); ok {
			l.logger.Warn("keeping previous scheme version after failed reload",
				"scheme_id", failure.SchemeID,
				"content_hash", prev.ContentHash,
			)
			programs = append(programs, prev)
		}
	}

	if err := reg.Replace(programs); err != nil {
		return nil, err
	}
	return result, nil
}
