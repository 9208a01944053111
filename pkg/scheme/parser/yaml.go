package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// schemeDocument is the intermediate structure for a scheme YAML file.
// A file may hold a "schemes:" list, a single "scheme:" mapping, or a
// bare scheme at the top level.
type schemeDocument struct {
	Schemes []ast.SchemeDefinition `yaml:"schemes"`
	Scheme  *ast.SchemeDefinition  `yaml:"scheme"`
}

// ParseBytes parses scheme definitions from YAML content.
func ParseBytes(data []byte) ([]*ast.SchemeDefinition, error) {
	var doc schemeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid scheme YAML: %w", err)
	}

	var defs []*ast.SchemeDefinition
	switch {
	case len(doc.Schemes) > 0:
		for i := range doc.Schemes {
			defs = append(defs, &doc.Schemes[i])
		}
	case doc.Scheme != nil:
		defs = append(defs, doc.Scheme)
	default:
		// Bare scheme document.
		var def ast.SchemeDefinition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("invalid scheme YAML: %w", err)
		}
		if def.ID == "" && def.Name == "" {
			return nil, fmt.Errorf("no scheme definitions found in document")
		}
		defs = append(defs, &def)
	}

	return defs, nil
}

// ParseFile parses scheme definitions from a YAML file on disk.
func ParseFile(path string) ([]*ast.SchemeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme file %q: %w", path, err)
	}

	defs, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scheme file %q: %w", path, err)
	}
	return defs, nil
}
