package extract

import (
	"log/slog"
	"strconv"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// Extractor pulls one field's typed value out of an utterance. The
// boolean result is false when the utterance does not contain a usable
// value for the field.
type Extractor interface {
	// Field is the fact field the extractor serves.
	Field() string

	// Extract parses the utterance and returns the typed value.
	Extract(utterance string) (interface{}, bool)
}

// Registry resolves extractors by field name, falling back to generic
// data-type extraction for fields without a dedicated one.
type Registry struct {
	byField map[string]Extractor
	logger  *slog.Logger
}

// NewRegistry creates a registry pre-populated with the built-in
// field extractors.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byField: make(map[string]Extractor),
		logger:  logger,
	}
	for _, e := range builtinExtractors() {
		r.Register(e)
	}
	return r
}

// Register adds or replaces the extractor for its field.
func (r *Registry) Register(e Extractor) {
	r.byField[e.Field()] = e
}

// Extract parses an utterance for the named field. Fields without a
// dedicated extractor use generic extraction for the declared type.
func (r *Registry) Extract(field string, dataType ast.DataType, utterance string) (interface{}, bool) {
	if e, ok := r.byField[field]; ok {
		value, ok := e.Extract(utterance)
		if !ok {
			r.logger.Debug("extraction failed", "field", field, "utterance_len", len(utterance))
		}
		return value, ok
	}
	return genericExtract(dataType, utterance)
}

// genericExtract parses an utterance by declared type alone.
func genericExtract(dataType ast.DataType, utterance string) (interface{}, bool) {
	s := strings.TrimSpace(utterance)
	if s == "" {
		return nil, false
	}

	switch dataType {
	case ast.TypeNumber:
		if m := numberPattern.FindString(s); m != "" {
			n, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
			if err == nil {
				return n, true
			}
		}
		return nil, false

	case ast.TypeBoolean:
		return extractBool(s)

	case ast.TypeArray:
		parts := strings.Split(s, ",")
		out := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, strings.ToLower(p))
			}
		}
		return out, len(out) > 0

	default:
		return strings.ToLower(s), true
	}
}
