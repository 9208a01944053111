package logging

import (
	"log/slog"
	"regexp"
)

// Patterns for identity data that must never appear in logs: Indian
// mobile numbers (10 digits, optional +91 prefix) and Aadhaar numbers
// (12 digits, optionally space- or dash-grouped in fours).
var (
	phonePattern   = regexp.MustCompile(`(\+91[\-\s]?)?[6-9]\d{9}`)
	aadhaarPattern = regexp.MustCompile(`\d{4}[\s\-]?\d{4}[\s\-]?\d{4}`)
)

const redactedPlaceholder = "[REDACTED]"

// redactAttr is a slog ReplaceAttr hook that masks identity data in
// string attribute values.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	a.Value = slog.StringValue(Redact(a.Value.String()))
	return a
}

// Redact masks phone and Aadhaar numbers in a string.
func Redact(s string) string {
	s = aadhaarPattern.ReplaceAllString(s, redactedPlaceholder)
	s = phonePattern.ReplaceAllString(s, redactedPlaceholder)
	return s
}
