// Package logging configures structured logging for the service.
//
// Logging builds on log/slog with JSON or text handlers. When PII
// redaction is enabled, phone numbers and Aadhaar-style identity
// numbers in log attribute values are masked before they reach the
// handler; applicant data flows through many log sites and masking at
// the logger is the only place that catches all of them.
package logging
