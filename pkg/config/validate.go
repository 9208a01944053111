package config

import "fmt"

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values. It returns the
// first problem found.
func Validate(cfg *Config) error {
	if cfg.Schemes.Dir == "" {
		return &ValidationError{Field: "schemes.dir", Message: "cannot be empty"}
	}
	if cfg.Schemes.DefaultThreshold <= 0 || cfg.Schemes.DefaultThreshold > 1 {
		return &ValidationError{Field: "schemes.default_threshold", Message: "must be in (0, 1]"}
	}
	if cfg.Schemes.DefaultMinorAge <= 0 || cfg.Schemes.DefaultMinorAge > 120 {
		return &ValidationError{Field: "schemes.default_minor_age", Message: "must be in (0, 120]"}
	}
	if cfg.Schemes.WatchDebounce < 0 {
		return &ValidationError{Field: "schemes.watch_debounce", Message: "cannot be negative"}
	}

	if cfg.Conversation.MaxAttempts <= 0 {
		return &ValidationError{Field: "conversation.max_attempts", Message: "must be positive"}
	}
	if cfg.Conversation.RetentionDays < 0 {
		return &ValidationError{Field: "conversation.retention_days", Message: "cannot be negative"}
	}

	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		return &ValidationError{Field: "audit.path", Message: "required when audit is enabled"}
	}
	if cfg.Audit.RetentionDays < 0 {
		return &ValidationError{Field: "audit.retention_days", Message: "cannot be negative"}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "telemetry.logging.level", Message: fmt.Sprintf("unknown level %q", cfg.Telemetry.Logging.Level)}
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return &ValidationError{Field: "telemetry.logging.format", Message: fmt.Sprintf("unknown format %q", cfg.Telemetry.Logging.Format)}
	}

	return nil
}
