package config

import "time"

// Config is the root service configuration.
type Config struct {
	// Schemes configures scheme definition loading and compilation.
	Schemes SchemesConfig `yaml:"schemes"`

	// Conversation configures the dialogue collector and its store.
	Conversation ConversationConfig `yaml:"conversation"`

	// Audit configures the decision audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SchemesConfig configures scheme definition loading.
type SchemesConfig struct {
	// Dir is the directory holding scheme definition YAML files.
	Dir string `yaml:"dir"`

	// Watch enables hot reload when definition files change.
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before a reload fires.
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// DefaultThreshold is the weighted-mode eligibility threshold used
	// by schemes that do not declare their own, in (0, 1].
	DefaultThreshold float64 `yaml:"default_threshold"`

	// DefaultMinorAge is the minor-age cutoff for schemes that do not
	// declare their own.
	DefaultMinorAge int `yaml:"default_minor_age"`
}

// ConversationConfig configures the dialogue layer.
type ConversationConfig struct {
	// MaxAttempts is how many times a field is asked before being
	// abandoned as permanently missing.
	MaxAttempts int `yaml:"max_attempts"`

	// StorePath is the SQLite file persisting conversations.
	// Empty disables persistence.
	StorePath string `yaml:"store_path"`

	// RetentionDays is how long idle conversations are kept.
	RetentionDays int `yaml:"retention_days"`
}

// AuditConfig configures the decision audit trail.
type AuditConfig struct {
	// Enabled turns audit recording on.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite file holding audit records.
	Path string `yaml:"path"`

	// RetentionDays is the record age cutoff for pruning.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning,
	// e.g. "0 3 * * *". Empty disables scheduling.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// RedactPII masks phone and identity numbers in log output.
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace and Subsystem prefix every metric name.
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// EvalDurationBuckets are the histogram buckets for evaluation
	// latency in seconds.
	EvalDurationBuckets []float64 `yaml:"eval_duration_buckets"`
}
