package config

import "time"

// Default values applied to unset fields.
const (
	DefaultSchemesDir       = "schemes"
	DefaultWatchDebounce    = 200 * time.Millisecond
	DefaultThreshold        = 0.6
	DefaultMinorAge         = 18
	DefaultMaxAttempts      = 3
	DefaultConvRetention    = 30
	DefaultAuditPath        = "data/audit.db"
	DefaultAuditRetention   = 365
	DefaultMetricsNamespace = "sahayata"
	DefaultMetricsSubsystem = "ceres"
)

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Schemes.Dir == "" {
		cfg.Schemes.Dir = DefaultSchemesDir
	}
	if cfg.Schemes.WatchDebounce == 0 {
		cfg.Schemes.WatchDebounce = DefaultWatchDebounce
	}
	if cfg.Schemes.DefaultThreshold == 0 {
		cfg.Schemes.DefaultThreshold = DefaultThreshold
	}
	if cfg.Schemes.DefaultMinorAge == 0 {
		cfg.Schemes.DefaultMinorAge = DefaultMinorAge
	}

	if cfg.Conversation.MaxAttempts == 0 {
		cfg.Conversation.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Conversation.RetentionDays == 0 {
		cfg.Conversation.RetentionDays = DefaultConvRetention
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = DefaultAuditRetention
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.EvalDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.EvalDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}
	}
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
