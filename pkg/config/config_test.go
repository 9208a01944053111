package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Schemes.Dir != "schemes" {
		t.Errorf("Schemes.Dir = %q, want %q", cfg.Schemes.Dir, "schemes")
	}
	if cfg.Schemes.DefaultThreshold != 0.6 {
		t.Errorf("DefaultThreshold = %v, want 0.6", cfg.Schemes.DefaultThreshold)
	}
	if cfg.Schemes.DefaultMinorAge != 18 {
		t.Errorf("DefaultMinorAge = %d, want 18", cfg.Schemes.DefaultMinorAge)
	}
	if cfg.Schemes.WatchDebounce != 200*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 200ms", cfg.Schemes.WatchDebounce)
	}
	if cfg.Conversation.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Conversation.MaxAttempts)
	}
	if cfg.Audit.RetentionDays != 365 {
		t.Errorf("Audit.RetentionDays = %d, want 365", cfg.Audit.RetentionDays)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Telemetry.Logging)
	}
	if cfg.Telemetry.Metrics.Namespace != "sahayata" || cfg.Telemetry.Metrics.Subsystem != "ceres" {
		t.Errorf("Metrics = %+v, want sahayata/ceres", cfg.Telemetry.Metrics)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(DefaultConfig()) error = %v, want nil", err)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
schemes:
  dir: /etc/ceres/schemes
  watch: true
conversation:
  max_attempts: 5
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if cfg.Schemes.Dir != "/etc/ceres/schemes" {
		t.Errorf("Schemes.Dir = %q, want file value", cfg.Schemes.Dir)
	}
	if !cfg.Schemes.Watch {
		t.Error("Schemes.Watch = false, want true")
	}
	if cfg.Conversation.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.Conversation.MaxAttempts)
	}
	// Unset fields pick up defaults.
	if cfg.Schemes.DefaultThreshold != 0.6 {
		t.Errorf("DefaultThreshold = %v, want default 0.6", cfg.Schemes.DefaultThreshold)
	}
	if cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Telemetry.Logging.Level, "info")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/no/such/config.yaml"); err == nil {
		t.Error("LoadConfig() error = nil, want error")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := writeConfig(t, `
schemes:
  dir: schemes
  default_threshold: 1.5
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if ve.Field != "schemes.default_threshold" {
		t.Errorf("Field = %q, want %q", ve.Field, "schemes.default_threshold")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty dir", func(c *Config) { c.Schemes.Dir = "" }, "schemes.dir"},
		{"bad minor age", func(c *Config) { c.Schemes.DefaultMinorAge = 150 }, "schemes.default_minor_age"},
		{"zero attempts", func(c *Config) { c.Conversation.MaxAttempts = 0 }, "conversation.max_attempts"},
		{"audit enabled without path", func(c *Config) { c.Audit.Enabled = true; c.Audit.Path = "" }, "audit.path"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "verbose" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error type = %T, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
schemes:
  dir: /from/file
audit:
  enabled: false
`)

	t.Setenv("CERES_SCHEMES_DIR", "/from/env")
	t.Setenv("CERES_SCHEMES_DEFAULT_THRESHOLD", "0.8")
	t.Setenv("CERES_AUDIT_ENABLED", "true")
	t.Setenv("CERES_AUDIT_PATH", "/tmp/audit.db")
	t.Setenv("CERES_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v, want nil", err)
	}
	if cfg.Schemes.Dir != "/from/env" {
		t.Errorf("Schemes.Dir = %q, want env value", cfg.Schemes.Dir)
	}
	if cfg.Schemes.DefaultThreshold != 0.8 {
		t.Errorf("DefaultThreshold = %v, want 0.8", cfg.Schemes.DefaultThreshold)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false, want env override true")
	}
	if cfg.Audit.Path != "/tmp/audit.db" {
		t.Errorf("Audit.Path = %q, want env value", cfg.Audit.Path)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Telemetry.Logging.Level, "debug")
	}
}

func TestEnvOverridesRevalidate(t *testing.T) {
	path := writeConfig(t, `
schemes:
  dir: schemes
`)

	t.Setenv("CERES_SCHEMES_DEFAULT_THRESHOLD", "2.0")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("LoadConfigWithEnvOverrides() error = nil, want validation error for threshold 2.0")
	}
}
