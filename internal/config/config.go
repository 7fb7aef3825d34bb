// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package config

import "time"

// Log source types.
const (
	SourceADB   = "adb"
	SourceFile  = "file"
	SourceStdin = "stdin"
)

// Audit store drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"
	DriverMemory = "memory"
)

// Config is the complete LocShield configuration.
type Config struct {
	LogSource LogSourceConfig `koanf:"log_source"`
	Detection DetectionConfig `koanf:"detection"`
	Audit     AuditConfig     `koanf:"audit"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// LogSourceConfig selects where device log lines come from.
//
// Environment Variables:
//   - LOCSHIELD_SOURCE: adb, file or stdin (default: adb)
//   - LOCSHIELD_ADB_PATH: adb binary (default: adb, resolved via PATH)
//   - LOCSHIELD_ADB_SERIAL: device serial passed as -s (default: none)
//   - LOCSHIELD_LOGCAT_ARGS: comma-separated logcat arguments (default: -v,threadtime,-T,1)
//   - LOCSHIELD_LOG_FILE: file to read when LOCSHIELD_SOURCE=file
//   - LOCSHIELD_FOLLOW: keep tailing the file at EOF (default: false)
//   - LOCSHIELD_IDLE_INTERVAL: sleep after an empty read (default: 100ms)
type LogSourceConfig struct {
	Type             string        `koanf:"type"`
	ADBPath          string        `koanf:"adb_path"`
	ADBSerial        string        `koanf:"adb_serial"`
	LogcatArgs       []string      `koanf:"logcat_args"`
	FilePath         string        `koanf:"file_path"`
	Follow           bool          `koanf:"follow"`
	IdleInterval     time.Duration `koanf:"idle_interval"`
	PreflightTimeout time.Duration `koanf:"preflight_timeout"`
}

// DetectionConfig holds the rule table and the correlation/verification knobs.
type DetectionConfig struct {
	// TargetApp is the navigation package whose location reads are correlated.
	TargetApp string `koanf:"target_app"`
	// TargetLabel is the source name recorded for TargetApp events.
	TargetLabel      string   `koanf:"target_label"`
	LocationKeywords []string `koanf:"location_keywords"`
	MockKeywords     []string `koanf:"mock_keywords"`
	ContextKeywords  []string `koanf:"context_keywords"`
	ExitKeywords     []string `koanf:"exit_keywords"`
	// SpoofTools are process names of known mock-location apps.
	SpoofTools []string `koanf:"spoof_tools"`

	CorrelationWindow time.Duration `koanf:"correlation_window"`

	VerificationEnabled  bool          `koanf:"verification_enabled"`
	VerificationInterval time.Duration `koanf:"verification_interval"`
	VerificationTimeout  time.Duration `koanf:"verification_timeout"`
	SeedOnStartup        bool          `koanf:"seed_on_startup"`

	AccessThreshold   int           `koanf:"access_threshold"`
	AccessWindow      time.Duration `koanf:"access_window"`
	MaxTrackedSources int           `koanf:"max_tracked_sources"`

	BridgeMarker      string `koanf:"bridge_marker"`
	HighRiskThreshold int    `koanf:"high_risk_threshold"`

	PermissionKeywords []string `koanf:"permission_keywords"`
	TrustedPackages    []string `koanf:"trusted_packages"`
}

// AuditConfig configures the persistent audit log.
type AuditConfig struct {
	Driver          string        `koanf:"driver"`
	Path            string        `koanf:"path"`
	TimestampLayout string        `koanf:"timestamp_layout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
}

// TelemetryConfig groups the best-effort notification channels.
type TelemetryConfig struct {
	SendTimeout time.Duration         `koanf:"send_timeout"`
	UDP         UDPTelemetryConfig    `koanf:"udp"`
	Webhook     WebhookNotifierConfig `koanf:"webhook"`
	NATS        NATSTelemetryConfig   `koanf:"nats"`
}

// UDPTelemetryConfig configures the dashboard datagram feed.
type UDPTelemetryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Address string `koanf:"address"`
	App     string `koanf:"app"`
}

// WebhookNotifierConfig holds generic webhook notification settings.
type WebhookNotifierConfig struct {
	Enabled     bool              `koanf:"enabled"`
	WebhookURL  string            `koanf:"webhook_url"`
	RateLimitMs int               `koanf:"rate_limit_ms"`
	MinRisk     int               `koanf:"min_risk"`
	Headers     map[string]string `koanf:"headers"`
}

// NATSTelemetryConfig configures event publishing to NATS. Only honored in
// builds with the nats tag.
type NATSTelemetryConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// ServerConfig configures the operational HTTP endpoint (health, metrics, status).
type ServerConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
func Load() (*Config, error) {
	return LoadWithKoanf()
}
