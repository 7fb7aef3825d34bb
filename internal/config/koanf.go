// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"locshield.yaml",
	"locshield.yml",
	"/etc/locshield/config.yaml",
	"/etc/locshield/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		LogSource: LogSourceConfig{
			Type:             SourceADB,
			ADBPath:          "adb",
			LogcatArgs:       []string{"-v", "threadtime", "-T", "1"},
			IdleInterval:     100 * time.Millisecond,
			PreflightTimeout: 5 * time.Second,
		},
		Detection: DetectionConfig{
			TargetApp:        "com.google.android.apps.maps",
			TargetLabel:      "Google Maps",
			LocationKeywords: []string{"location", "gps"},
			MockKeywords:     []string{"fake", "mock", "lexa", "gpsjoystick", "flygps"},
			ContextKeywords:  []string{"start", "service", "provider", "enabled"},
			ExitKeywords:     []string{"has died", "died", "killing", "force stop", "force-stop", "process exited"},
			SpoofTools: []string{
				"com.lexa.fakegps",
				"com.theappninjas.gpsjoystick",
				"com.theappninjas.fakegpsjoystick",
				"com.incorporateapps.fakegps.fre",
				"com.blogspot.newapphorizons.fakegps",
				"com.flygps.app",
			},
			CorrelationWindow:    10 * time.Second,
			VerificationEnabled:  true,
			VerificationInterval: 2 * time.Second,
			VerificationTimeout:  time.Second,
			SeedOnStartup:        true,
			AccessThreshold:      50,
			AccessWindow:         10 * time.Minute,
			MaxTrackedSources:    1024,
			BridgeMarker:         "LOCSHIELD_BRIDGE",
			HighRiskThreshold:    8,
			PermissionKeywords: []string{
				"ACCESS_FINE_LOCATION",
				"ACCESS_COARSE_LOCATION",
				"ACCESS_BACKGROUND_LOCATION",
				"android:fine_location",
				"android:coarse_location",
			},
			TrustedPackages: []string{
				"android",
				"com.android.systemui",
				"com.android.phone",
				"com.android.settings",
				"com.android.location.fused",
				"com.google.android.gms",
				"com.google.android.apps.maps",
			},
		},
		Audit: AuditConfig{
			Driver:          DriverDuckDB,
			Path:            "locshield.db",
			TimestampLayout: "15:04:05",
			WriteTimeout:    2 * time.Second,
		},
		Telemetry: TelemetryConfig{
			SendTimeout: 2 * time.Second,
			UDP: UDPTelemetryConfig{
				Enabled: true,
				Address: "127.0.0.1:9999",
				App:     "LocShield",
			},
			Webhook: WebhookNotifierConfig{
				Enabled:     false,
				RateLimitMs: 500,
				MinRisk:     8,
			},
			NATS: NATSTelemetryConfig{
				Enabled: false,
				URL:     "nats://127.0.0.1:4222",
				Subject: "locshield.events",
			},
		},
		Server: ServerConfig{
			Enabled:         true,
			Host:            "127.0.0.1",
			Port:            9464,
			Timeout:         10 * time.Second,
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with three layers:
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are list settings that arrive from the environment as
// comma-separated strings.
var sliceConfigPaths = []string{
	"log_source.logcat_args",
	"detection.location_keywords",
	"detection.mock_keywords",
	"detection.context_keywords",
	"detection.exit_keywords",
	"detection.spoof_tools",
	"detection.permission_keywords",
	"detection.trusted_packages",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unlisted variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"locshield_source":            "log_source.type",
	"locshield_adb_path":          "log_source.adb_path",
	"locshield_adb_serial":        "log_source.adb_serial",
	"locshield_logcat_args":       "log_source.logcat_args",
	"locshield_log_file":          "log_source.file_path",
	"locshield_follow":            "log_source.follow",
	"locshield_idle_interval":     "log_source.idle_interval",
	"locshield_preflight_timeout": "log_source.preflight_timeout",

	"locshield_target_app":          "detection.target_app",
	"locshield_target_label":        "detection.target_label",
	"locshield_location_keywords":   "detection.location_keywords",
	"locshield_mock_keywords":       "detection.mock_keywords",
	"locshield_context_keywords":    "detection.context_keywords",
	"locshield_exit_keywords":       "detection.exit_keywords",
	"locshield_spoof_tools":         "detection.spoof_tools",
	"locshield_correlation_window":  "detection.correlation_window",
	"locshield_verify":              "detection.verification_enabled",
	"locshield_verify_interval":     "detection.verification_interval",
	"locshield_verify_timeout":      "detection.verification_timeout",
	"locshield_seed_on_startup":     "detection.seed_on_startup",
	"locshield_access_threshold":    "detection.access_threshold",
	"locshield_access_window":       "detection.access_window",
	"locshield_max_tracked_sources": "detection.max_tracked_sources",
	"locshield_bridge_marker":       "detection.bridge_marker",
	"locshield_high_risk_threshold": "detection.high_risk_threshold",
	"locshield_permission_keywords": "detection.permission_keywords",
	"locshield_trusted_packages":    "detection.trusted_packages",
	"locshield_audit_driver":        "audit.driver",
	"locshield_audit_path":          "audit.path",
	"locshield_audit_timestamp":     "audit.timestamp_layout",
	"locshield_audit_write_timeout": "audit.write_timeout",
	"locshield_telemetry_timeout":   "telemetry.send_timeout",
	"locshield_udp_enabled":         "telemetry.udp.enabled",
	"locshield_udp_address":         "telemetry.udp.address",
	"locshield_udp_app":             "telemetry.udp.app",
	"webhook_enabled":               "telemetry.webhook.enabled",
	"webhook_url":                   "telemetry.webhook.webhook_url",
	"webhook_rate_limit_ms":         "telemetry.webhook.rate_limit_ms",
	"webhook_min_risk":              "telemetry.webhook.min_risk",
	"nats_enabled":                  "telemetry.nats.enabled",
	"nats_url":                      "telemetry.nats.url",
	"nats_subject":                  "telemetry.nats.subject",
	"http_enabled":                  "server.enabled",
	"http_host":                     "server.host",
	"http_port":                     "server.port",
	"http_timeout":                  "server.timeout",
	"rate_limit_requests":           "server.rate_limit_reqs",
	"rate_limit_window":             "server.rate_limit_window",
	"log_level":                     "logging.level",
	"log_format":                    "logging.format",
	"log_caller":                    "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
//
// Examples:
//   - LOCSHIELD_ADB_PATH -> log_source.adb_path
//   - LOCSHIELD_CORRELATION_WINDOW -> detection.correlation_window
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
