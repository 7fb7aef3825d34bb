// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateLogSource(); err != nil {
		return err
	}
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	if err := c.validateTelemetry(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLogSource() error {
	s := c.LogSource
	switch s.Type {
	case SourceADB:
		if s.ADBPath == "" {
			return fmt.Errorf("LOCSHIELD_ADB_PATH must not be empty when LOCSHIELD_SOURCE=adb")
		}
	case SourceFile:
		if s.FilePath == "" {
			return fmt.Errorf("LOCSHIELD_LOG_FILE is required when LOCSHIELD_SOURCE=file")
		}
	case SourceStdin:
	default:
		return fmt.Errorf("LOCSHIELD_SOURCE must be one of adb, file, stdin (got %q)", s.Type)
	}
	if s.IdleInterval <= 0 {
		return fmt.Errorf("LOCSHIELD_IDLE_INTERVAL must be positive (got %v)", s.IdleInterval)
	}
	if s.PreflightTimeout <= 0 {
		return fmt.Errorf("LOCSHIELD_PREFLIGHT_TIMEOUT must be positive (got %v)", s.PreflightTimeout)
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.TargetApp == "" {
		return fmt.Errorf("LOCSHIELD_TARGET_APP must not be empty")
	}
	if err := requireKeywords("LOCSHIELD_LOCATION_KEYWORDS", d.LocationKeywords); err != nil {
		return err
	}
	if err := requireKeywords("LOCSHIELD_MOCK_KEYWORDS", d.MockKeywords); err != nil {
		return err
	}
	if err := requireKeywords("LOCSHIELD_CONTEXT_KEYWORDS", d.ContextKeywords); err != nil {
		return err
	}
	if d.CorrelationWindow <= 0 {
		return fmt.Errorf("LOCSHIELD_CORRELATION_WINDOW must be positive (got %v)", d.CorrelationWindow)
	}
	if d.VerificationEnabled {
		if d.VerificationInterval <= 0 {
			return fmt.Errorf("LOCSHIELD_VERIFY_INTERVAL must be positive (got %v)", d.VerificationInterval)
		}
		if d.VerificationTimeout <= 0 || d.VerificationTimeout > 5*time.Second {
			return fmt.Errorf("LOCSHIELD_VERIFY_TIMEOUT must be in (0, 5s] (got %v)", d.VerificationTimeout)
		}
		if len(d.SpoofTools) == 0 {
			return fmt.Errorf("LOCSHIELD_SPOOF_TOOLS must list at least one process when verification is enabled")
		}
	}
	if d.AccessThreshold < 1 {
		return fmt.Errorf("LOCSHIELD_ACCESS_THRESHOLD must be at least 1 (got %d)", d.AccessThreshold)
	}
	if d.AccessWindow <= 0 {
		return fmt.Errorf("LOCSHIELD_ACCESS_WINDOW must be positive (got %v)", d.AccessWindow)
	}
	if d.MaxTrackedSources < 1 {
		return fmt.Errorf("LOCSHIELD_MAX_TRACKED_SOURCES must be at least 1 (got %d)", d.MaxTrackedSources)
	}
	if strings.TrimSpace(d.BridgeMarker) == "" {
		return fmt.Errorf("LOCSHIELD_BRIDGE_MARKER must not be empty")
	}
	if d.HighRiskThreshold < 0 || d.HighRiskThreshold > 10 {
		return fmt.Errorf("LOCSHIELD_HIGH_RISK_THRESHOLD must be between 0 and 10 (got %d)", d.HighRiskThreshold)
	}
	return nil
}

func requireKeywords(name string, values []string) error {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must contain at least one non-empty keyword", name)
}

func (c *Config) validateAudit() error {
	a := c.Audit
	switch a.Driver {
	case DriverDuckDB, DriverSQLite:
		if a.Path == "" {
			return fmt.Errorf("LOCSHIELD_AUDIT_PATH is required for driver %s", a.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("LOCSHIELD_AUDIT_DRIVER must be one of duckdb, sqlite3, memory (got %q)", a.Driver)
	}
	if a.TimestampLayout == "" {
		return fmt.Errorf("LOCSHIELD_AUDIT_TIMESTAMP must not be empty")
	}
	if a.WriteTimeout <= 0 {
		return fmt.Errorf("LOCSHIELD_AUDIT_WRITE_TIMEOUT must be positive (got %v)", a.WriteTimeout)
	}
	return nil
}

func (c *Config) validateTelemetry() error {
	t := c.Telemetry
	if t.SendTimeout <= 0 {
		return fmt.Errorf("LOCSHIELD_TELEMETRY_TIMEOUT must be positive (got %v)", t.SendTimeout)
	}
	if t.UDP.Enabled {
		if _, _, err := net.SplitHostPort(t.UDP.Address); err != nil {
			return fmt.Errorf("LOCSHIELD_UDP_ADDRESS %q is not host:port: %w", t.UDP.Address, err)
		}
	}
	if t.Webhook.Enabled {
		u, err := url.Parse(t.Webhook.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("WEBHOOK_URL must be an absolute http(s) URL when WEBHOOK_ENABLED=true")
		}
		if t.Webhook.RateLimitMs < 0 {
			return fmt.Errorf("WEBHOOK_RATE_LIMIT_MS must not be negative")
		}
	}
	if t.NATS.Enabled {
		if t.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
		}
		if t.NATS.Subject == "" {
			return fmt.Errorf("NATS_SUBJECT is required when NATS_ENABLED=true")
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive (got %v)", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.Logging.Format)
	}
	return nil
}
