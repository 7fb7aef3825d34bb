// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

/*
Package config loads and validates LocShield configuration.

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, locshield.yaml, or /etc/locshield/config.yaml
 3. Environment variables from an explicit mapping table

# Sections

  - log_source: where device log lines come from (adb logcat, a file, stdin)
  - detection: rule keywords, correlation window, probe throttle and timeout,
    access-window threshold, self-report marker, permission allow-list
  - audit: audit store driver (duckdb, sqlite3, memory) and path
  - telemetry: UDP dashboard feed, optional webhook and NATS publishing
  - server: health/metrics/status HTTP endpoint
  - logging: zerolog level and format

# Example

	detection:
	  correlation_window: 15s
	  access_threshold: 50
	  mock_keywords: [fake, mock, lexa, gpsjoystick, flygps]
	audit:
	  driver: sqlite3
	  path: /var/lib/locshield/locshield.db

List settings may be given in the environment as comma-separated values:

	LOCSHIELD_MOCK_KEYWORDS=fake,mock,joystick
*/
package config
