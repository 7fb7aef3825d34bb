// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package metrics defines the Prometheus instrumentation for LocShield.
//
// All collectors are registered on the default registry through promauto, so
// they are exposed by the /metrics handler without further wiring. The helper
// functions (RecordEvent, RecordProbe, RecordSinkFailure, ...) are what the
// detection pipeline calls; the exported collectors remain available for tests.
package metrics
