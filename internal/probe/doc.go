// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package probe checks the monitored device's process table for known GPS
// spoofing tools.
//
// ADBProbe implements detection.ProcessProbe by running "ps" over adb shell.
// It is wrapped by detection.Verifier, which adds throttling, a timeout and a
// circuit breaker, so ADBProbe itself only has to report errors faithfully.
package probe
