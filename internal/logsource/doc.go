// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package logsource provides the device log streams the detection engine
// ingests.
//
// Sources:
//   - ADBSource: "adb [-s serial] logcat -v threadtime -T 1" on an attached device
//   - FileSource: a captured log file, optionally followed like tail -f
//   - ReaderSource: any io.Reader, typically stdin
//
// Every source implements detection.LineSource: Next never blocks on the
// device. It returns a line when one is buffered, ("", nil) when none is, and
// io.EOF once the stream has ended. Blank lines are dropped.
//
// logcat starts at the newest buffered line, never the ring buffer history.
// When the supervisor restarts ingestion, the ADB opener restarts logcat at
// the timestamp of the last line it delivered and drops lines it already
// delivered, so nothing is classified or audited twice.
//
// Preflight checks that the configured source is reachable before ingestion
// starts; its failure is fatal at startup.
package logsource
