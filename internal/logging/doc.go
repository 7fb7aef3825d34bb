// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package logging provides the zerolog-based structured logging used across LocShield.
//
// The package offers:
//   - A global zerolog logger configured once from main (JSON or console output)
//   - Context-aware logging with correlation and run IDs
//   - A slog adapter so the suture supervisor logs through zerolog
//   - DetectionLogger, a fixed field layout for classified security events
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("adb", path).Msg("Starting LocShield")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Probe failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
