// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package services adapts LocShield's long-running components to the
// suture.Service interface:
//
//   - IngestService runs detection.Engine.Run and ends the tree when the
//     log stream ends.
//   - HTTPServerService runs the operational HTTP endpoint and shuts it down
//     gracefully on cancellation.
//
// Each service implements fmt.Stringer so suture's event hook can name it.
package services
