// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package detection is the GPS-spoofing detection engine.
//
// It consumes device log lines one at a time, correlates mock-location
// activity with navigation-app location reads over time, and emits graded
// security events.
//
// Detection Architecture:
//
//	LineSource -> Engine -> Classifier -> Event -> Sink
//	                           |                    |
//	                           v                    v
//	           PulseCorrelator, AccessCounter   audit.Store
//	           Verifier (ProcessProbe)          Notifiers (UDP/webhook/NATS)
//
// Classification Rules (first match wins):
//   - Process exit: a known spoofing tool exits; the hypothesis is lowered
//     and no event is emitted
//   - Mock provider: a mock-location keyword together with a service or
//     provider context word (MOCK_PROVIDER_ACTIVE)
//   - Navigation access: the target app reads location; CONFIRMED_SPOOF
//     while the hypothesis stands, otherwise EXCESSIVE_ACCESS or CLEAN
//   - Self-report: a bridge-marker JSON payload from the monitored app
//     (ATTACK_SIGNAL or AUDIT)
//   - Permission request: a location permission requested by a package
//     outside the allow-list (THIRD_PARTY_ACCESS)
//
// The correlation between a mock-location signal and a later location read
// is temporal, not causal: a read within the correlation window of a signal
// is attributed to the spoofing tool. A process-list probe (Verifier) is used
// to confirm or clear a standing hypothesis when one is available.
//
// Severity:
// Each kind maps to a fixed risk (0-10) and a DREAD breakdown whose sum is
// the composite dread score (0-50). See Score.
//
// Thread Safety:
// The Classifier is owned by the ingestion goroutine. Snapshots, the Sink and
// all notifiers are safe for concurrent use.
package detection
