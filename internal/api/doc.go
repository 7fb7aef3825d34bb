// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

/*
Package api serves LocShield's operational HTTP surface with the chi router.

Routes:

	GET /healthz          liveness and ingestion state
	GET /metrics          Prometheus exposition
	GET /api/v1/status    engine snapshot (lines read, events per kind, hypothesis)
	GET /api/v1/events    most recent audit records (?limit=1..1000, default 50)
	GET /api/v1/events/summary
	                      audit record count per event kind

Every route is rate limited per client IP with go-chi/httprate. JSON responses
share the APIResponse envelope and are encoded with goccy/go-json.

The surface is read-only and carries no authentication; bind it to loopback
unless it sits behind something that does.
*/
package api
