// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package audit persists one record per classified security event.
//
// The audit trail is a single table, logs, with the columns
//
//	id           monotonic, assigned by the store
//	timestamp    TEXT, formatted by the caller (HH:MM:SS by default)
//	event        TEXT, the event kind
//	source       TEXT
//	risk         INTEGER 0-10
//	msg          TEXT
//	dread_score  INTEGER 0-50, default 0
//
// The table is dropped and recreated when a store is opened; no history is
// carried across runs.
//
// # Stores
//
//   - SQLStore: database/sql over DuckDB (driver "duckdb") or SQLite
//     (driver "sqlite3")
//   - MemoryStore: bounded in-process slice, used in tests and as the
//     fallback when the database cannot be opened
//
// # Usage
//
//	store, err := audit.Open(ctx, audit.Config{Driver: audit.DriverDuckDB, Path: "locshield.db"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id, err := store.Append(ctx, &audit.Record{
//	    Timestamp: time.Now().Format("15:04:05"),
//	    Event:     "CONFIRMED_SPOOF",
//	    Source:    "Google Maps",
//	    Risk:      10,
//	    Msg:       "Location read 3s after mock-location signal",
//	    DreadScore: 44,
//	})
//
// Stores are safe for concurrent use, though the detection engine writes from
// a single goroutine.
package audit
