// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package audit

import (
	"context"
	"errors"
)

// Supported drivers.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"
	DriverMemory = "memory"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("audit store closed")

// Record is one row of the audit trail.
type Record struct {
	ID         int64  `json:"id"`
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Source     string `json:"source"`
	Risk       int    `json:"risk"`
	Msg        string `json:"msg"`
	DreadScore int    `json:"dread_score"`
}

// Store is an append-only audit trail.
type Store interface {
	// Reset drops and recreates the audit table.
	Reset(ctx context.Context) error

	// Append writes rec and returns the assigned id. rec.ID is ignored.
	Append(ctx context.Context, rec *Record) (int64, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// CountByEvent returns the number of records per event kind.
	CountByEvent(ctx context.Context) (map[string]int64, error)

	// Driver names the backing implementation.
	Driver() string

	Close() error
}

// Config selects and locates the store.
type Config struct {
	Driver string
	Path   string
	// MaxRecords bounds the memory store. Zero means the default.
	MaxRecords int
}
