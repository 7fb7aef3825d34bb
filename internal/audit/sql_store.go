// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver

	"github.com/tomtom215/locshield/internal/logging"
)

// schemas holds the DROP/CREATE statements for each SQL driver. DuckDB has no
// AUTOINCREMENT and takes ids from a sequence instead.
var schemas = map[string]string{
	DriverDuckDB: `
		DROP TABLE IF EXISTS logs;
		DROP SEQUENCE IF EXISTS logs_id_seq;
		CREATE SEQUENCE logs_id_seq START 1;
		CREATE TABLE logs (
			id BIGINT PRIMARY KEY DEFAULT nextval('logs_id_seq'),
			timestamp TEXT NOT NULL,
			event TEXT NOT NULL,
			source TEXT NOT NULL,
			risk INTEGER NOT NULL,
			msg TEXT NOT NULL,
			dread_score INTEGER DEFAULT 0
		);
		CREATE INDEX idx_logs_event ON logs(event)
	`,
	DriverSQLite: `
		DROP TABLE IF EXISTS logs;
		CREATE TABLE logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT NOT NULL,
			event TEXT NOT NULL,
			source TEXT NOT NULL,
			risk INTEGER NOT NULL,
			msg TEXT NOT NULL,
			dread_score INTEGER DEFAULT 0
		);
		CREATE INDEX idx_logs_event ON logs(event)
	`,
}

const insertRecord = `INSERT INTO logs (timestamp, event, source, risk, msg, dread_score) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
}

// Open opens the store selected by cfg and resets the audit table. The memory
// driver never fails.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Driver == DriverMemory {
		return NewMemoryStore(cfg.MaxRecords), nil
	}
	store, err := OpenSQL(ctx, cfg.Driver, cfg.Path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// OpenSQL opens a database with the given driver and resets the audit table.
func OpenSQL(ctx context.Context, driver, path string) (*SQLStore, error) {
	if _, ok := schemas[driver]; !ok {
		return nil, fmt.Errorf("unsupported audit driver %q", driver)
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("audit path is required for driver %q", driver)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s audit database %s: %w", driver, path, err)
	}
	// Both engines serialize writers; a single connection also keeps an
	// in-memory database alive and shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s audit database %s: %w", driver, path, err)
	}

	s := NewSQLStore(db, driver)
	if err := s.Reset(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database. The caller is responsible for calling
// Reset before the first Append.
func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Reset drops and recreates the logs table.
func (s *SQLStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema, ok := schemas[s.driver]
	if !ok {
		return fmt.Errorf("unsupported audit driver %q", s.driver)
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	logging.Info().Str("driver", s.driver).Msg("Audit table recreated")
	return nil
}

// Append inserts rec and returns its id.
func (s *SQLStore) Append(ctx context.Context, rec *Record) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("record cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.db.QueryRowContext(ctx, insertRecord,
		rec.Timestamp, rec.Event, rec.Source, rec.Risk, rec.Msg, rec.DreadScore,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit record: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, timestamp, event, source, risk, msg, COALESCE(dread_score, 0) FROM logs ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Event, &r.Source, &r.Risk, &r.Msg, &r.DreadScore); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}

// CountByEvent returns record counts grouped by event kind.
func (s *SQLStore) CountByEvent(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event, COUNT(*) FROM logs GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("failed to get event counts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		result[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event counts: %w", err)
	}
	return result, nil
}

// Driver returns the database/sql driver name.
func (s *SQLStore) Driver() string { return s.driver }

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
