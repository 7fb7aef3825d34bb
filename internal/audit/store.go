// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package audit

import (
	"context"
	"fmt"
	"sync"
)

const defaultMaxRecords = 10000

// MemoryStore implements Store in memory. Once full, the oldest tenth of the
// records is discarded to make room.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
	maxLen  int
	closed  bool
}

// NewMemoryStore creates an empty in-memory store holding at most maxLen records.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = defaultMaxRecords
	}
	return &MemoryStore{
		records: make([]Record, 0, min(maxLen, 1024)),
		maxLen:  maxLen,
	}
}

// Reset discards every record and restarts ids at 1.
func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.records = s.records[:0]
	s.nextID = 0
	return nil
}

// Append stores a copy of rec.
func (s *MemoryStore) Append(ctx context.Context, rec *Record) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("record cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}

	if len(s.records) >= s.maxLen {
		drop := max(s.maxLen/10, 1)
		s.records = append(s.records[:0], s.records[drop:]...)
	}

	s.nextID++
	r := *rec
	r.ID = s.nextID
	s.records = append(s.records, r)
	return r.ID, nil
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// CountByEvent returns record counts grouped by event kind.
func (s *MemoryStore) CountByEvent(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	counts := make(map[string]int64)
	for i := range s.records {
		counts[s.records[i].Event]++
	}
	return counts, nil
}

// Driver returns "memory".
func (s *MemoryStore) Driver() string { return DriverMemory }

// Close marks the store closed. Records are kept for inspection in tests.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
