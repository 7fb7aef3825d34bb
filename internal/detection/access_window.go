// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// AccessCounter counts accesses per source over a trailing time window.
//
// Each source keeps the exact timestamps of its accesses; entries older than
// the window are pruned lazily whenever the source is touched. The set of
// tracked sources is an LRU bounded by maxSources, so a flood of distinct
// source names cannot grow memory without limit.
type AccessCounter struct {
	window  time.Duration
	sources *lru.Cache[string, []time.Time]
}

// NewAccessCounter creates a counter with the given trailing window.
func NewAccessCounter(window time.Duration, maxSources int) (*AccessCounter, error) {
	if window <= 0 {
		return nil, fmt.Errorf("access window must be positive, got %v", window)
	}
	cache, err := lru.New[string, []time.Time](maxSources)
	if err != nil {
		return nil, fmt.Errorf("create access window cache: %w", err)
	}
	return &AccessCounter{window: window, sources: cache}, nil
}

// Window returns the trailing window duration.
func (c *AccessCounter) Window() time.Duration { return c.window }

// RecordAccess appends now to the source's window, drops entries older than
// the window relative to now, and returns the remaining count (including the
// access just recorded).
func (c *AccessCounter) RecordAccess(source string, now time.Time) int {
	stamps, _ := c.sources.Get(source)
	stamps = c.prune(append(stamps, now), now)
	c.sources.Add(source, stamps)
	return len(stamps)
}

// Sources returns the number of tracked sources.
func (c *AccessCounter) Sources() int { return c.sources.Len() }

func (c *AccessCounter) expired(ts, now time.Time) bool {
	return now.Sub(ts) > c.window
}

// prune filters stamps in place. Timestamps are normally appended in order,
// but a stepped wall clock can break that, so every entry is checked.
func (c *AccessCounter) prune(stamps []time.Time, now time.Time) []time.Time {
	kept := stamps[:0]
	for _, ts := range stamps {
		if !c.expired(ts, now) {
			kept = append(kept, ts)
		}
	}
	return kept
}
