// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"testing"
	"time"
)

func TestNewAccessCounter_InvalidWindow(t *testing.T) {
	t.Parallel()

	if _, err := NewAccessCounter(0, 10); err == nil {
		t.Error("NewAccessCounter(0) error = nil, want error")
	}
	if _, err := NewAccessCounter(time.Minute, 0); err == nil {
		t.Error("NewAccessCounter(size 0) error = nil, want error")
	}
}

func TestAccessCounter_RecordAccess(t *testing.T) {
	t.Parallel()

	c, err := NewAccessCounter(10*time.Minute, 16)
	if err != nil {
		t.Fatalf("NewAccessCounter() error = %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		if got := c.RecordAccess("maps", base.Add(time.Duration(i)*time.Second)); got != i {
			t.Errorf("RecordAccess #%d = %d, want %d", i, got, i)
		}
	}

	// Exactly at the window edge the first access is still counted.
	edge := base.Add(time.Second + 10*time.Minute)
	if got := c.RecordAccess("maps", edge); got != 6 {
		t.Errorf("RecordAccess at edge = %d, want 6", got)
	}

	// One second later the first access has aged out.
	if got := c.RecordAccess("maps", edge.Add(time.Second)); got != 6 {
		t.Errorf("RecordAccess after expiry = %d, want 6", got)
	}
}

func TestAccessCounter_NeverCountsExpired(t *testing.T) {
	t.Parallel()

	window := time.Minute
	c, err := NewAccessCounter(window, 16)
	if err != nil {
		t.Fatalf("NewAccessCounter() error = %v", err)
	}
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var stamps []time.Time
	for i := 0; i < 200; i++ {
		now := base.Add(time.Duration(i) * 7 * time.Second)
		stamps = append(stamps, now)
		got := c.RecordAccess("src", now)

		want := 0
		for _, ts := range stamps {
			if now.Sub(ts) <= window {
				want++
			}
		}
		if got != want {
			t.Fatalf("RecordAccess at step %d = %d, want %d", i, got, want)
		}
	}
}

func TestAccessCounter_SourcesIndependent(t *testing.T) {
	t.Parallel()

	c, err := NewAccessCounter(time.Minute, 16)
	if err != nil {
		t.Fatalf("NewAccessCounter() error = %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordAccess("a", now)
	if got := c.RecordAccess("b", now); got != 1 {
		t.Errorf("RecordAccess(b) = %d, want 1", got)
	}
	if got := c.RecordAccess("a", now); got != 2 {
		t.Errorf("RecordAccess(a) = %d, want 2", got)
	}
	if got := c.Sources(); got != 2 {
		t.Errorf("Sources() = %d, want 2", got)
	}
}

func TestAccessCounter_BoundedSources(t *testing.T) {
	t.Parallel()

	c, err := NewAccessCounter(time.Minute, 2)
	if err != nil {
		t.Fatalf("NewAccessCounter() error = %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c.RecordAccess("a", now)
	c.RecordAccess("b", now)
	c.RecordAccess("c", now)

	if got := c.Sources(); got != 2 {
		t.Errorf("Sources() = %d, want 2", got)
	}
	// "a" was evicted, so its history starts over.
	if got := c.RecordAccess("a", now); got != 1 {
		t.Errorf("RecordAccess(a) after eviction = %d, want 1", got)
	}
}
