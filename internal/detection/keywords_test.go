// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import "testing"

func TestKeywordSet_First(t *testing.T) {
	t.Parallel()

	ks := newKeywordSet([]string{"Fake", "mock", "gpsjoystick", "  ", "FAKE"})
	if ks.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ks.Len())
	}

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"configured case returned", "started fake provider", "Fake", true},
		{"earliest end wins", "mock then fake", "mock", true},
		{"substring inside word", "com.theappninjas.gpsjoystick", "gpsjoystick", true},
		{"no match", "location fix acquired", "", false},
		{"empty input", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ks.First(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("First(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeywordSet_OverlappingKeywords(t *testing.T) {
	t.Parallel()

	ks := newKeywordSet([]string{"has died", "died", "force stop", "force-stop"})
	// Both keywords end on the same rune; the longer one owns the node.
	if got, _ := ks.First("process com.lexa.fakegps has died"); got != "has died" {
		t.Errorf("First() = %q, want %q", got, "has died")
	}
	if got, _ := ks.First("process com.lexa.fakegps died"); got != "died" {
		t.Errorf("First() = %q, want %q", got, "died")
	}

	if !ks.Contains("am force-stop com.lexa.fakegps") {
		t.Error("Contains() = false for force-stop, want true")
	}
}

func TestKeywordSet_FailureLinks(t *testing.T) {
	t.Parallel()

	// "joy" lies on the "gpsjoystick" path and is only reachable through a
	// failure link once the longer keyword diverges.
	ks := newKeywordSet([]string{"gpsjoystick", "joy"})
	if got, ok := ks.First("gpsjoyride"); !ok || got != "joy" {
		t.Errorf("First() = (%q, %v), want (joy, true)", got, ok)
	}
}

func TestKeywordSet_Empty(t *testing.T) {
	t.Parallel()

	ks := newKeywordSet(nil)
	if !ks.Empty() {
		t.Error("Empty() = false, want true")
	}
	if ks.Contains("anything") {
		t.Error("Contains() on empty set = true, want false")
	}
	if got, ok := ks.First("anything"); ok || got != "" {
		t.Errorf("First() on empty set = (%q, %v), want no match", got, ok)
	}
}
