// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import "testing"

func TestScore_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      Kind
		wantRisk  int
		wantDread Dread
		wantTotal int
	}{
		{KindClean, 1, Dread{1, 1, 1, 1, 1}, 5},
		{KindMockProviderActive, 9, Dread{8, 9, 7, 8, 6}, 38},
		{KindConfirmedSpoof, 10, Dread{10, 10, 8, 9, 7}, 44},
		{KindAttackSignal, 9, Dread{9, 10, 9, 7, 8}, 43},
		{KindExcessiveAccess, 8, Dread{7, 10, 8, 6, 9}, 40},
		{Kind("SOMETHING_NEW"), 5, Dread{5, 5, 5, 5, 5}, 25},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			got := Score(tt.kind)
			if got.Risk != tt.wantRisk {
				t.Errorf("Risk = %d, want %d", got.Risk, tt.wantRisk)
			}
			if got.Dread != tt.wantDread {
				t.Errorf("Dread = %+v, want %+v", got.Dread, tt.wantDread)
			}
			if got.DreadScore() != tt.wantTotal {
				t.Errorf("DreadScore() = %d, want %d", got.DreadScore(), tt.wantTotal)
			}
		})
	}
}

func TestScore_TotalIsSumAndStable(t *testing.T) {
	t.Parallel()

	for _, kind := range AllKinds() {
		a := Score(kind)
		d := a.Dread
		sum := d.Damage + d.Reproducibility + d.Exploitability + d.AffectedUsers + d.Discoverability
		if a.DreadScore() != sum {
			t.Errorf("%s: DreadScore() = %d, sum = %d", kind, a.DreadScore(), sum)
		}
		if a.DreadScore() < 0 || a.DreadScore() > 50 {
			t.Errorf("%s: DreadScore() = %d out of range", kind, a.DreadScore())
		}
		if a.Risk < 0 || a.Risk > 10 {
			t.Errorf("%s: Risk = %d out of range", kind, a.Risk)
		}
		if again := Score(kind); again != a {
			t.Errorf("%s: Score is not stable: %+v then %+v", kind, a, again)
		}
	}
}
