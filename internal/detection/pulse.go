// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"sync"
	"time"
)

// PulseState is a point-in-time view of the pulse correlator.
type PulseState struct {
	// LastFakeSignalAt is the time of the most recent mock-location signal.
	// The zero value means no signal has been seen.
	LastFakeSignalAt time.Time `json:"last_fake_signal_at"`

	// HypothesisActive is true while a spoofing tool is believed to be running.
	HypothesisActive bool `json:"hypothesis_active"`

	// Verified is true once a process-list probe has confirmed the current
	// hypothesis.
	Verified bool `json:"verified"`
}

// PulseCorrelator tracks the most recent mock-location activity and the
// spoofing hypothesis it implies.
//
// The hypothesis is raised only by a mock-location signal or a positive probe
// and lowered only by a negative probe or process-exit evidence. Elapsed time
// never clears it; time only decides whether a later location read is recent
// enough to correlate without a probe.
type PulseCorrelator struct {
	mu    sync.RWMutex
	state PulseState
}

// NewPulseCorrelator returns a correlator with no signal and no hypothesis.
func NewPulseCorrelator() *PulseCorrelator {
	return &PulseCorrelator{}
}

// SignalFakeActivity records a mock-location signal at now and raises the
// hypothesis. A fresh signal supersedes any earlier probe confirmation.
func (p *PulseCorrelator) SignalFakeActivity(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LastFakeSignalAt = now
	p.state.HypothesisActive = true
	p.state.Verified = false
}

// IsRecent reports whether a signal was seen within window before now.
func (p *PulseCorrelator) IsRecent(now time.Time, window time.Duration) bool {
	delta, ok := p.Since(now)
	return ok && delta <= window
}

// Since returns the time elapsed between the last signal and now, and false
// when no signal has been recorded.
func (p *PulseCorrelator) Since(now time.Time) (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state.LastFakeSignalAt.IsZero() {
		return 0, false
	}
	return now.Sub(p.state.LastFakeSignalAt), true
}

// Confirm raises the hypothesis on positive probe evidence. It reports
// whether the hypothesis was previously inactive.
func (p *PulseCorrelator) Confirm() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	raised := !p.state.HypothesisActive
	p.state.HypothesisActive = true
	p.state.Verified = true
	return raised
}

// Demote lowers the hypothesis on negative evidence. It reports whether the
// hypothesis was previously active.
func (p *PulseCorrelator) Demote() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	lowered := p.state.HypothesisActive
	p.state.HypothesisActive = false
	p.state.Verified = false
	return lowered
}

// Active reports whether the hypothesis is standing.
func (p *PulseCorrelator) Active() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.HypothesisActive
}

// Verified reports whether a probe has confirmed the standing hypothesis.
func (p *PulseCorrelator) Verified() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.HypothesisActive && p.state.Verified
}

// Snapshot returns a copy of the current state.
func (p *PulseCorrelator) Snapshot() PulseState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}
