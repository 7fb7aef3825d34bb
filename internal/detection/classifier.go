// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/metrics"
)

// systemSource is the source recorded for mock-location lines that do not
// name a known spoofing tool.
const systemSource = "System/App"

// Classifier turns device log lines into security events.
//
// Classify mutates the pulse and access state and must be called from a single
// goroutine. The read accessors (Snapshot, Pulse) are safe to call concurrently.
type Classifier struct {
	rules    Rules
	match    compiledRules
	pulse    *PulseCorrelator
	access   *AccessCounter
	requests *lru.Cache[string, int]
	verifier *Verifier
	log      *logging.DetectionLogger
}

// ClassifierSnapshot is a point-in-time view of the classifier state.
type ClassifierSnapshot struct {
	Pulse           PulseState `json:"pulse"`
	TrackedSources  int        `json:"tracked_sources"`
	TrackedPackages int        `json:"tracked_packages"`
	ProbeBreaker    string     `json:"probe_breaker,omitempty"`
}

// NewClassifier compiles rules into a classifier. verifier may be nil, in
// which case the hypothesis is never probed.
func NewClassifier(rules Rules, verifier *Verifier) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	access, err := NewAccessCounter(rules.AccessWindow, rules.MaxTrackedSources)
	if err != nil {
		return nil, err
	}
	requests, err := lru.New[string, int](rules.MaxTrackedSources)
	if err != nil {
		return nil, fmt.Errorf("create permission request cache: %w", err)
	}
	return &Classifier{
		rules:    rules,
		match:    rules.compile(),
		pulse:    NewPulseCorrelator(),
		access:   access,
		requests: requests,
		verifier: verifier,
		log:      logging.NewDetectionLogger(),
	}, nil
}

// SetLogger replaces the detection logger. Intended for tests.
func (c *Classifier) SetLogger(l *logging.DetectionLogger) {
	c.log = l
}

// Pulse exposes the pulse correlator.
func (c *Classifier) Pulse() *PulseCorrelator { return c.pulse }

// Snapshot returns the current classifier state.
func (c *Classifier) Snapshot() ClassifierSnapshot {
	s := ClassifierSnapshot{
		Pulse:           c.pulse.Snapshot(),
		TrackedSources:  c.access.Sources(),
		TrackedPackages: c.requests.Len(),
	}
	if c.verifier != nil {
		s.ProbeBreaker = c.verifier.BreakerState()
	}
	return s
}

// Seed probes the device once and raises the hypothesis if a spoofing tool is
// already running. It does nothing without a verifier.
func (c *Classifier) Seed(ctx context.Context, now time.Time) ProbeOutcome {
	if c.verifier == nil {
		return ProbeSkipped
	}
	outcome := c.verifier.Verify(ctx, now)
	if outcome == ProbeRunning && c.pulse.Confirm() {
		c.hypothesisChanged(true, "spoofing tool running at startup")
	}
	return outcome
}

// Classify evaluates one line at time now and returns the resulting event, or
// nil when no rule applies.
func (c *Classifier) Classify(ctx context.Context, line string, now time.Time) *Event {
	lower := strings.ToLower(line)

	if tool, ok := c.match.tools.First(lower); ok && c.match.exit.Contains(lower) {
		if c.pulse.Demote() {
			c.hypothesisChanged(false, tool+" exited")
		}
		return nil
	}

	if kw, ok := c.match.mock.First(lower); ok && c.match.context.Contains(lower) {
		return c.mockActivity(lower, kw, now)
	}

	if strings.Contains(lower, c.match.target) && c.match.location.Contains(lower) {
		return c.targetAccess(ctx, now)
	}

	if strings.Contains(line, c.match.marker) {
		return c.selfReport(line, now)
	}

	if c.match.permission.Contains(lower) {
		if pkg := requestingPackage(line); pkg != "" && !c.match.trusted[pkg] {
			return c.permissionRequest(lower, pkg, now)
		}
	}

	return nil
}

func (c *Classifier) mockActivity(lower, keyword string, now time.Time) *Event {
	source := systemSource
	if tool, ok := c.match.tools.First(lower); ok {
		source = tool
	}
	wasActive := c.pulse.Active()
	c.pulse.SignalFakeActivity(now)
	if !wasActive {
		c.hypothesisChanged(true, "mock-location signal")
	}
	return c.emit(newEvent(now, KindMockProviderActive, source,
		fmt.Sprintf("Mock location provider activity detected (%s)", keyword)))
}

func (c *Classifier) targetAccess(ctx context.Context, now time.Time) *Event {
	recent := c.pulse.IsRecent(now, c.rules.CorrelationWindow)

	if c.pulse.Active() && c.verifier != nil {
		switch c.verifier.Verify(ctx, now) {
		case ProbeRunning:
			if c.pulse.Confirm() {
				c.hypothesisChanged(true, "process probe found spoofing tool")
			}
		case ProbeNotRunning:
			// Demotes even inside the window. Only configured tools are
			// searched for, so an unlisted one is demoted too.
			if c.pulse.Demote() {
				c.hypothesisChanged(false, "process probe found no spoofing tool")
			}
		case ProbeSkipped:
		}
	}

	if c.pulse.Active() {
		if recent {
			delta, _ := c.pulse.Since(now)
			return c.emit(newEvent(now, KindConfirmedSpoof, c.match.label,
				fmt.Sprintf("Location read %v after mock-location signal", delta.Round(time.Millisecond))))
		}
		if c.pulse.Verified() {
			return c.emit(newEvent(now, KindConfirmedSpoof, c.match.label,
				"Location read while spoofing tool verified by process probe"))
		}
	}

	count := c.access.RecordAccess(c.match.label, now)
	metrics.TrackedSources.Set(float64(c.access.Sources()))
	if !c.pulse.Active() && count > c.rules.AccessThreshold {
		return c.emit(newEvent(now, KindExcessiveAccess, c.match.label,
			fmt.Sprintf("Location accessed %d times in %v (threshold %d)",
				count, c.access.Window(), c.rules.AccessThreshold)))
	}
	return c.emit(newEvent(now, KindClean, c.match.label, "Real GPS access verified"))
}

func (c *Classifier) selfReport(line string, now time.Time) *Event {
	report, err := parseSelfReport(line, c.match.marker)
	if err != nil {
		c.log.LogMalformedReport(line, err)
		metrics.MalformedReports.Inc()
		return nil
	}
	kind := KindAudit
	if *report.Risk >= c.rules.HighRiskThreshold {
		kind = KindAttackSignal
	}
	ev := newEvent(now, kind, report.Source, report.message())
	ev.Risk = *report.Risk
	return c.emit(ev)
}

func (c *Classifier) permissionRequest(lower, pkg string, now time.Time) *Event {
	n, _ := c.requests.Get(pkg)
	n++
	c.requests.Add(pkg, n)

	perm, _ := c.match.permission.First(lower)
	return c.emit(newEvent(now, KindThirdPartyAccess, pkg,
		fmt.Sprintf("%s requested %s (request #%d)", pkg, perm, n)))
}

func (c *Classifier) emit(ev *Event) *Event {
	metrics.RecordEvent(ev.Kind.String(), ev.Risk)
	c.log.LogDetection(logging.DetectionRecord{
		Kind:       ev.Kind.String(),
		Source:     ev.Source,
		Risk:       ev.Risk,
		DreadScore: ev.DreadScore,
		Message:    ev.Message,
	})
	return ev
}

func (c *Classifier) hypothesisChanged(active bool, reason string) {
	metrics.SetHypothesis(active)
	c.log.LogHypothesis(active, reason)
}
