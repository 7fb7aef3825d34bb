// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"errors"
	"time"
)

// Kind identifies the class of a security event. The set is closed.
type Kind string

const (
	// KindClean is a navigation-app location read with no correlated threat.
	KindClean Kind = "CLEAN"

	// KindMockProviderActive means a mock-location provider started or is active.
	KindMockProviderActive Kind = "MOCK_PROVIDER_ACTIVE"

	// KindConfirmedSpoof means the navigation app read location while the
	// spoofing hypothesis was standing.
	KindConfirmedSpoof Kind = "CONFIRMED_SPOOF"

	// KindExcessiveAccess means a source exceeded the access threshold within
	// the trailing window.
	KindExcessiveAccess Kind = "EXCESSIVE_ACCESS"

	// KindAttackSignal is a high-risk self-report from the monitored application.
	KindAttackSignal Kind = "ATTACK_SIGNAL"

	// KindAudit is an informational, lower-risk self-report.
	KindAudit Kind = "AUDIT"

	// KindThirdPartyAccess means a package outside the allow-list requested a
	// location permission.
	KindThirdPartyAccess Kind = "THIRD_PARTY_ACCESS"
)

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// AllKinds lists every event kind in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindClean,
		KindMockProviderActive,
		KindConfirmedSpoof,
		KindExcessiveAccess,
		KindAttackSignal,
		KindAudit,
		KindThirdPartyAccess,
	}
}

// Dread holds the five DREAD sub-scores, each 1-10.
type Dread struct {
	Damage          int `json:"damage"`
	Reproducibility int `json:"reproducibility"`
	Exploitability  int `json:"exploitability"`
	AffectedUsers   int `json:"affected_users"`
	Discoverability int `json:"discoverability"`
}

// Total returns the composite DREAD score (0-50).
func (d Dread) Total() int {
	return d.Damage + d.Reproducibility + d.Exploitability + d.AffectedUsers + d.Discoverability
}

// Assessment is the severity of one event kind.
type Assessment struct {
	Risk  int   `json:"risk"`
	Dread Dread `json:"dread"`
}

// DreadScore returns the composite DREAD score.
func (a Assessment) DreadScore() int { return a.Dread.Total() }

// Event is a classified security event. Events are created only by the
// Classifier and never mutated afterwards.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Kind       Kind      `json:"kind"`
	Source     string    `json:"source"`
	Risk       int       `json:"risk"`
	DreadScore int       `json:"dread_score"`
	Dread      Dread     `json:"dread"`
	Message    string    `json:"message"`
}

// newEvent builds an event whose severity comes from the severity table.
func newEvent(now time.Time, kind Kind, source, message string) *Event {
	a := Score(kind)
	return &Event{
		Timestamp:  now,
		Kind:       kind,
		Source:     source,
		Risk:       a.Risk,
		DreadScore: a.DreadScore(),
		Dread:      a.Dread,
		Message:    message,
	}
}

// ErrNATSNotCompiled is returned by NewNATSNotifier in builds without the
// nats tag.
var ErrNATSNotCompiled = errors.New("NATS support not compiled in (build with -tags nats)")

// Notifier delivers events to a best-effort telemetry channel.
type Notifier interface {
	// Send delivers one event. Implementations must honor ctx.
	Send(ctx context.Context, event *Event) error

	// Name returns the notifier name for logs and metrics.
	Name() string

	// Enabled reports whether the notifier should receive events.
	Enabled() bool
}

// ProcessProbe reports whether any of the candidate processes is running on
// the monitored device.
type ProcessProbe interface {
	IsRunning(ctx context.Context, candidates []string) (bool, error)
}

// LineSource yields device log lines. Next returns ("", nil) when no line is
// currently available and io.EOF when the stream has ended.
type LineSource interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// SourceOpener opens a fresh LineSource for one ingestion run.
type SourceOpener func(ctx context.Context) (LineSource, error)
