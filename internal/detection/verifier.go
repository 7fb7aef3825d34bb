// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/metrics"
)

// ErrProbeTimeout is returned internally when a probe exceeds its deadline.
var ErrProbeTimeout = errors.New("process probe timed out")

// ProbeOutcome is the result of one verification attempt.
type ProbeOutcome int

const (
	// ProbeSkipped means no answer is available: throttled, timed out, failed
	// or short-circuited. Callers must leave the hypothesis unchanged.
	ProbeSkipped ProbeOutcome = iota
	// ProbeRunning means a known spoofing tool is running.
	ProbeRunning
	// ProbeNotRunning means no known spoofing tool is running.
	ProbeNotRunning
)

// String implements fmt.Stringer.
func (o ProbeOutcome) String() string {
	switch o {
	case ProbeRunning:
		return "running"
	case ProbeNotRunning:
		return "not_running"
	default:
		return "skipped"
	}
}

// VerifierConfig configures the verification probe.
type VerifierConfig struct {
	// Candidates are the process names of known spoofing tools.
	Candidates []string
	// Interval is the minimum time between two probes.
	Interval time.Duration
	// Timeout bounds a single probe.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the
	// circuit; BreakerCooldown is how long it stays open.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// DefaultVerifierConfig returns the default probe settings.
func DefaultVerifierConfig() VerifierConfig {
	return VerifierConfig{
		Interval:        2 * time.Second,
		Timeout:         time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Verifier runs a ProcessProbe with throttling, a hard timeout and a circuit
// breaker. It fails open: any problem yields ProbeSkipped.
type Verifier struct {
	probe      ProcessProbe
	candidates []string
	timeout    time.Duration
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[bool]
	name       string
}

type probeResult struct {
	running bool
	err     error
}

// NewVerifier creates a verifier around probe.
func NewVerifier(probe ProcessProbe, cfg VerifierConfig) *Verifier {
	def := DefaultVerifierConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = def.BreakerCooldown
	}

	name := "process-probe"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Probe circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &Verifier{
		probe:      probe,
		candidates: append([]string(nil), cfg.Candidates...),
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(rate.Every(cfg.Interval), 1),
		cb:         cb,
		name:       name,
	}
}

// Verify probes the device unless a probe already ran within the throttle
// interval ending at now.
func (v *Verifier) Verify(ctx context.Context, now time.Time) ProbeOutcome {
	if !v.limiter.AllowN(now, 1) {
		metrics.RecordProbe("throttled", 0)
		return ProbeSkipped
	}

	start := time.Now()
	running, err := v.cb.Execute(func() (bool, error) {
		return v.runWithTimeout(ctx)
	})
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordProbe("rejected", 0)
			metrics.CircuitBreakerRequests.WithLabelValues(v.name, "rejected").Inc()
		case errors.Is(err, ErrProbeTimeout):
			metrics.RecordProbe("timeout", elapsed)
			metrics.CircuitBreakerRequests.WithLabelValues(v.name, "failure").Inc()
			logging.Warn().Dur("timeout", v.timeout).Msg("Process probe timed out; keeping current hypothesis")
		default:
			metrics.RecordProbe("error", elapsed)
			metrics.CircuitBreakerRequests.WithLabelValues(v.name, "failure").Inc()
			logging.Warn().Err(err).Msg("Process probe failed; keeping current hypothesis")
		}
		return ProbeSkipped
	}

	metrics.CircuitBreakerRequests.WithLabelValues(v.name, "success").Inc()
	if running {
		metrics.RecordProbe("running", elapsed)
		return ProbeRunning
	}
	metrics.RecordProbe("not_running", elapsed)
	return ProbeNotRunning
}

// runWithTimeout runs the probe on its own goroutine so a probe that ignores
// its context still cannot stall the caller past the timeout.
func (v *Verifier) runWithTimeout(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	done := make(chan probeResult, 1)
	go func() {
		running, err := v.probe.IsRunning(ctx, v.candidates)
		done <- probeResult{running: running, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return false, fmt.Errorf("%w after %v", ErrProbeTimeout, v.timeout)
		}
		return r.running, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, fmt.Errorf("%w after %v", ErrProbeTimeout, v.timeout)
		}
		return false, ctx.Err()
	}
}

// BreakerState returns the circuit breaker state name.
func (v *Verifier) BreakerState() string {
	return stateToString(v.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
