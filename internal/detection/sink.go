// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tomtom215/locshield/internal/audit"
	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/metrics"
)

// SinkConfig configures the event sink.
type SinkConfig struct {
	// TimestampLayout formats Event.Timestamp for the audit trail.
	TimestampLayout string
	// WriteTimeout bounds one audit write.
	WriteTimeout time.Duration
	// SendTimeout bounds one notifier delivery.
	SendTimeout time.Duration
}

// DefaultSinkConfig returns the default sink settings.
func DefaultSinkConfig() SinkConfig {
	return SinkConfig{
		TimestampLayout: "15:04:05",
		WriteTimeout:    2 * time.Second,
		SendTimeout:     2 * time.Second,
	}
}

// Sink persists events to the audit store and fans them out to notifiers.
//
// Persistence runs on the caller's goroutine. Each notifier delivery runs on
// its own goroutine with a timeout, so a slow channel never delays detection.
// The two paths are independent: a failure in one does not affect the other.
type Sink struct {
	store audit.Store
	cfg   SinkConfig

	mu        sync.RWMutex
	notifiers []Notifier
	closed    bool

	inflight sync.WaitGroup
}

// NewSink creates a sink over store. A nil store disables persistence.
func NewSink(store audit.Store, cfg SinkConfig, notifiers ...Notifier) *Sink {
	def := DefaultSinkConfig()
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = def.TimestampLayout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = def.SendTimeout
	}
	s := &Sink{store: store, cfg: cfg}
	for _, n := range notifiers {
		s.RegisterNotifier(n)
	}
	return s
}

// RegisterNotifier adds a notifier.
func (s *Sink) RegisterNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
	logging.Info().Str("notifier", n.Name()).Bool("enabled", n.Enabled()).Msg("Registered notifier")
}

// Store returns the audit store, which may be nil.
func (s *Sink) Store() audit.Store { return s.store }

// AuditRecord converts ev to its audit row.
func AuditRecord(ev *Event, layout string) *audit.Record {
	return &audit.Record{
		Timestamp:  ev.Timestamp.Format(layout),
		Event:      ev.Kind.String(),
		Source:     ev.Source,
		Risk:       ev.Risk,
		Msg:        ev.Message,
		DreadScore: ev.DreadScore,
	}
}

// Record persists ev and dispatches it to every enabled notifier. The
// returned error reports a persistence failure, which has already been
// logged; callers may ignore it.
func (s *Sink) Record(ctx context.Context, ev *Event) error {
	if ev == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("sink closed")
	}

	s.dispatch(ctx, ev)
	return s.persist(ctx, ev)
}

func (s *Sink) persist(ctx context.Context, ev *Event) error {
	if s.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.store.Append(ctx, AuditRecord(ev, s.cfg.TimestampLayout))
	metrics.RecordAuditWrite(time.Since(start), err)
	if err != nil {
		metrics.RecordSinkFailure("audit")
		logging.Error().Err(err).
			Str("kind", ev.Kind.String()).
			Str("driver", s.store.Driver()).
			Msg("Failed to persist audit record")
		return fmt.Errorf("persist %s event: %w", ev.Kind, err)
	}
	return nil
}

// dispatch must be called with s.mu held for reading.
func (s *Sink) dispatch(ctx context.Context, ev *Event) {
	// Deliveries outlive the ingestion context so shutdown can flush them.
	base := context.WithoutCancel(ctx)
	for _, n := range s.notifiers {
		if !n.Enabled() {
			continue
		}
		s.inflight.Add(1)
		go func(n Notifier) {
			defer s.inflight.Done()
			sendCtx, cancel := context.WithTimeout(base, s.cfg.SendTimeout)
			defer cancel()
			if err := n.Send(sendCtx, ev); err != nil {
				metrics.RecordSinkFailure(n.Name())
				logging.Warn().Err(err).Str("notifier", n.Name()).Str("kind", ev.Kind.String()).Msg("Failed to send event")
				return
			}
			metrics.TelemetrySent.WithLabelValues(n.Name()).Inc()
		}(n)
	}
}

// Flush waits up to timeout for in-flight deliveries. It reports whether all
// of them finished.
func (s *Sink) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close flushes pending deliveries, then closes every notifier that holds a
// resource and the audit store.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	notifiers := s.notifiers
	s.mu.Unlock()

	if !s.Flush(s.cfg.SendTimeout) {
		logging.Warn().Dur("timeout", s.cfg.SendTimeout).Msg("Telemetry deliveries still pending at shutdown")
	}

	var errs []error
	for _, n := range notifiers {
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close notifier %s: %w", n.Name(), err))
			}
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audit store: %w", err))
		}
	}
	return errors.Join(errs...)
}
