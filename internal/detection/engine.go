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
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/locshield/internal/audit"
	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/metrics"
)

// ErrStreamEnded is returned by Run when the log source reports end of stream.
var ErrStreamEnded = errors.New("log stream ended")

// EngineConfig configures the ingestion loop.
type EngineConfig struct {
	// IdleInterval is how long Run sleeps after an empty read.
	IdleInterval time.Duration
}

// DefaultEngineConfig returns sensible defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{IdleInterval: 100 * time.Millisecond}
}

// Engine drives ingestion: it pulls lines from a LineSource, classifies them
// and hands every event to the Sink.
type Engine struct {
	open       SourceOpener
	classifier *Classifier
	sink       *Sink
	idle       time.Duration
	now        func() time.Time

	running      atomic.Bool
	metricsStore *EngineMetrics
}

// EngineMetrics tracks ingestion counters for the status endpoint.
type EngineMetrics struct {
	mu           sync.RWMutex
	Runs         int64
	LinesRead    int64
	EmptyReads   int64
	EventsByKind map[Kind]int64
	LastLineAt   time.Time
	LastEventAt  time.Time
	LastError    string
}

// EngineStatus is a point-in-time view of the engine.
type EngineStatus struct {
	Running      bool               `json:"running"`
	Runs         int64              `json:"runs"`
	LinesRead    int64              `json:"lines_read"`
	EmptyReads   int64              `json:"empty_reads"`
	EventsByKind map[Kind]int64     `json:"events_by_kind"`
	LastLineAt   *time.Time         `json:"last_line_at,omitempty"`
	LastEventAt  *time.Time         `json:"last_event_at,omitempty"`
	LastError    string             `json:"last_error,omitempty"`
	Classifier   ClassifierSnapshot `json:"classifier"`
	AuditDriver  string             `json:"audit_driver,omitempty"`
}

// NewEngine creates an engine. open is called once per Run.
func NewEngine(open SourceOpener, classifier *Classifier, sink *Sink, cfg EngineConfig) *Engine {
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = DefaultEngineConfig().IdleInterval
	}
	return &Engine{
		open:       open,
		classifier: classifier,
		sink:       sink,
		idle:       cfg.IdleInterval,
		now:        time.Now,
		metricsStore: &EngineMetrics{
			EventsByKind: make(map[Kind]int64),
		},
	}
}

// SetClock replaces the wall clock used to timestamp lines. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// AuditStore returns the store events are persisted to, or nil.
func (e *Engine) AuditStore() audit.Store {
	if e.sink == nil {
		return nil
	}
	return e.sink.Store()
}

// Run ingests until the source ends, ctx is cancelled or the source fails.
// It returns ErrStreamEnded at end of stream and ctx.Err() on cancellation.
// The source is closed before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	src, err := e.open(ctx)
	if err != nil {
		metrics.RecordIngestionRun("open_failed")
		e.setError(err)
		return fmt.Errorf("open log source: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close log source")
		}
	}()

	e.running.Store(true)
	defer e.running.Store(false)
	e.metricsStore.mu.Lock()
	e.metricsStore.Runs++
	e.metricsStore.mu.Unlock()

	logger := logging.Ctx(ctx)
	logger.Info().Msg("Ingestion started")

	err = e.loop(ctx, src)
	switch {
	case errors.Is(err, ErrStreamEnded):
		metrics.RecordIngestionRun("eof")
		logger.Info().Msg("Log stream ended")
	case ctx.Err() != nil:
		metrics.RecordIngestionRun("cancelled")
		logger.Info().Msg("Ingestion stopped")
	default:
		metrics.RecordIngestionRun("error")
		e.setError(err)
		logger.Error().Err(err).Msg("Ingestion failed")
	}
	return err
}

func (e *Engine) loop(ctx context.Context, src LineSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrStreamEnded
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read log source: %w", err)
		}

		if line == "" {
			e.recordEmptyRead()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.idle):
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// The current line finishes even if shutdown starts mid-way.
		e.ProcessLine(context.WithoutCancel(ctx), line)
	}
}

// ProcessLine classifies one line and records the resulting event, if any.
func (e *Engine) ProcessLine(ctx context.Context, line string) *Event {
	now := e.now()
	metrics.LinesRead.Inc()
	e.metricsStore.mu.Lock()
	e.metricsStore.LinesRead++
	e.metricsStore.LastLineAt = now
	e.metricsStore.mu.Unlock()

	ev := e.classifier.Classify(ctx, line, now)
	if ev == nil {
		return nil
	}

	e.metricsStore.mu.Lock()
	e.metricsStore.EventsByKind[ev.Kind]++
	e.metricsStore.LastEventAt = now
	e.metricsStore.mu.Unlock()

	if e.sink != nil {
		_ = e.sink.Record(ctx, ev) // logged by the sink
	}
	return ev
}

func (e *Engine) recordEmptyRead() {
	metrics.EmptyReads.Inc()
	e.metricsStore.mu.Lock()
	e.metricsStore.EmptyReads++
	e.metricsStore.mu.Unlock()
}

func (e *Engine) setError(err error) {
	e.metricsStore.mu.Lock()
	e.metricsStore.LastError = err.Error()
	e.metricsStore.mu.Unlock()
}

// Running reports whether Run is currently ingesting.
func (e *Engine) Running() bool { return e.running.Load() }

// Status returns a snapshot of the engine.
func (e *Engine) Status() EngineStatus {
	m := e.metricsStore
	m.mu.RLock()
	st := EngineStatus{
		Running:      e.Running(),
		Runs:         m.Runs,
		LinesRead:    m.LinesRead,
		EmptyReads:   m.EmptyReads,
		EventsByKind: make(map[Kind]int64, len(m.EventsByKind)),
		LastError:    m.LastError,
	}
	for k, v := range m.EventsByKind {
		st.EventsByKind[k] = v
	}
	if !m.LastLineAt.IsZero() {
		t := m.LastLineAt
		st.LastLineAt = &t
	}
	if !m.LastEventAt.IsZero() {
		t := m.LastEventAt
		st.LastEventAt = &t
	}
	m.mu.RUnlock()

	st.Classifier = e.classifier.Snapshot()
	if store := e.AuditStore(); store != nil {
		st.AuditDriver = store.Driver()
	}
	return st
}

// Close flushes telemetry and releases the sink's notifiers and store.
func (e *Engine) Close() error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Close()
}
