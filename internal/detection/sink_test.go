// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/locshield/internal/audit"
)

// fakeNotifier implements Notifier for testing
type fakeNotifier struct {
	name    string
	enabled bool
	err     error
	delay   time.Duration

	mu     sync.Mutex
	events []*Event
	closed bool
}

func (f *fakeNotifier) Name() string  { return f.name }
func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) Send(ctx context.Context, ev *Event) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeNotifier) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeNotifier) received() []*Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Event(nil), f.events...)
}

// failingStore implements audit.Store and rejects every append
type failingStore struct {
	audit.MemoryStore
}

func (s *failingStore) Append(ctx context.Context, rec *audit.Record) (int64, error) {
	return 0, errors.New("disk full")
}

func TestSink_RecordPersistsAndNotifies(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStore(100)
	n := &fakeNotifier{name: "fake", enabled: true}
	off := &fakeNotifier{name: "off", enabled: false}
	sink := NewSink(store, SinkConfig{}, n, off)

	ev := testEvent(KindConfirmedSpoof)
	if err := sink.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if !sink.Flush(time.Second) {
		t.Fatal("Flush() timed out")
	}

	recs, _ := store.Recent(context.Background(), 0)
	if len(recs) != 1 {
		t.Fatalf("stored records = %d, want 1", len(recs))
	}
	want := audit.Record{ID: 1, Timestamp: "12:00:05", Event: "CONFIRMED_SPOOF", Source: "Google Maps", Risk: 10, Msg: "test message", DreadScore: 44}
	if recs[0] != want {
		t.Errorf("record = %+v, want %+v", recs[0], want)
	}

	if got := n.received(); len(got) != 1 || got[0] != ev {
		t.Errorf("notifier received %d events, want the recorded event", len(got))
	}
	if got := off.received(); len(got) != 0 {
		t.Errorf("disabled notifier received %d events, want 0", len(got))
	}
}

func TestSink_PersistenceFailureDoesNotBlockTelemetry(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{name: "fake", enabled: true}
	sink := NewSink(&failingStore{}, SinkConfig{}, n)

	if err := sink.Record(context.Background(), testEvent(KindAttackSignal)); err == nil {
		t.Error("Record() error = nil, want persistence error")
	}
	sink.Flush(time.Second)
	if len(n.received()) != 1 {
		t.Error("telemetry skipped after persistence failure")
	}
}

func TestSink_TelemetryFailureDoesNotBlockPersistence(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStore(100)
	slow := &fakeNotifier{name: "slow", enabled: true, delay: time.Hour}
	broken := &fakeNotifier{name: "broken", enabled: true, err: errors.New("unreachable")}
	sink := NewSink(store, SinkConfig{SendTimeout: 50 * time.Millisecond}, slow, broken)

	start := time.Now()
	if err := sink.Record(context.Background(), testEvent(KindMockProviderActive)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("Record() blocked %v on telemetry", elapsed)
	}
	if store.Len() != 1 {
		t.Errorf("stored records = %d, want 1", store.Len())
	}

	// The slow send is cut off by the send timeout.
	if !sink.Flush(time.Second) {
		t.Error("Flush() timed out, want send timeout to bound delivery")
	}
}

func TestSink_CancelledContextStillDelivers(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{name: "fake", enabled: true, delay: 10 * time.Millisecond}
	sink := NewSink(nil, SinkConfig{}, n)

	ctx, cancel := context.WithCancel(context.Background())
	_ = sink.Record(ctx, testEvent(KindAudit))
	cancel()

	sink.Flush(time.Second)
	if len(n.received()) != 1 {
		t.Error("delivery dropped when ingestion context was cancelled")
	}
}

func TestSink_Close(t *testing.T) {
	t.Parallel()

	store := audit.NewMemoryStore(10)
	n := &fakeNotifier{name: "fake", enabled: true}
	sink := NewSink(store, SinkConfig{}, n)

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if !closed {
		t.Error("notifier not closed")
	}
	if _, err := store.Append(context.Background(), &audit.Record{}); !errors.Is(err, audit.ErrClosed) {
		t.Errorf("store Append after Close error = %v, want ErrClosed", err)
	}
	if err := sink.Record(context.Background(), testEvent(KindClean)); err == nil {
		t.Error("Record() after Close error = nil, want error")
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestAuditRecord_Layout(t *testing.T) {
	t.Parallel()

	ev := testEvent(KindAudit)
	rec := AuditRecord(ev, "2006-01-02 15:04:05")
	if rec.Timestamp != "2026-03-01 12:00:05" {
		t.Errorf("Timestamp = %q, want full date-time", rec.Timestamp)
	}
	if rec.Risk != 3 || rec.DreadScore != 14 {
		t.Errorf("record = %+v, want risk 3 dread 14", rec)
	}
}
