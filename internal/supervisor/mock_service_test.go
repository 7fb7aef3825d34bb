// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// mockService is a controllable suture.Service.
type mockService struct {
	name      string
	starts    atomic.Int32
	failFirst int32         // fail this many starts before running
	exitWith  error         // returned immediately once failFirst is used up
	exitAfter time.Duration // delay before returning exitWith
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.starts.Add(1)
	if n <= m.failFirst {
		return errors.New("simulated failure")
	}
	if m.exitWith != nil {
		select {
		case <-time.After(m.exitAfter):
			return m.exitWith
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) startCount() int32 { return m.starts.Load() }

func (m *mockService) String() string { return m.name }
