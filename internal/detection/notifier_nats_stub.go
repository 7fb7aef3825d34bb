// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

//go:build !nats

package detection

import "context"

// NATSConfig configures the NATS notifier.
type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
	Sensor  string
}

// NATSNotifier is a stub when built without the nats tag.
type NATSNotifier struct{}

// NATSAvailable reports whether NATS support is compiled in.
const NATSAvailable = false

// NewNATSNotifier returns ErrNATSNotCompiled.
func NewNATSNotifier(cfg NATSConfig) (*NATSNotifier, error) {
	return nil, ErrNATSNotCompiled
}

// Name returns the notifier name.
func (n *NATSNotifier) Name() string { return "nats" }

// Enabled always returns false.
func (n *NATSNotifier) Enabled() bool { return false }

// Send returns ErrNATSNotCompiled.
func (n *NATSNotifier) Send(ctx context.Context, ev *Event) error { return ErrNATSNotCompiled }

// Close is a no-op.
func (n *NATSNotifier) Close() error { return nil }
