// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// UDPConfig configures the datagram notifier.
type UDPConfig struct {
	Enabled bool
	Address string
	// Sensor names this detector instance in every datagram.
	Sensor string
}

// UDPPayload is the datagram body, one per event.
type UDPPayload struct {
	Timestamp  int64  `json:"timestamp"` // Unix milliseconds
	Status     string `json:"status"`
	App        string `json:"app"`
	Risk       int    `json:"risk"`
	Details    string `json:"details"`
	DreadScore int    `json:"dread_score"`
	Dread      Dread  `json:"dread"`
	Sensor     string `json:"sensor,omitempty"`
}

// NewUDPPayload builds the datagram body for ev.
func NewUDPPayload(ev *Event, sensor string) UDPPayload {
	return UDPPayload{
		Timestamp:  ev.Timestamp.UnixMilli(),
		Status:     ev.Kind.String(),
		App:        ev.Source,
		Risk:       ev.Risk,
		Details:    ev.Message,
		DreadScore: ev.DreadScore,
		Dread:      ev.Dread,
		Sensor:     sensor,
	}
}

// UDPNotifier sends each event as a single unacknowledged UDP datagram.
// Loss and reordering are acceptable.
type UDPNotifier struct {
	sensor  string
	enabled bool

	mu   sync.Mutex
	conn net.Conn
}

// NewUDPNotifier creates a notifier. A disabled notifier opens no socket.
func NewUDPNotifier(cfg UDPConfig) (*UDPNotifier, error) {
	n := &UDPNotifier{sensor: cfg.Sensor, enabled: cfg.Enabled}
	if !cfg.Enabled {
		return n, nil
	}
	conn, err := net.Dial("udp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry socket %s: %w", cfg.Address, err)
	}
	n.conn = conn
	return n, nil
}

// Name returns the notifier name.
func (n *UDPNotifier) Name() string { return "udp" }

// Enabled returns whether this notifier is enabled.
func (n *UDPNotifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled && n.conn != nil
}

// Send writes one datagram. The write deadline follows ctx.
func (n *UDPNotifier) Send(ctx context.Context, ev *Event) error {
	body, err := json.Marshal(NewUDPPayload(ev, n.sensor))
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry payload: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.enabled || n.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(time.Second)
	}
	if err := n.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if _, err := n.conn.Write(body); err != nil {
		return fmt.Errorf("failed to send datagram: %w", err)
	}
	return nil
}

// Close releases the socket.
func (n *UDPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	n.enabled = false
	return err
}
