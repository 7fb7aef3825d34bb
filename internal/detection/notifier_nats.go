// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

//go:build nats

package detection

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/locshield/internal/logging"
)

// NATSConfig configures the NATS notifier.
type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
	Sensor  string
}

// NATSNotifier publishes each event to a core NATS subject through Watermill.
// JetStream is not used: telemetry is best-effort and needs no stream.
type NATSNotifier struct {
	publisher message.Publisher
	subject   string
	sensor    string

	mu     sync.RWMutex
	closed bool
}

// NATSAvailable reports whether NATS support is compiled in.
const NATSAvailable = true

// NewNATSNotifier connects to cfg.URL. The connection retries in the
// background, so an unreachable server does not fail startup.
func NewNATSNotifier(cfg NATSConfig) (*NATSNotifier, error) {
	logger := watermill.NewStdLogger(false, false)

	natsOpts := []natsgo.Option{
		natsgo.Name("locshield"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logging.Warn().Err(err).Msg("NATS telemetry disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logging.Info().Str("url", nc.ConnectedUrl()).Msg("NATS telemetry reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &NATSNotifier{publisher: pub, subject: cfg.Subject, sensor: cfg.Sensor}, nil
}

// Name returns the notifier name.
func (n *NATSNotifier) Name() string { return "nats" }

// Enabled returns whether the notifier is open.
func (n *NATSNotifier) Enabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return !n.closed
}

// Send publishes the datagram payload for ev.
func (n *NATSNotifier) Send(ctx context.Context, ev *Event) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return fmt.Errorf("nats notifier is closed")
	}

	data, err := json.Marshal(NewUDPPayload(ev, n.sensor))
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("kind", ev.Kind.String())
	msg.Metadata.Set("source", ev.Source)
	msg.Metadata.Set("risk", strconv.Itoa(ev.Risk))

	if err := n.publisher.Publish(n.subject, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", n.subject, err)
	}
	return nil
}

// Close shuts down the publisher.
func (n *NATSNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.publisher.Close()
}
