// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

//go:build nats

package detection

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
)

// startNATS runs an in-process NATS server on a random port.
func startNATS(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{
		ServerName: "locshield-test",
		Host:       "127.0.0.1",
		Port:       server.RANDOM_PORT,
		NoLog:      true,
		NoSigs:     true,
	})
	if err != nil {
		t.Fatalf("create NATS server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		t.Fatal("NATS server not ready within timeout")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestNATSNotifier_Publishes(t *testing.T) {
	ns := startNATS(t)

	sub, err := natsgo.Connect(ns.ClientURL())
	if err != nil {
		t.Fatalf("connect subscriber: %v", err)
	}
	defer sub.Close()

	msgs := make(chan *natsgo.Msg, 1)
	if _, err := sub.ChanSubscribe("locshield.events", msgs); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := sub.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	n, err := NewNATSNotifier(NATSConfig{
		Enabled: true,
		URL:     ns.ClientURL(),
		Subject: "locshield.events",
		Sensor:  "LocShield",
	})
	if err != nil {
		t.Fatalf("NewNATSNotifier() error = %v", err)
	}
	defer n.Close()

	ev := newEvent(time.Now(), KindConfirmedSpoof, "Google Maps", "Location read 2s after mock-location signal")
	if err := n.Send(context.Background(), ev); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case m := <-msgs:
		if got := m.Header.Get("kind"); got != "CONFIRMED_SPOOF" {
			t.Errorf("kind header = %q, want %q", got, "CONFIRMED_SPOOF")
		}
		var payload UDPPayload
		if err := json.Unmarshal(m.Data, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.App != "Google Maps" {
			t.Errorf("payload app = %q, want %q", payload.App, "Google Maps")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
}

func TestNATSNotifier_SendAfterClose(t *testing.T) {
	ns := startNATS(t)

	n, err := NewNATSNotifier(NATSConfig{Enabled: true, URL: ns.ClientURL(), Subject: "x"})
	if err != nil {
		t.Fatalf("NewNATSNotifier() error = %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n.Enabled() {
		t.Error("Enabled() = true after Close, want false")
	}
	if err := n.Send(context.Background(), newEvent(time.Now(), KindClean, "x", "y")); err == nil {
		t.Error("Send() after Close error = nil, want error")
	}
}
