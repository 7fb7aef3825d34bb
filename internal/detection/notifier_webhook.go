// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// WebhookConfig configures the generic webhook notifier.
type WebhookConfig struct {
	WebhookURL string
	// Headers are added to every request, typically for authentication.
	Headers map[string]string
	Enabled bool
	// RateLimitMs is the minimum spacing between two posts. Zero means 500ms.
	RateLimitMs int
	// MinRisk drops events below this risk. Zero forwards everything.
	MinRisk int
	// Timeout bounds one HTTP exchange. Zero means 10s.
	Timeout time.Duration
}

// WebhookPayload is the JSON body posted for each event.
type WebhookPayload struct {
	EventType string    `json:"event_type"` // always "security_event"
	Source    string    `json:"source"`     // always "locshield"
	SentAt    time.Time `json:"sent_at"`
	Event     *Event    `json:"event"`
}

// WebhookNotifier posts events as JSON to a generic HTTP endpoint. Posts are
// spaced by a token-bucket limiter; a caller waiting on the limiter gives up
// when its context ends.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	enabled bool
	minRisk int
	client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookNotifier creates a webhook notifier from config.
func NewWebhookNotifier(config WebhookConfig) *WebhookNotifier {
	spacing := time.Duration(config.RateLimitMs) * time.Millisecond
	if spacing <= 0 {
		spacing = 500 * time.Millisecond
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}

	return &WebhookNotifier{
		url:     strings.TrimSpace(config.WebhookURL),
		headers: headers,
		enabled: config.Enabled,
		minRisk: config.MinRisk,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
	}
}

// Name returns the notifier name.
func (n *WebhookNotifier) Name() string { return "webhook" }

// Enabled reports whether the notifier is switched on and has a URL.
func (n *WebhookNotifier) Enabled() bool { return n.enabled && n.url != "" }

// Send posts ev. Events below the configured minimum risk are dropped
// without error.
func (n *WebhookNotifier) Send(ctx context.Context, ev *Event) error {
	if !n.Enabled() || ev.Risk < n.minRisk {
		return nil
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit: %w", err)
	}

	body, err := json.Marshal(WebhookPayload{
		EventType: "security_event",
		Source:    "locshield",
		SentAt:    time.Now().UTC(),
		Event:     ev,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "locshield")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
