// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package main

import (
	"context"
	"errors"
	"os"

	"github.com/tomtom215/locshield/internal/audit"
	"github.com/tomtom215/locshield/internal/config"
	"github.com/tomtom215/locshield/internal/detection"
	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/logsource"
	"github.com/tomtom215/locshield/internal/probe"
)

// rulesFromConfig maps the detection section onto the classifier rule table.
func rulesFromConfig(c config.DetectionConfig) detection.Rules {
	return detection.Rules{
		TargetApp:          c.TargetApp,
		TargetLabel:        c.TargetLabel,
		LocationKeywords:   c.LocationKeywords,
		MockKeywords:       c.MockKeywords,
		ContextKeywords:    c.ContextKeywords,
		ExitKeywords:       c.ExitKeywords,
		SpoofTools:         c.SpoofTools,
		CorrelationWindow:  c.CorrelationWindow,
		AccessThreshold:    c.AccessThreshold,
		AccessWindow:       c.AccessWindow,
		MaxTrackedSources:  c.MaxTrackedSources,
		BridgeMarker:       c.BridgeMarker,
		HighRiskThreshold:  c.HighRiskThreshold,
		PermissionKeywords: c.PermissionKeywords,
		TrustedPackages:    c.TrustedPackages,
	}
}

func sourceConfig(c config.LogSourceConfig) logsource.Config {
	return logsource.Config{
		Type:             c.Type,
		ADBPath:          c.ADBPath,
		ADBSerial:        c.ADBSerial,
		LogcatArgs:       c.LogcatArgs,
		FilePath:         c.FilePath,
		Follow:           c.Follow,
		PreflightTimeout: c.PreflightTimeout,
	}
}

// buildVerifier returns the process-probe verifier, or nil when probing is
// disabled. Probing needs a live device, so replayed logs (file, stdin) are
// never probed.
func buildVerifier(cfg *config.Config) *detection.Verifier {
	if !cfg.Detection.VerificationEnabled {
		logging.Info().Msg("Process verification disabled")
		return nil
	}
	if cfg.LogSource.Type != config.SourceADB {
		logging.Info().
			Str("source", cfg.LogSource.Type).
			Msg("Process verification skipped: log source is not a live device")
		return nil
	}
	p := probe.NewADBProbe(cfg.LogSource.ADBPath, cfg.LogSource.ADBSerial, nil)
	return detection.NewVerifier(p, detection.VerifierConfig{
		Candidates: cfg.Detection.SpoofTools,
		Interval:   cfg.Detection.VerificationInterval,
		Timeout:    cfg.Detection.VerificationTimeout,
	})
}

// openAuditStore opens the configured store and falls back to the in-memory
// store if that fails.
func openAuditStore(ctx context.Context, c config.AuditConfig) audit.Store {
	store, err := audit.Open(ctx, audit.Config{Driver: c.Driver, Path: c.Path})
	if err == nil {
		logging.Info().Str("driver", store.Driver()).Str("path", c.Path).Msg("Audit store opened")
		return store
	}
	logging.Error().Err(err).
		Str("driver", c.Driver).
		Str("path", c.Path).
		Msg("Failed to open audit store; falling back to in-memory audit log")
	return audit.NewMemoryStore(0)
}

// buildNotifiers creates the enabled telemetry notifiers. A notifier that
// cannot be created is logged and left out.
func buildNotifiers(c config.TelemetryConfig) []detection.Notifier {
	var notifiers []detection.Notifier

	if c.UDP.Enabled {
		udp, err := detection.NewUDPNotifier(detection.UDPConfig{
			Enabled: true,
			Address: c.UDP.Address,
			Sensor:  c.UDP.App,
		})
		if err != nil {
			logging.Error().Err(err).Str("address", c.UDP.Address).Msg("UDP telemetry disabled")
		} else {
			notifiers = append(notifiers, udp)
		}
	}

	if c.Webhook.Enabled {
		notifiers = append(notifiers, detection.NewWebhookNotifier(detection.WebhookConfig{
			WebhookURL:  c.Webhook.WebhookURL,
			Headers:     c.Webhook.Headers,
			Enabled:     true,
			RateLimitMs: c.Webhook.RateLimitMs,
			MinRisk:     c.Webhook.MinRisk,
		}))
	}

	if c.NATS.Enabled {
		n, err := detection.NewNATSNotifier(detection.NATSConfig{
			Enabled: true,
			URL:     c.NATS.URL,
			Subject: c.NATS.Subject,
			Sensor:  c.UDP.App,
		})
		switch {
		case errors.Is(err, detection.ErrNATSNotCompiled):
			logging.Warn().Msg("NATS telemetry requested but not compiled in (build with -tags nats)")
		case err != nil:
			logging.Error().Err(err).Str("url", c.NATS.URL).Msg("NATS telemetry disabled")
		default:
			notifiers = append(notifiers, n)
		}
	}

	for _, n := range notifiers {
		logging.Info().Str("notifier", n.Name()).Msg("Telemetry notifier enabled")
	}
	return notifiers
}

// buildEngine assembles the classifier, sink and engine. The returned engine
// owns the store and notifiers; Engine.Close releases them.
func buildEngine(ctx context.Context, cfg *config.Config, verifier *detection.Verifier) (*detection.Engine, error) {
	classifier, err := detection.NewClassifier(rulesFromConfig(cfg.Detection), verifier)
	if err != nil {
		return nil, err
	}

	opener, err := logsource.Opener(sourceConfig(cfg.LogSource), os.Stdin)
	if err != nil {
		return nil, err
	}

	store := openAuditStore(ctx, cfg.Audit)
	sink := detection.NewSink(store, detection.SinkConfig{
		TimestampLayout: cfg.Audit.TimestampLayout,
		WriteTimeout:    cfg.Audit.WriteTimeout,
		SendTimeout:     cfg.Telemetry.SendTimeout,
	}, buildNotifiers(cfg.Telemetry)...)

	return detection.NewEngine(opener, classifier, sink, detection.EngineConfig{
		IdleInterval: cfg.LogSource.IdleInterval,
	}), nil
}
