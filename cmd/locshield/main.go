// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

// Package main is the entry point for LocShield, a real-time GPS spoofing
// detector for Android devices.
//
// LocShield reads the device log (adb logcat, a file, or stdin), classifies
// every line against a configurable rule table and records the resulting
// security events to an audit store and to best-effort telemetry channels.
//
// # Startup
//
//  1. Configuration: defaults, optional YAML file, environment (koanf v2)
//  2. Preflight: the log source must be reachable; otherwise exit 1
//  3. Audit store: DuckDB or SQLite, falling back to memory on failure
//  4. Telemetry: UDP datagrams, webhook, NATS (build tag nats)
//  5. Process verification through adb (live devices only)
//  6. Supervisor tree: ingestion plus the operational HTTP endpoint
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the root context. The line being classified is
// finished, the log source is closed, in-flight telemetry is flushed and the
// audit store is closed. When the log stream ends on its own (a file read to
// EOF, stdin closed) the process exits 0.
//
// # Example Usage
//
//	export LOCSHIELD_ADB_SERIAL=emulator-5554
//	./locshield
//
// Replaying a captured log:
//
//	LOCSHIELD_SOURCE=file LOCSHIELD_LOG_FILE=capture.txt ./locshield
//	adb logcat -d | LOCSHIELD_SOURCE=stdin ./locshield
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/locshield/internal/api"
	"github.com/tomtom215/locshield/internal/config"
	"github.com/tomtom215/locshield/internal/logging"
	"github.com/tomtom215/locshield/internal/logsource"
	"github.com/tomtom215/locshield/internal/supervisor"
	"github.com/tomtom215/locshield/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	runID := logging.GenerateRunID()
	ctx := logging.ContextWithRunID(context.Background(), runID)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.Ctx(ctx)
	log.Info().
		Str("version", version).
		Str("source", cfg.LogSource.Type).
		Str("target_app", cfg.Detection.TargetApp).
		Dur("correlation_window", cfg.Detection.CorrelationWindow).
		Str("audit_driver", cfg.Audit.Driver).
		Msg("Starting LocShield")

	if err := logsource.Preflight(ctx, sourceConfig(cfg.LogSource)); err != nil {
		log.Fatal().Err(err).Str("source", cfg.LogSource.Type).Msg("Log source preflight failed")
	}

	verifier := buildVerifier(cfg)
	engine, err := buildEngine(ctx, cfg, verifier)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize detection engine")
	}

	if cfg.Detection.SeedOnStartup && verifier != nil {
		outcome := engine.Classifier().Seed(ctx, time.Now())
		log.Info().Str("outcome", outcome.String()).Msg("Startup process probe finished")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDetectionService(services.NewIngestService(engine))

	if cfg.Server.Enabled {
		handler := api.NewHandler(engine, engine.AuditStore(), version)
		server := &http.Server{
			Addr: net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
			Handler: api.NewRouter(handler, api.RouterConfig{
				RateLimitReqs:   cfg.Server.RateLimitReqs,
				RateLimitWindow: cfg.Server.RateLimitWindow,
				Timeout:         cfg.Server.Timeout,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
		log.Info().Str("addr", server.Addr).Msg("Operational HTTP endpoint enabled")
	}

	serveErr := tree.Serve(ctx)
	switch {
	case serveErr == nil:
		log.Info().Msg("Log stream ended")
	case errors.Is(serveErr, context.Canceled):
		log.Info().Msg("Shutdown signal received")
	default:
		log.Error().Err(serveErr).Msg("Supervisor tree stopped with error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			log.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err := engine.Close(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
	log.Info().Msg("LocShield stopped")

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		os.Exit(1)
	}
}
