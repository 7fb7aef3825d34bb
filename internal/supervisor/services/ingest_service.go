// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/locshield/internal/detection"
	"github.com/tomtom215/locshield/internal/logging"
)

// Ingestor is satisfied by *detection.Engine.
type Ingestor interface {
	// Run reads and classifies log lines until the stream ends or ctx is
	// cancelled.
	Run(ctx context.Context) error
}

// IngestService supervises the ingestion loop. It is the only goroutine that
// drives the classifier, so the tree must hold exactly one.
//
// A stream that ends normally (file read to EOF, stdin closed) terminates the
// whole supervisor tree so the process can exit cleanly. Any other error is
// returned to suture, which restarts the service and re-opens the source.
type IngestService struct {
	engine Ingestor
	name   string
}

// NewIngestService wraps engine.
func NewIngestService(engine Ingestor) *IngestService {
	return &IngestService{
		engine: engine,
		name:   "ingest",
	}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	err := s.engine.Run(ctx)
	switch {
	case errors.Is(err, detection.ErrStreamEnded):
		logging.Info().Str("service", s.name).Msg("Log stream ended; stopping")
		return suture.ErrTerminateSupervisorTree
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		logging.Warn().Err(err).Str("service", s.name).Msg("Ingestion failed; restarting")
		return err
	}
}

// String implements fmt.Stringer.
func (s *IngestService) String() string {
	return s.name
}
