// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/locshield/internal/audit"
	"github.com/tomtom215/locshield/internal/detection"
	"github.com/tomtom215/locshield/internal/validation"
)

// StatusProvider is satisfied by *detection.Engine.
type StatusProvider interface {
	Running() bool
	Status() detection.EngineStatus
}

// RecordReader is satisfied by every audit.Store.
type RecordReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Record, error)
	CountByEvent(ctx context.Context) (map[string]int64, error)
}

// EventSummary is the /api/v1/events/summary payload.
type EventSummary struct {
	Total  int64            `json:"total"`
	ByKind map[string]int64 `json:"by_kind"`
}

// HealthStatus is the /healthz payload.
type HealthStatus struct {
	Status    string  `json:"status"`
	Ingesting bool    `json:"ingesting"`
	Uptime    float64 `json:"uptime_seconds"`
	Version   string  `json:"version,omitempty"`
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	engine    StatusProvider
	records   RecordReader
	version   string
	startTime time.Time
}

// NewHandler creates a handler. records may be nil, in which case the
// /api/v1/events routes report the audit log as unavailable.
func NewHandler(engine StatusProvider, records RecordReader, version string) *Handler {
	return &Handler{
		engine:    engine,
		records:   records,
		version:   version,
		startTime: time.Now(),
	}
}

// Health reports liveness. It answers 503 while the ingestion loop is not
// running (starting up or between supervisor restarts).
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ingesting := h.engine.Running()
	health := HealthStatus{
		Status:    "healthy",
		Ingesting: ingesting,
		Uptime:    time.Since(h.startTime).Seconds(),
		Version:   h.version,
	}
	status := http.StatusOK
	if !ingesting {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, r, status, &APIResponse{Status: "success", Data: health})
}

// Status returns the engine snapshot.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.engine.Status())
}

// eventsRequest holds the validated /api/v1/events query.
type eventsRequest struct {
	Limit int `json:"limit" validate:"min=1,max=1000"`
}

// Events returns the most recent audit records, newest first.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		respondError(w, r, http.StatusServiceUnavailable, "AUDIT_UNAVAILABLE", "Audit log is not available", nil)
		return
	}

	limit, ok := getIntParam(r, "limit", 50)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer", nil)
		return
	}
	req := eventsRequest{Limit: limit}
	if err := validation.Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	records, err := h.records.Recent(r.Context(), req.Limit)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "AUDIT_QUERY_FAILED", "Failed to read audit log", err)
		return
	}
	if records == nil {
		records = []audit.Record{}
	}
	respondSuccess(w, r, records)
}

// EventSummary returns the number of audit records per event kind.
func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		respondError(w, r, http.StatusServiceUnavailable, "AUDIT_UNAVAILABLE", "Audit log is not available", nil)
		return
	}

	counts, err := h.records.CountByEvent(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "AUDIT_QUERY_FAILED", "Failed to read audit log", err)
		return
	}
	// Every known kind is listed, so dashboards see zeros instead of gaps.
	summary := EventSummary{ByKind: make(map[string]int64, len(counts))}
	for _, kind := range detection.AllKinds() {
		summary.ByKind[kind.String()] = 0
	}
	for event, n := range counts {
		summary.ByKind[event] = n
		summary.Total += n
	}
	respondSuccess(w, r, summary)
}
