// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Metrics
	LinesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locshield_lines_read_total",
			Help: "Total number of log lines read from the log source",
		},
	)

	EmptyReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locshield_empty_reads_total",
			Help: "Total number of empty reads that triggered an idle sleep",
		},
	)

	IngestionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_ingestion_runs_total",
			Help: "Ingestion runs by how they ended",
		},
		[]string{"outcome"}, // "eof", "cancelled", "error"
	)

	// Detection Metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_events_total",
			Help: "Total number of security events emitted, by kind",
		},
		[]string{"kind"},
	)

	EventRisk = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "locshield_event_risk",
			Help:    "Distribution of emitted event risk scores (0-10)",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		},
	)

	MalformedReports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locshield_malformed_reports_total",
			Help: "Self-report lines dropped because the payload could not be decoded",
		},
	)

	HypothesisActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locshield_hypothesis_active",
			Help: "1 while the spoofing hypothesis is standing, 0 otherwise",
		},
	)

	TrackedSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locshield_tracked_sources",
			Help: "Number of sources with a live access window",
		},
	)

	// Verification Probe Metrics
	ProbeResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_probe_results_total",
			Help: "Process-list probe outcomes",
		},
		[]string{"result"}, // "running", "not_running", "error", "timeout", "rejected", "throttled"
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "locshield_probe_duration_seconds",
			Help:    "Duration of process-list probes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	// Sink Metrics
	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_sink_failures_total",
			Help: "Persistence and telemetry failures, by sink",
		},
		[]string{"sink"},
	)

	AuditWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "locshield_audit_write_duration_seconds",
			Help:    "Duration of audit record appends in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TelemetrySent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_telemetry_sent_total",
			Help: "Telemetry notifications delivered, by notifier",
		},
		[]string{"notifier"},
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locshield_api_requests_total",
			Help: "Total number of operational API requests",
		},
		[]string{"method", "route", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordEvent records an emitted security event.
func RecordEvent(kind string, risk int) {
	EventsTotal.WithLabelValues(kind).Inc()
	EventRisk.Observe(float64(risk))
}

// RecordProbe records a probe outcome and, when the probe actually ran, its duration.
func RecordProbe(result string, duration time.Duration) {
	ProbeResults.WithLabelValues(result).Inc()
	if duration > 0 {
		ProbeDuration.Observe(duration.Seconds())
	}
}

// RecordSinkFailure records a failed persistence or telemetry attempt.
func RecordSinkFailure(sink string) {
	SinkFailures.WithLabelValues(sink).Inc()
}

// RecordAuditWrite records the duration of an audit append; failures are
// counted separately through RecordSinkFailure.
func RecordAuditWrite(duration time.Duration, err error) {
	AuditWriteDuration.Observe(duration.Seconds())
	if err != nil {
		RecordSinkFailure("audit")
	}
}

// SetHypothesis mirrors the hypothesis flag into a gauge.
func SetHypothesis(active bool) {
	if active {
		HypothesisActive.Set(1)
		return
	}
	HypothesisActive.Set(0)
}

// RecordIngestionRun records how an ingestion run ended.
func RecordIngestionRun(outcome string) {
	IngestionRuns.WithLabelValues(outcome).Inc()
}

// RecordAPIRequest records an operational API request.
func RecordAPIRequest(method, route, status string) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
}
