// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logging

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// maxLoggedLine bounds how much of a raw device log line ends up in our own logs.
const maxLoggedLine = 240

// DetectionRecord is the log-facing view of a classified event.
type DetectionRecord struct {
	Kind       string
	Source     string
	Risk       int
	DreadScore int
	Message    string
}

// DetectionLogger writes detection outcomes with a fixed field layout so
// alerts can be grepped out of the process log.
type DetectionLogger struct {
	logger zerolog.Logger
}

// NewDetectionLogger creates a detection logger on the global logger.
func NewDetectionLogger() *DetectionLogger {
	return &DetectionLogger{logger: WithComponent("detection")}
}

// NewDetectionLoggerWithLogger creates a detection logger on a custom logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDetectionLoggerWithLogger(logger zerolog.Logger) *DetectionLogger {
	return &DetectionLogger{logger: logger.With().Str("component", "detection").Logger()}
}

// LogDetection logs one classified event. Risk 8 and above logs at warn level,
// CLEAN verdicts at debug.
func (l *DetectionLogger) LogDetection(rec DetectionRecord) {
	var e *zerolog.Event
	switch {
	case rec.Risk >= 8:
		e = l.logger.Warn()
	case rec.Kind == "CLEAN":
		e = l.logger.Debug()
	default:
		e = l.logger.Info()
	}
	e.Str("kind", rec.Kind).
		Str("source", rec.Source).
		Int("risk", rec.Risk).
		Int("dread", rec.DreadScore).
		Str("detail", TruncateLine(rec.Message)).
		Msg("Security event")
}

// LogMalformedReport logs a self-report line that could not be decoded.
func (l *DetectionLogger) LogMalformedReport(line string, err error) {
	l.logger.Warn().
		Err(err).
		Str("line", TruncateLine(line)).
		Msg("Dropping malformed self-report")
}

// LogHypothesis logs a change of the spoofing hypothesis.
func (l *DetectionLogger) LogHypothesis(active bool, reason string) {
	l.logger.Info().
		Bool("active", active).
		Str("reason", reason).
		Msg("Spoofing hypothesis changed")
}

// TruncateLine trims whitespace and shortens s to a loggable length without
// splitting a UTF-8 sequence.
func TruncateLine(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLoggedLine {
		return s
	}
	cut := maxLoggedLine
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
