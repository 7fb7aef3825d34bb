// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/locshield/internal/validation"
)

// ErrMalformedReport is returned for self-report lines whose payload cannot be
// decoded or lacks required fields.
var ErrMalformedReport = errors.New("malformed self-report")

// SelfReport is the JSON payload the monitored application writes after the
// bridge marker:
//
//	LOCSHIELD_BRIDGE: {"event":"ATTACK_STATUS","source":"AgentX","risk":9,"msg":"probe"}
type SelfReport struct {
	Event  string  `json:"event,omitempty"`
	Source string  `json:"source" validate:"required"`
	Risk   *int    `json:"risk" validate:"required,min=0,max=10"`
	Msg    *string `json:"msg" validate:"required"`
}

// parseSelfReport extracts and validates the payload following marker in line.
func parseSelfReport(line, marker string) (*SelfReport, error) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: marker %q not found", ErrMalformedReport, marker)
	}
	rest := strings.TrimLeft(line[idx+len(marker):], ": \t")
	start := strings.IndexByte(rest, '{')
	end := strings.LastIndexByte(rest, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object after marker", ErrMalformedReport)
	}

	var report SelfReport
	if err := json.Unmarshal([]byte(rest[start:end+1]), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if err := validation.Struct(&report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	return &report, nil
}

// message renders the report for the event message.
func (r *SelfReport) message() string {
	if r.Event == "" {
		return *r.Msg
	}
	return fmt.Sprintf("[%s] %s", r.Event, *r.Msg)
}
