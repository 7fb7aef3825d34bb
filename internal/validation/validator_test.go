// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package validation

import (
	"errors"
	"strings"
	"testing"
)

type report struct {
	Source string  `json:"source" validate:"required"`
	Risk   *int    `json:"risk" validate:"required,min=0,max=10"`
	Msg    *string `json:"msg,omitempty" validate:"required"`
	Kind   string  `json:"kind" validate:"omitempty,oneof=a b"`
	Secret string  `json:"-" validate:"omitempty,min=3"`
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestGet_Singleton(t *testing.T) {
	t.Parallel()
	if Get() != Get() {
		t.Error("Get() returned different instances")
	}
}

func TestStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		in        report
		wantField string
		wantMsg   string
	}{
		{"valid", report{Source: "AgentX", Risk: intPtr(9), Msg: strPtr("probe")}, "", ""},
		{"zero risk is present", report{Source: "AgentX", Risk: intPtr(0), Msg: strPtr("")}, "", ""},
		{"missing source", report{Risk: intPtr(1), Msg: strPtr("x")}, "source", "source is required"},
		{"missing risk", report{Source: "a", Msg: strPtr("x")}, "risk", "risk is required"},
		{"risk too high", report{Source: "a", Risk: intPtr(11), Msg: strPtr("x")}, "risk", "risk must be at most 10"},
		{"msg uses json name", report{Source: "a", Risk: intPtr(1)}, "msg", "msg is required"},
		{"oneof", report{Source: "a", Risk: intPtr(1), Msg: strPtr("x"), Kind: "c"}, "kind", "kind must be one of: a b"},
		{"string min", report{Source: "a", Risk: intPtr(1), Msg: strPtr("x"), Secret: "ab"}, "Secret", "Secret must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Struct(&tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}

			var verr *Errors
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() error = %v, want *Errors", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("len(Fields) = %d, want 1 (%v)", len(verr.Fields), verr)
			}
			if got := verr.Fields[0].Field; got != tt.wantField {
				t.Errorf("Field = %q, want %q", got, tt.wantField)
			}
			if got := verr.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestStruct_MultipleErrorsJoined(t *testing.T) {
	t.Parallel()

	err := Struct(&report{})
	if err == nil {
		t.Fatal("Struct() error = nil")
	}
	for _, want := range []string{"source is required", "risk is required", "msg is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, missing %q", err.Error(), want)
		}
	}
}

func TestStruct_NotAStruct(t *testing.T) {
	t.Parallel()

	var verr *Errors
	if err := Struct(42); !errors.As(err, &verr) || verr.Fields[0].Field != "unknown" {
		t.Errorf("Struct(42) error = %v, want unknown field error", err)
	}
}
