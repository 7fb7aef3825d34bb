// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package probe

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const toyboxPS = `NAME
init
zygote64
com.google.android.apps.maps
com.lexa.fakegps:remote
`

const legacyPS = `USER     PID   PPID  VSIZE  RSS     WCHAN    PC         NAME
root      1     0     8904   784   ffffffff 00000000 S /init
u0_a87    2211  190   1004328 41232 ffffffff 00000000 S com.theappninjas.gpsjoystick
`

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string // keyed by joined args
	errs    map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}

func TestADBProbe_IsRunning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		candidates []string
		want       bool
	}{
		{"exact match", []string{"com.google.android.apps.maps"}, true},
		{"sub-process match", []string{"com.lexa.fakegps"}, true},
		{"prefix is not a match", []string{"com.lexa"}, false},
		{"absent", []string{"com.theappninjas.gpsjoystick"}, false},
		{"no candidates", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := &fakeRunner{outputs: map[string]string{"shell ps -A -o NAME": toyboxPS}}
			p := NewADBProbe("adb", "", f.run)

			got, err := p.IsRunning(context.Background(), tt.candidates)
			if err != nil {
				t.Fatalf("IsRunning() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsRunning() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestADBProbe_FallsBackToLegacyPS(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{
		outputs: map[string]string{"-s emulator-5554 shell ps": legacyPS},
		errs:    map[string]error{"-s emulator-5554 shell ps -A -o NAME": errors.New("bad option -A")},
	}
	p := NewADBProbe("/opt/adb", "emulator-5554", f.run)

	got, err := p.IsRunning(context.Background(), []string{"com.theappninjas.gpsjoystick"})
	if err != nil {
		t.Fatalf("IsRunning() error = %v", err)
	}
	if !got {
		t.Error("IsRunning() = false, want true")
	}
	if len(f.calls) != 2 {
		t.Fatalf("runner calls = %d, want 2", len(f.calls))
	}
	if f.calls[1].name != "/opt/adb" {
		t.Errorf("command = %q, want /opt/adb", f.calls[1].name)
	}
}

func TestADBProbe_BothCommandsFail(t *testing.T) {
	t.Parallel()

	boom := errors.New("device offline")
	f := &fakeRunner{errs: map[string]error{
		"shell ps -A -o NAME": boom,
		"shell ps":            boom,
	}}
	p := NewADBProbe("adb", "", f.run)

	if _, err := p.IsRunning(context.Background(), []string{"x"}); !errors.Is(err, boom) {
		t.Errorf("IsRunning() error = %v, want %v", err, boom)
	}
}

func TestADBProbe_CancelledSkipsFallback(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeRunner{errs: map[string]error{"shell ps -A -o NAME": context.Canceled}}
	p := NewADBProbe("adb", "", f.run)

	if _, err := p.IsRunning(ctx, []string{"x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("IsRunning() error = %v, want context.Canceled", err)
	}
	if len(f.calls) != 1 {
		t.Errorf("runner calls = %d, want 1", len(f.calls))
	}
}

func TestParsePS(t *testing.T) {
	t.Parallel()

	got := parsePS([]byte(legacyPS))
	want := []string{"/init", "com.theappninjas.gpsjoystick"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parsePS() = %v, want %v", got, want)
	}
}
