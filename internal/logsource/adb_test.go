// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"
)

// fakeADB writes an executable shell script standing in for adb.
func fakeADB(t *testing.T, state string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake adb script requires a POSIX shell")
	}
	script := `#!/bin/sh
if [ "$1" = "-s" ]; then shift 2; fi
case "$1" in
get-state) echo "` + state + `" ;;
logcat) printf '03-01 12:00:00.000  1200  1200 I ActivityManager: one\n\n03-01 12:00:01.000  1200  1200 I ActivityManager: two\n' ;;
*) exit 1 ;;
esac
`
	path := filepath.Join(t.TempDir(), "adb")
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestADBArgs(t *testing.T) {
	t.Parallel()

	if got := ADBArgs("", "logcat"); !reflect.DeepEqual(got, []string{"logcat"}) {
		t.Errorf("ADBArgs() = %v", got)
	}
	want := []string{"-s", "emulator-5554", "shell", "ps"}
	if got := ADBArgs("emulator-5554", "shell", "ps"); !reflect.DeepEqual(got, want) {
		t.Errorf("ADBArgs() = %v, want %v", got, want)
	}
}

func TestOpenADB_StreamsLogcat(t *testing.T) {
	t.Parallel()

	adb := fakeADB(t, "device")
	src, err := OpenADB(context.Background(), adb, "emulator-5554", []string{"-v", "threadtime"})
	if err != nil {
		t.Fatalf("OpenADB() error = %v", err)
	}

	got := drain(t, src, 5*time.Second)
	if len(got) != 2 {
		t.Fatalf("lines = %q, want 2 lines", got)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenADB_MissingBinary(t *testing.T) {
	t.Parallel()

	_, err := OpenADB(context.Background(), filepath.Join(t.TempDir(), "no-adb"), "", nil)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("OpenADB() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestPreflight(t *testing.T) {
	t.Parallel()

	ready := fakeADB(t, "device")
	offline := fakeADB(t, "offline")
	file := writeFile(t, "x\n")

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"adb device", Config{Type: TypeADB, ADBPath: ready}, false},
		{"adb with serial", Config{Type: TypeADB, ADBPath: ready, ADBSerial: "emulator-5554"}, false},
		{"adb offline", Config{Type: TypeADB, ADBPath: offline}, true},
		{"adb missing", Config{Type: TypeADB, ADBPath: filepath.Join(t.TempDir(), "none")}, true},
		{"file present", Config{Type: TypeFile, FilePath: file}, false},
		{"file missing", Config{Type: TypeFile, FilePath: file + ".gone"}, true},
		{"stdin", Config{Type: TypeStdin}, false},
		{"unknown", Config{Type: "bluetooth"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Preflight(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Preflight() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrSourceUnavailable) {
				t.Errorf("Preflight() error = %v, want ErrSourceUnavailable", err)
			}
		})
	}
}
