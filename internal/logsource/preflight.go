// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Preflight verifies that the configured source is reachable: for adb, that
// the binary exists and the device reports state "device"; for a file, that
// it can be opened.
func Preflight(ctx context.Context, cfg Config) error {
	timeout := cfg.PreflightTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch cfg.Type {
	case TypeADB:
		return preflightADB(ctx, cfg.ADBPath, cfg.ADBSerial)
	case TypeFile:
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		return f.Close()
	case TypeStdin:
		return nil
	default:
		return fmt.Errorf("%w: unknown log source type %q", ErrSourceUnavailable, cfg.Type)
	}
}

func preflightADB(ctx context.Context, adbPath, serial string) error {
	path, err := exec.LookPath(adbPath)
	if err != nil {
		return fmt.Errorf("%w: adb binary %q not found: %v", ErrSourceUnavailable, adbPath, err)
	}

	out, err := exec.CommandContext(ctx, path, ADBArgs(serial, "get-state")...).CombinedOutput()
	state := strings.TrimSpace(string(out))
	if err != nil {
		if state == "" {
			state = err.Error()
		}
		return fmt.Errorf("%w: adb get-state: %s", ErrSourceUnavailable, state)
	}
	if state != "device" {
		return fmt.Errorf("%w: device state is %q, want \"device\"", ErrSourceUnavailable, state)
	}
	return nil
}
