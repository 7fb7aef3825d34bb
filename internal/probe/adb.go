// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tomtom215/locshield/internal/logsource"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// ADBProbe lists device processes with "adb shell ps".
type ADBProbe struct {
	adbPath string
	serial  string
	run     Runner
}

// NewADBProbe creates a probe. A nil runner uses ExecRunner.
func NewADBProbe(adbPath, serial string, run Runner) *ADBProbe {
	if run == nil {
		run = ExecRunner
	}
	return &ADBProbe{adbPath: adbPath, serial: serial, run: run}
}

// IsRunning implements detection.ProcessProbe.
func (p *ADBProbe) IsRunning(ctx context.Context, candidates []string) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}
	names, err := p.processes(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if matchesAny(name, candidates) {
			return true, nil
		}
	}
	return false, nil
}

// processes returns the process names on the device. Toybox ps (Android 8+)
// accepts "-A -o NAME"; older devices only support bare "ps", whose last
// column is the name.
func (p *ADBProbe) processes(ctx context.Context) ([]string, error) {
	out, err := p.run(ctx, p.adbPath, logsource.ADBArgs(p.serial, "shell", "ps", "-A", "-o", "NAME")...)
	if err == nil {
		return parsePS(out), nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	out, fallbackErr := p.run(ctx, p.adbPath, logsource.ADBArgs(p.serial, "shell", "ps")...)
	if fallbackErr != nil {
		return nil, fmt.Errorf("adb shell ps: %w", fallbackErr)
	}
	return parsePS(out), nil
}

// parsePS extracts the last column of each row, skipping the header.
func parsePS(out []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		name := fields[len(fields)-1]
		if name == "NAME" || name == "CMD" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// matchesAny reports whether name is one of candidates or one of their
// sub-processes ("com.example:remote").
func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c || strings.HasPrefix(name, c+":") {
			return true
		}
	}
	return false
}
