// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/tomtom215/locshield/internal/logging"
)

// ADBArgs returns the adb argument list for a subcommand, selecting serial
// when one is set.
func ADBArgs(serial string, args ...string) []string {
	if serial == "" {
		return args
	}
	return append([]string{"-s", serial}, args...)
}

// ADBSource streams "adb logcat" output.
type ADBSource struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	s      *stream
	cursor *logcatCursor // nil outside Opener
	once   sync.Once
	err    error
}

// OpenADB starts logcat on the device. The process is stopped by Close or
// when ctx is cancelled.
func OpenADB(ctx context.Context, adbPath, serial string, logcatArgs []string) (*ADBSource, error) {
	ctx, cancel := context.WithCancel(ctx)
	args := ADBArgs(serial, append([]string{"logcat"}, logcatArgs...)...)
	cmd := exec.CommandContext(ctx, adbPath, args...)
	cmd.WaitDelay = 2 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("adb stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: start %s: %v", ErrSourceUnavailable, adbPath, err)
	}

	logging.Info().
		Str("adb", adbPath).
		Str("serial", serial).
		Strs("args", args).
		Int("pid", cmd.Process.Pid).
		Msg("Started logcat")

	return &ADBSource{cmd: cmd, cancel: cancel, s: newStream(stdout)}, nil
}

// Next implements detection.LineSource.
func (a *ADBSource) Next(ctx context.Context) (string, error) {
	for {
		line, err := a.s.next(ctx)
		if err != nil || line == "" || a.cursor == nil || a.cursor.admit(line) {
			return line, err
		}
	}
}

// Close stops logcat and reaps the process.
func (a *ADBSource) Close() error {
	a.once.Do(func() {
		a.s.close()
		a.cancel()
		err := a.cmd.Wait()
		// Killing logcat is the normal way to stop it.
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) && !errors.Is(err, context.Canceled) {
			a.err = fmt.Errorf("wait for logcat: %w", err)
		}
	})
	return a.err
}
