// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/locshield/internal/detection"
)

// drain reads src until EOF, retrying empty reads, and fails after timeout.
func drain(t *testing.T, src detection.LineSource, timeout time.Duration) []string {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(timeout)
	var lines []string
	for time.Now().Before(deadline) {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return lines
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if line == "" {
			time.Sleep(time.Millisecond)
			continue
		}
		lines = append(lines, line)
	}
	t.Fatalf("source did not reach EOF within %v; got %v", timeout, lines)
	return nil
}

func TestReaderSource(t *testing.T) {
	t.Parallel()

	input := "first line\r\n\n   \nsecond line\nlast without newline"
	src := NewReaderSource(io.NopCloser(strings.NewReader(input)))
	defer src.Close()

	got := drain(t, src, 2*time.Second)
	want := []string{"first line", "second line", "last without newline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}

	// EOF is sticky.
	if _, err := src.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after EOF error = %v, want io.EOF", err)
	}
}

func TestReaderSource_EmptyReadWhileWaiting(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	src := NewReaderSource(pr)
	defer src.Close()

	line, err := src.Next(context.Background())
	if line != "" || err != nil {
		t.Fatalf("Next() with no data = (%q, %v), want (\"\", nil)", line, err)
	}

	go func() {
		_, _ = pw.Write([]byte("late line\n"))
		_ = pw.Close()
	}()
	got := drain(t, src, 2*time.Second)
	if !reflect.DeepEqual(got, []string{"late line"}) {
		t.Errorf("lines = %q, want [late line]", got)
	}
}

func TestReaderSource_CancelledContext(t *testing.T) {
	t.Parallel()

	pr, _ := io.Pipe()
	src := NewReaderSource(pr)
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logcat.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "a\n\nb\r\nc")
	src, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer src.Close()

	got := drain(t, src, time.Second)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("lines = %q, want [a b c]", got)
	}
}

func TestFileSource_Follow(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "first\npart")
	src, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	if line, _ := src.Next(ctx); line != "first" {
		t.Fatalf("Next() = %q, want %q", line, "first")
	}
	// The unterminated tail is held back, not returned or treated as EOF.
	if line, err := src.Next(ctx); line != "" || err != nil {
		t.Fatalf("Next() at EOF in follow mode = (%q, %v), want (\"\", nil)", line, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	_, _ = f.WriteString("ial\n")
	_ = f.Close()

	if line, _ := src.Next(ctx); line != "partial" {
		t.Errorf("Next() after append = %q, want %q", line, "partial")
	}
}

func TestOpenFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.txt"), false)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("OpenFile() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestOpener(t *testing.T) {
	t.Parallel()

	if _, err := Opener(Config{Type: "serial"}, nil); err == nil {
		t.Error("Opener(unknown) error = nil, want error")
	}
	if _, err := Opener(Config{Type: TypeStdin}, nil); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Opener(stdin, nil) error = %v, want ErrSourceUnavailable", err)
	}

	open, err := Opener(Config{Type: TypeStdin}, strings.NewReader("x\n"))
	if err != nil {
		t.Fatalf("Opener(stdin) error = %v", err)
	}
	src, err := open(context.Background())
	if err != nil {
		t.Fatalf("open() error = %v", err)
	}
	if got := drain(t, src, time.Second); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("lines = %q, want [x]", got)
	}

	path := writeFile(t, "y\n")
	open, err = Opener(Config{Type: TypeFile, FilePath: path}, nil)
	if err != nil {
		t.Fatalf("Opener(file) error = %v", err)
	}
	src, err = open(context.Background())
	if err != nil {
		t.Fatalf("open() error = %v", err)
	}
	defer src.Close()
	if got := drain(t, src, time.Second); !reflect.DeepEqual(got, []string{"y"}) {
		t.Errorf("lines = %q, want [y]", got)
	}
}
