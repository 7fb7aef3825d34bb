// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/locshield/internal/detection"
)

// Source types.
const (
	TypeADB   = "adb"
	TypeFile  = "file"
	TypeStdin = "stdin"
)

// ErrSourceUnavailable is returned when the configured source cannot be reached.
var ErrSourceUnavailable = errors.New("log source unavailable")

// maxLineBytes bounds one log line. logcat lines are far shorter.
const maxLineBytes = 1 << 20

// Config selects and configures a log source.
type Config struct {
	Type string

	ADBPath    string
	ADBSerial  string
	LogcatArgs []string

	FilePath string
	Follow   bool

	PreflightTimeout time.Duration
}

// Opener returns a detection.SourceOpener for cfg. stdin is used for the
// stdin type and may be nil otherwise.
func Opener(cfg Config, stdin io.Reader) (detection.SourceOpener, error) {
	switch cfg.Type {
	case TypeADB:
		base := cfg.LogcatArgs
		if len(base) == 0 {
			base = DefaultLogcatArgs
		}
		// Reopens after a restart resume from the last delivered line.
		cursor := newLogcatCursor()
		return func(ctx context.Context) (detection.LineSource, error) {
			src, err := OpenADB(ctx, cfg.ADBPath, cfg.ADBSerial, cursor.args(base))
			if err != nil {
				return nil, err
			}
			src.cursor = cursor
			return src, nil
		}, nil
	case TypeFile:
		return func(ctx context.Context) (detection.LineSource, error) {
			return OpenFile(cfg.FilePath, cfg.Follow)
		}, nil
	case TypeStdin:
		if stdin == nil {
			return nil, fmt.Errorf("%w: no stdin reader", ErrSourceUnavailable)
		}
		// stdin can be consumed once; a restart after EOF sees EOF again.
		src := NewReaderSource(io.NopCloser(stdin))
		return func(ctx context.Context) (detection.LineSource, error) {
			return src, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown log source type %q", cfg.Type)
	}
}

// stream reads lines from r on a background goroutine into a buffer that
// Next drains without blocking.
type stream struct {
	lines chan string
	stop  chan struct{}
	err   error // valid once lines is closed
}

func newStream(r io.Reader) *stream {
	s := &stream{
		lines: make(chan string, 1024),
		stop:  make(chan struct{}),
	}
	go s.run(r)
	return s
}

func (s *stream) run(r io.Reader) {
	defer close(s.lines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		select {
		case s.lines <- line:
		case <-s.stop:
			return
		}
	}
	s.err = scanner.Err()
}

// next returns a buffered line, ("", nil) if none is buffered, or io.EOF
// (or the read error) once the reader is exhausted.
func (s *stream) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.err != nil {
				return "", s.err
			}
			return "", io.EOF
		}
		return line, nil
	default:
		return "", nil
	}
}

func (s *stream) close() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// ReaderSource reads lines from an io.ReadCloser.
type ReaderSource struct {
	rc io.ReadCloser
	s  *stream
}

// NewReaderSource starts reading rc.
func NewReaderSource(rc io.ReadCloser) *ReaderSource {
	return &ReaderSource{rc: rc, s: newStream(rc)}
}

// Next implements detection.LineSource.
func (r *ReaderSource) Next(ctx context.Context) (string, error) {
	return r.s.next(ctx)
}

// Close stops reading and closes the reader.
func (r *ReaderSource) Close() error {
	r.s.close()
	return r.rc.Close()
}

// FileSource reads a log file line by line. In follow mode it keeps polling
// for appended data instead of ending at EOF.
type FileSource struct {
	f       *os.File
	r       *bufio.Reader
	follow  bool
	partial strings.Builder
}

// OpenFile opens path.
func OpenFile(path string, follow bool) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return &FileSource{f: f, r: bufio.NewReader(f), follow: follow}, nil
}

// Next implements detection.LineSource.
func (fs *FileSource) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		chunk, err := fs.r.ReadString('\n')
		fs.partial.WriteString(chunk)

		if errors.Is(err, io.EOF) {
			if fs.follow {
				// Keep the partial line until its newline arrives.
				return "", nil
			}
			line := strings.TrimRight(fs.partial.String(), "\r\n")
			fs.partial.Reset()
			if strings.TrimSpace(line) != "" {
				return line, nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", fs.f.Name(), err)
		}

		line := strings.TrimRight(fs.partial.String(), "\r\n")
		fs.partial.Reset()
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

// Close closes the file.
func (fs *FileSource) Close() error {
	return fs.f.Close()
}
