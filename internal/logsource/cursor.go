// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package logsource

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultLogcatArgs starts logcat at the newest buffered line instead of
// dumping the whole ring buffer, whose entries would otherwise be classified
// as if they were happening now.
var DefaultLogcatArgs = []string{"-v", "threadtime", "-T", "1"}

// threadtimeStamp matches the "MM-DD hh:mm:ss.mmm" prefix of threadtime and
// time formatted logcat lines.
var threadtimeStamp = regexp.MustCompile(`^(\d\d-\d\d \d\d:\d\d:\d\d\.\d{3})`)

// logcatCursor remembers the last logcat timestamp delivered, so a restarted
// logcat resumes there instead of replaying history.
//
// Timestamps compare as strings, which holds within a calendar year.
type logcatCursor struct {
	mu         sync.Mutex
	last       string
	atLast     map[string]struct{} // lines already delivered at last
	catchingUp bool
}

func newLogcatCursor() *logcatCursor {
	return &logcatCursor{atLast: make(map[string]struct{})}
}

// args returns the logcat arguments for the next start. Before any line was
// seen they are base; afterwards any -T/-t start option in base is replaced
// by "-T <last timestamp>" and the cursor enters catch-up mode.
func (c *logcatCursor) args(base []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == "" {
		return append([]string(nil), base...)
	}
	out := make([]string, 0, len(base)+2)
	for i := 0; i < len(base); i++ {
		switch a := base[i]; {
		case a == "-T" || a == "-t":
			i++ // skip the value
		case strings.HasPrefix(a, "-T") || strings.HasPrefix(a, "-t"):
		default:
			out = append(out, a)
		}
	}
	c.catchingUp = true
	return append(out, "-T", c.last)
}

// admit reports whether line should be delivered and records it. While
// catching up, lines at or before the last delivered timestamp are dropped
// if they were already delivered.
func (c *logcatCursor) admit(line string) bool {
	m := threadtimeStamp.FindStringSubmatch(line)
	if m == nil {
		// Buffer banners ("--------- beginning of main") carry no time.
		return true
	}
	ts := m[1]

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catchingUp {
		if ts < c.last {
			return false
		}
		if ts == c.last {
			if _, dup := c.atLast[line]; dup {
				return false
			}
		} else {
			c.catchingUp = false
		}
	}

	switch {
	case ts > c.last:
		c.last = ts
		c.atLast = map[string]struct{}{line: {}}
	case ts == c.last:
		c.atLast[line] = struct{}{}
	}
	return true
}
