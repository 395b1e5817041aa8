// Package testlogger puts the stderr output of a command onto the testing
// package's t.Log(), one call per line, and keeps the lines for assertions.
package testlogger

import (
	"bytes"
	"sync"
	"testing"
)

type Logger struct {
	tb testing.TB

	mu      sync.Mutex
	partial []byte
	lines   []string
}

func New(tb testing.TB) *Logger {
	tl := &Logger{tb: tb}
	tb.Cleanup(tl.flush)
	return tl
}

// Write implements io.Writer.
func (tl *Logger) Write(p []byte) (n int, err error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.partial = append(tl.partial, p...)
	for {
		idx := bytes.IndexByte(tl.partial, '\n')
		if idx == -1 {
			break
		}
		tl.logLine(string(tl.partial[:idx]))
		tl.partial = tl.partial[idx+1:]
	}
	return len(p), nil
}

// Lines returns the complete lines written so far.
func (tl *Logger) Lines() []string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return append([]string(nil), tl.lines...)
}

func (tl *Logger) logLine(line string) {
	tl.tb.Helper()
	tl.lines = append(tl.lines, line)
	tl.tb.Log(line)
}

func (tl *Logger) flush() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if len(tl.partial) > 0 {
		tl.logLine(string(tl.partial))
		tl.partial = nil
	}
}
