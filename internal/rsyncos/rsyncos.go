// Package rsyncos bundles the standard streams a command runs with, so that
// tests can substitute their own.
package rsyncos

import (
	"fmt"
	"io"
	"strings"
)

type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Logf writes a line to Stderr, if set.
func (e *Env) Logf(format string, args ...interface{}) {
	if e.Stderr == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	io.WriteString(e.Stderr, msg)
}
