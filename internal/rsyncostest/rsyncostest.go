package rsyncostest

import (
	"bytes"
	"testing"

	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/internal/testlogger"
)

func New(t *testing.T) *rsyncos.Env {
	osenv, _, _ := Capture(t)
	return osenv
}

// Capture returns an environment whose stdout is recorded in the returned
// buffer and whose stderr goes to a testlogger.
func Capture(t *testing.T) (*rsyncos.Env, *bytes.Buffer, *testlogger.Logger) {
	var stdout bytes.Buffer
	// Logs go to stderr, so wire that up to a testlogger.
	stderr := testlogger.New(t)
	return &rsyncos.Env{
		Stdin:  bytes.NewReader(nil),
		Stdout: &stdout,
		Stderr: stderr,
	}, &stdout, stderr
}
