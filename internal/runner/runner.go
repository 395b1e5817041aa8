// Package runner executes the commands built by rsynccmd: the check command
// decides whether the transfer runs at all.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/gokrazy/rsyncgen/internal/log"
	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/rsynccmd"
	"golang.org/x/sync/errgroup"
)

// Shell runs check commands.
const Shell = "/bin/sh"

// waitDelay bounds how long a killed command's children may keep its output
// pipes open.
const waitDelay = time.Second

// Result describes one Run.
type Result struct {
	Name string

	// UpToDate is true if the check command exited non-zero, in which case
	// the transfer was not started.
	UpToDate bool

	Duration time.Duration
}

// Run executes cmd.Check and, if it succeeds, cmd.Args. Both run as cmd.User
// and must finish within cmd.Timeout (if non-zero).
func Run(ctx context.Context, osenv *rsyncos.Env, cmd *rsynccmd.Cmd) (*Result, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%s: empty command", cmd.Name)
	}
	attr, err := sysProcAttr(cmd.User)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", cmd.Name, err)
	}
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	start := time.Now()
	res := &Result{Name: cmd.Name}
	if cmd.Check != "" {
		check := exec.CommandContext(ctx, Shell, "-c", cmd.Check)
		check.SysProcAttr = attr
		check.WaitDelay = waitDelay
		check.Stderr = osenv.Stderr
		if err := check.Run(); err != nil {
			var ee *exec.ExitError
			if errors.As(err, &ee) && ctx.Err() == nil {
				log.Printf("%s: up to date (check exited with status %d)", cmd.Name, ee.ExitCode())
				res.UpToDate = true
				res.Duration = time.Since(start)
				return res, nil
			}
			return nil, fmt.Errorf("%s: check: %w", cmd.Name, timeoutErr(ctx, cmd.Timeout, err))
		}
	}

	log.Printf("%s: running %q", cmd.Name, cmd.Transfer)
	transfer := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	transfer.SysProcAttr = attr
	transfer.WaitDelay = waitDelay
	transfer.Stdin = osenv.Stdin
	transfer.Stdout = osenv.Stdout
	transfer.Stderr = osenv.Stderr
	if err := transfer.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, timeoutErr(ctx, cmd.Timeout, err))
	}
	res.Duration = time.Since(start)
	log.Printf("%s: done in %v", cmd.Name, res.Duration.Round(time.Millisecond))
	return res, nil
}

func timeoutErr(ctx context.Context, timeout time.Duration, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %v: %w", timeout, context.DeadlineExceeded)
	}
	return err
}

// RunAll runs cmds with at most jobs running concurrently (unlimited if jobs
// is zero or negative). The first error cancels the remaining commands.
// Results are in the order of cmds. Stdin is only passed on when jobs is 1;
// concurrent commands read from the null device.
func RunAll(ctx context.Context, osenv *rsyncos.Env, cmds []*rsynccmd.Cmd, jobs int) ([]*Result, error) {
	shared := &rsyncos.Env{
		Stdout: lock(osenv.Stdout),
		Stderr: lock(osenv.Stderr),
	}
	if jobs == 1 {
		shared.Stdin = osenv.Stdin
	}
	results := make([]*Result, len(cmds))
	eg, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		eg.SetLimit(jobs)
	}
	for idx, cmd := range cmds {
		idx, cmd := idx, cmd
		eg.Go(func() error {
			res, err := Run(ctx, shared, cmd)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func lock(w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	return &lockedWriter{w: w}
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
