// Package rsynccmd builds command lines for the external rsync program.
//
// A transfer either pulls a remote tree (Get) or pushes a local tree (Put).
// Build returns both the transfer command and a dry-run check command whose
// output tells whether the transfer would change anything:
//
//	cmd, err := rsynccmd.Build(rsynccmd.Get("example.com:bar", "/foo"))
//	if err != nil {
//	  return err
//	}
//	// cmd.Transfer: rsync --quiet --archive example.com:bar /foo
//	// cmd.Check:    test `rsync -ni --archive example.com:bar /foo | wc -l` -gt 0
//
// The package only assembles strings. Running the commands, enforcing the
// timeout and switching to the execution user is up to the caller.
package rsynccmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/gokrazy/rsyncgen/internal/hostspec"
	"github.com/gokrazy/rsyncgen/internal/rsyncopts"
)

// Direction selects which endpoint is remote.
type Direction int

const (
	// DirectionGet pulls from a remote source into a local destination.
	DirectionGet Direction = iota
	// DirectionPut pushes a local source to a remote destination.
	DirectionPut
)

func (d Direction) String() string {
	switch d {
	case DirectionGet:
		return "get"
	case DirectionPut:
		return "put"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection parses "get" or "put".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "get":
		return DirectionGet, nil
	case "put":
		return DirectionPut, nil
	}
	return 0, fmt.Errorf("unknown direction %q (expected get or put)", s)
}

const (
	// DefaultTimeout is how long a transfer may run unless configured
	// otherwise.
	DefaultTimeout = 900 * time.Second

	// DefaultExecUser is the user that runs the commands unless configured
	// otherwise.
	DefaultExecUser = "root"
)

// TransferOptions describes one rsync transfer. Use Get or Put to obtain
// options with defaults applied; the zero value has no switch bundle
// defaults, no --quiet, no timeout and no execution user.
type TransferOptions struct {
	Direction   Direction
	Source      string
	Destination string

	// Path, if set, replaces Destination on the command line. Destination
	// still names the transfer.
	Path string

	// User is injected into the remote endpoint unless it already names a
	// user. Together with Keyfile it is also passed to ssh via -l.
	User string

	// Keyfile adds -e 'ssh -i <Keyfile>' to the command.
	Keyfile string

	// Bundle is either Flags or Raw. Nil means Flags{Archive: true}.
	Bundle SwitchBundle

	Purge   bool
	Exclude []string
	Include []string

	// IncludeFirst emits the --include switches before the --exclude
	// switches. By default excludes come first.
	IncludeFirst bool

	Chown   string
	Chmod   string
	Logfile string

	// OnlyIf replaces the generated check command.
	OnlyIf string

	Quiet bool

	// Timeout and ExecUser are carried for the process runner and do not
	// show up on the command line.
	Timeout  time.Duration
	ExecUser string
}

// Get returns options for pulling source into destination.
func Get(source, destination string) TransferOptions {
	return newOptions(DirectionGet, source, destination)
}

// Put returns options for pushing source to destination.
func Put(source, destination string) TransferOptions {
	return newOptions(DirectionPut, source, destination)
}

func newOptions(dir Direction, source, destination string) TransferOptions {
	return TransferOptions{
		Direction:   dir,
		Source:      source,
		Destination: destination,
		Bundle:      Flags{Archive: true},
		Quiet:       true,
		Timeout:     DefaultTimeout,
		ExecUser:    DefaultExecUser,
	}
}

// Cmd is the result of Build.
type Cmd struct {
	// Name identifies the transfer, e.g. "rsync get /foo".
	Name string

	// Args is the transfer command as an argument vector, without shell
	// quoting.
	Args []string

	// Transfer is the transfer command as a single shell command line.
	Transfer string

	// Check is a shell command that exits 0 if and only if the transfer
	// would change something.
	Check string

	Timeout time.Duration
	User    string
}

// ValidationError is returned by Build for options that cannot produce a
// command.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// word is a command line token: arg is what the process receives, quoted is
// how it is spelled in a shell command line.
type word struct {
	arg    string
	quoted string
}

func plain(s string) word { return word{arg: s, quoted: s} }

func words(ws []word, quoted bool) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		s := w.arg
		if quoted {
			s = w.quoted
		}
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Build assembles the transfer and check commands for opts.
func Build(opts TransferOptions) (*Cmd, error) {
	if opts.Direction != DirectionGet && opts.Direction != DirectionPut {
		return nil, &ValidationError{Field: "direction", Err: fmt.Errorf("unknown direction %v", opts.Direction)}
	}
	if opts.Source == "" {
		return nil, &ValidationError{Field: "source", Err: fmt.Errorf("must not be empty")}
	}
	if opts.Destination == "" && opts.Path == "" {
		return nil, &ValidationError{Field: "destination", Err: fmt.Errorf("must not be empty")}
	}

	bundle := opts.Bundle
	if bundle == nil {
		bundle = Flags{Archive: true}
	}
	if raw, ok := bundle.(Raw); ok {
		if err := rsyncopts.Validate(string(raw)); err != nil {
			return nil, &ValidationError{Field: "options", Err: err}
		}
	}

	var switches []word
	for _, s := range bundle.switches() {
		switches = append(switches, plain(s))
	}
	if opts.Purge {
		switches = append(switches, plain("--delete"))
	}
	excludes := prefixed("--exclude=", opts.Exclude)
	includes := prefixed("--include=", opts.Include)
	if opts.IncludeFirst {
		switches = append(switches, includes...)
		switches = append(switches, excludes...)
	} else {
		switches = append(switches, excludes...)
		switches = append(switches, includes...)
	}
	if opts.Chown != "" {
		switches = append(switches, plain("--chown="+opts.Chown))
	}
	if opts.Chmod != "" {
		switches = append(switches, plain("--chmod="+opts.Chmod))
	}
	var logfile word
	if opts.Logfile != "" {
		logfile = plain("--log-file=" + opts.Logfile)
	}

	var shell []word
	if opts.Keyfile != "" {
		rsh := "ssh -i " + opts.Keyfile
		if opts.User != "" {
			rsh += " -l " + opts.User
		}
		shell = []word{plain("-e"), {arg: rsh, quoted: shellQuote(rsh)}}
	}

	source, destination := endpoints(opts)

	var transfer []word
	transfer = append(transfer, plain("rsync"))
	if opts.Quiet {
		transfer = append(transfer, plain("--quiet"))
	}
	transfer = append(transfer, switches...)
	transfer = append(transfer, logfile)
	transfer = append(transfer, shell...)
	transfer = append(transfer, plain(source), plain(destination))

	check := opts.OnlyIf
	if check == "" {
		dryRun := []word{plain("rsync"), plain(dryRunSwitch)}
		dryRun = append(dryRun, switches...)
		dryRun = append(dryRun, shell...)
		dryRun = append(dryRun, plain(source), plain(destination))
		check = "test `" + strings.Join(words(dryRun, true), " ") + " | wc -l` -gt 0"
	}

	return &Cmd{
		Name:     "rsync " + opts.Direction.String() + " " + opts.Destination,
		Args:     words(transfer, false),
		Transfer: strings.Join(words(transfer, true), " "),
		Check:    check,
		Timeout:  opts.Timeout,
		User:     opts.ExecUser,
	}, nil
}

// dryRunSwitch makes rsync list the changes it would make (one line per
// changed item) instead of making them.
const dryRunSwitch = "-ni"

func prefixed(prefix string, values []string) []word {
	ws := make([]word, 0, len(values))
	for _, v := range values {
		ws = append(ws, plain(prefix+v))
	}
	return ws
}

// endpoints returns the source and destination arguments, with the user
// injected into whichever side the direction makes remote.
func endpoints(opts TransferOptions) (source, destination string) {
	source = opts.Source
	destination = opts.Destination
	if opts.Path != "" {
		destination = opts.Path
	}
	if opts.User == "" {
		return source, destination
	}
	switch opts.Direction {
	case DirectionGet:
		source = hostspec.Parse(source).WithUser(opts.User)
	case DirectionPut:
		destination = hostspec.Parse(destination).WithUser(opts.User)
	}
	return source, destination
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
