// Package rsyncopts inspects raw rsync(1) option strings before they are
// spliced into a generated command line.
//
// A raw options string replaces the generated switch bundle verbatim, so it
// must not change what rsync prints: the dry-run check counts output lines,
// and --verbose or --quiet would skew (or silence) that count.
package rsyncopts

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
)

type option struct {
	longName  string
	shortName string
}

// outputAltering lists the options that change rsync's line-oriented output.
var outputAltering = []option{
	{"verbose", "v"},
	{"quiet", "q"},
}

// Split tokenizes raw with shell-style quoting rules.
func Split(raw string) ([]string, error) {
	return shlex.Split(raw)
}

// Validate returns an error if raw contains an option that alters rsync's
// output, either as a long option or within a cluster of short options
// (e.g. -avz).
func Validate(raw string) error {
	args, err := Split(raw)
	if err != nil {
		return fmt.Errorf("parsing options %q: %v", raw, err)
	}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "--") {
			name := strings.TrimPrefix(arg, "--")
			if idx := strings.IndexByte(name, '='); idx > -1 {
				name = name[:idx]
			}
			for _, opt := range outputAltering {
				if name == opt.longName {
					return fmt.Errorf("options %q: --%s is not allowed", raw, opt.longName)
				}
			}
			continue
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		for _, c := range shortCluster(arg[1:]) {
			for _, opt := range outputAltering {
				if string(c) == opt.shortName {
					return fmt.Errorf("options %q: -%s (--%s) is not allowed", raw, opt.shortName, opt.longName)
				}
			}
		}
	}
	return nil
}

// shortCluster returns the flag letters of a bundled short option, stopping at
// an inline argument such as the "ssh" in -essh.
func shortCluster(cluster string) string {
	for i, c := range cluster {
		if takesArgument(c) {
			return cluster[:i+1]
		}
	}
	return cluster
}

// takesArgument reports whether rsync's short option c consumes the rest of
// the cluster as its argument.
func takesArgument(c rune) bool {
	switch c {
	case 'e', 'B', 'T', 'f', 'M', '@':
		return true
	}
	return false
}
