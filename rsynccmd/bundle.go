package rsynccmd

import (
	"fmt"
	"strings"

	"github.com/gokrazy/rsyncgen/internal/rsyncopts"
)

// SwitchBundle is the set of switches that control what a transfer
// preserves. It is either Flags or Raw.
type SwitchBundle interface {
	switches() []string
}

// Flags selects individual transfer switches. --archive already implies
// --recursive, --links and --times, so those are only emitted when Archive is
// false.
type Flags struct {
	Archive   bool
	Recursive bool
	Links     bool
	HardLinks bool
	CopyLinks bool
	Times     bool
}

func (f Flags) switches() []string {
	var sw []string
	if f.Archive {
		sw = append(sw, "--archive")
	}
	if f.Recursive && !f.Archive {
		sw = append(sw, "--recursive")
	}
	if f.Links && !f.Archive {
		sw = append(sw, "--links")
	}
	if f.HardLinks {
		sw = append(sw, "--hard-links")
	}
	if f.CopyLinks {
		sw = append(sw, "--copy-links")
	}
	if f.Times && !f.Archive {
		sw = append(sw, "--times")
	}
	return sw
}

// names returns the option names of the flags that are set.
func (f Flags) names() []string {
	var names []string
	for _, fl := range []struct {
		set  bool
		name string
	}{
		{f.Archive, "archive"},
		{f.Recursive, "recursive"},
		{f.Links, "links"},
		{f.HardLinks, "hardlinks"},
		{f.CopyLinks, "copylinks"},
		{f.Times, "times"},
	} {
		if fl.set {
			names = append(names, fl.name)
		}
	}
	return names
}

// Raw is an options string used verbatim instead of Flags, e.g. "-rlpcgoD".
// It must not contain --verbose or --quiet (or -v/-q), which would break the
// check command.
type Raw string

func (r Raw) switches() []string {
	if r == "" {
		return nil
	}
	return []string{string(r)}
}

// ParseRaw validates raw and returns it as a bundle.
func ParseRaw(raw string) (Raw, error) {
	if err := rsyncopts.Validate(raw); err != nil {
		return "", err
	}
	return Raw(raw), nil
}

// PrecedenceWarning reports flags that were ignored because a raw options
// string was configured as well. It is not fatal.
type PrecedenceWarning struct {
	Raw     string
	Ignored []string
}

func (w *PrecedenceWarning) Error() string {
	return fmt.Sprintf("options %q take precedence, ignoring %s", w.Raw, strings.Join(w.Ignored, ", "))
}

// ResolveBundle picks the bundle for configurations that may carry both a raw
// options string and flags: a non-empty raw wins. flags must only contain the
// flags the user explicitly enabled. The returned warning is nil unless
// flags were dropped.
func ResolveBundle(raw string, flags Flags) (SwitchBundle, *PrecedenceWarning) {
	if raw == "" {
		return flags, nil
	}
	if ignored := flags.names(); len(ignored) > 0 {
		return Raw(raw), &PrecedenceWarning{Raw: raw, Ignored: ignored}
	}
	return Raw(raw), nil
}
