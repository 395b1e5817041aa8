package rsyncdconfig

import (
	"fmt"
	"time"

	"github.com/gokrazy/rsyncgen/rsynccmd"
	"gopkg.in/yaml.v3"
)

// Transfer is a [[transfer]] entry. Unset fields take the defaults of
// rsynccmd.Get and rsynccmd.Put.
type Transfer struct {
	Direction   string `toml:"direction" yaml:"direction"`
	Source      string `toml:"source" yaml:"source"`
	Destination string `toml:"destination" yaml:"destination"`
	Path        string `toml:"path" yaml:"path"`
	User        string `toml:"user" yaml:"user"`
	Keyfile     string `toml:"keyfile" yaml:"keyfile"`

	Archive   *bool `toml:"archive" yaml:"archive"`
	Recursive bool  `toml:"recursive" yaml:"recursive"`
	Links     bool  `toml:"links" yaml:"links"`
	HardLinks bool  `toml:"hardlinks" yaml:"hardlinks"`
	CopyLinks bool  `toml:"copylinks" yaml:"copylinks"`
	Times     bool  `toml:"times" yaml:"times"`

	// Options replaces the flags above with a raw options string.
	Options string `toml:"options" yaml:"options"`

	Purge        bool       `toml:"purge" yaml:"purge"`
	Exclude      StringList `toml:"exclude" yaml:"exclude"`
	Include      StringList `toml:"include" yaml:"include"`
	ExcludeFirst *bool      `toml:"exclude_first" yaml:"exclude_first"`
	Chown        string     `toml:"chown" yaml:"chown"`
	Chmod        string     `toml:"chmod" yaml:"chmod"`
	Logfile      string     `toml:"logfile" yaml:"logfile"`
	OnlyIf       string     `toml:"onlyif" yaml:"onlyif"`
	Quiet        *bool      `toml:"quiet" yaml:"quiet"`

	// Timeout in seconds.
	Timeout  int    `toml:"timeout" yaml:"timeout"`
	ExecUser string `toml:"execuser" yaml:"execuser"`
}

// TransferOptions converts t for rsynccmd.Build. The warning is non-nil if
// flags were ignored in favor of Options.
func (t Transfer) TransferOptions() (rsynccmd.TransferOptions, *rsynccmd.PrecedenceWarning, error) {
	dir, err := rsynccmd.ParseDirection(t.Direction)
	if err != nil {
		return rsynccmd.TransferOptions{}, nil, err
	}
	var opts rsynccmd.TransferOptions
	switch dir {
	case rsynccmd.DirectionGet:
		opts = rsynccmd.Get(t.Source, t.Destination)
	case rsynccmd.DirectionPut:
		opts = rsynccmd.Put(t.Source, t.Destination)
	}

	explicit := rsynccmd.Flags{
		Archive:   t.Archive != nil && *t.Archive,
		Recursive: t.Recursive,
		Links:     t.Links,
		HardLinks: t.HardLinks,
		CopyLinks: t.CopyLinks,
		Times:     t.Times,
	}
	var warning *rsynccmd.PrecedenceWarning
	if t.Options != "" {
		raw, err := rsynccmd.ParseRaw(t.Options)
		if err != nil {
			return rsynccmd.TransferOptions{}, nil, err
		}
		opts.Bundle, warning = rsynccmd.ResolveBundle(string(raw), explicit)
	} else {
		flags := explicit
		flags.Archive = t.Archive == nil || *t.Archive
		opts.Bundle = flags
	}

	opts.Path = t.Path
	opts.User = t.User
	opts.Keyfile = t.Keyfile
	opts.Purge = t.Purge
	opts.Exclude = t.Exclude
	opts.Include = t.Include
	opts.IncludeFirst = t.ExcludeFirst != nil && !*t.ExcludeFirst
	opts.Chown = t.Chown
	opts.Chmod = t.Chmod
	opts.Logfile = t.Logfile
	opts.OnlyIf = t.OnlyIf
	if t.Quiet != nil {
		opts.Quiet = *t.Quiet
	}
	if t.Timeout != 0 {
		opts.Timeout = time.Duration(t.Timeout) * time.Second
	}
	if t.ExecUser != "" {
		opts.ExecUser = t.ExecUser
	}
	return opts, warning, nil
}

// StringList is an ordered list of strings that may be written as a single
// string in config files.
type StringList []string

// UnmarshalTOML implements toml.Unmarshaler.
func (l *StringList) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case string:
		*l = StringList{x}
	case []interface{}:
		list := make(StringList, 0, len(x))
		for _, elem := range x {
			s, ok := elem.(string)
			if !ok {
				return fmt.Errorf("list element %v (%T) is not a string", elem, elem)
			}
			list = append(list, s)
		}
		*l = list
	default:
		return fmt.Errorf("expected a string or a list of strings, got %T", v)
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
}
