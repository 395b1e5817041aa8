package rsyncd

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults as rendered into rsyncd.conf.
const (
	DefaultAddress  = "0.0.0.0"
	DefaultAddress6 = "::"
	DefaultPIDFile  = "/var/run/rsyncd.pid"
	DefaultID       = "0"
	DefaultChmod    = "0644"

	// LockFile is the lock file rsync uses to count connections. It is
	// rendered for every module that limits max connections.
	LockFile = "/var/run/rsyncd.lock"

	// Unset disables a setting that otherwise has a default, e.g.
	// pid_file = "UNSET".
	Unset = "UNSET"
)

// Global holds the process-wide settings at the top of rsyncd.conf.
type Global struct {
	Address    string `toml:"address" yaml:"address"`
	Address6   string `toml:"address6" yaml:"address6"`
	EnableIPv4 *bool  `toml:"enable_ipv4" yaml:"enable_ipv4"`
	EnableIPv6 bool   `toml:"enable_ipv6" yaml:"enable_ipv6"`

	// DualStack declares that the listener running the daemon accepts
	// connections on several bind addresses. Enabling both IPv4 and IPv6
	// requires it.
	DualStack bool `toml:"dual_stack" yaml:"dual_stack"`

	UseChroot *bool  `toml:"use_chroot" yaml:"use_chroot"`
	UID       string `toml:"uid" yaml:"uid"`
	GID       string `toml:"gid" yaml:"gid"`
	PIDFile   string `toml:"pid_file" yaml:"pid_file"`
	MotdFile  string `toml:"motd_file" yaml:"motd_file"`
}

func (g Global) ipv4() bool { return g.EnableIPv4 == nil || *g.EnableIPv4 }

// Module is one [ name ] stanza of rsyncd.conf.
type Module struct {
	Name    string `toml:"name" yaml:"name"`
	Path    string `toml:"path" yaml:"path"`
	Comment string `toml:"comment" yaml:"comment"`

	ReadOnly   *bool `toml:"read_only" yaml:"read_only"`
	WriteOnly  *bool `toml:"write_only" yaml:"write_only"`
	List       *bool `toml:"list" yaml:"list"`
	UseChroot  *bool `toml:"use_chroot" yaml:"use_chroot"`
	NumericIDs *bool `toml:"numeric_ids" yaml:"numeric_ids"`

	UID string `toml:"uid" yaml:"uid"`
	GID string `toml:"gid" yaml:"gid"`

	IncomingChmod Chmod `toml:"incoming_chmod" yaml:"incoming_chmod"`
	OutgoingChmod Chmod `toml:"outgoing_chmod" yaml:"outgoing_chmod"`

	// MaxConnections of 0 means no limit. Any limit also renders the lock
	// file line.
	MaxConnections int `toml:"max_connections" yaml:"max_connections"`
	Timeout        int `toml:"timeout" yaml:"timeout"`

	SecretsFile     string   `toml:"secrets_file" yaml:"secrets_file"`
	AuthUsers       []string `toml:"auth_users" yaml:"auth_users"`
	HostsAllow      []string `toml:"hosts_allow" yaml:"hosts_allow"`
	HostsDeny       []string `toml:"hosts_deny" yaml:"hosts_deny"`
	TransferLogging *bool    `toml:"transfer_logging" yaml:"transfer_logging"`
	LogFormat       string   `toml:"log_format" yaml:"log_format"`
	LogFile         string   `toml:"log_file" yaml:"log_file"`
	RefuseOptions   []string `toml:"refuse_options" yaml:"refuse_options"`
	Include         []string `toml:"include" yaml:"include"`
	IncludeFrom     string   `toml:"include_from" yaml:"include_from"`
	Exclude         []string `toml:"exclude" yaml:"exclude"`
	ExcludeFrom     string   `toml:"exclude_from" yaml:"exclude_from"`
	DontCompress    []string `toml:"dont_compress" yaml:"dont_compress"`

	IgnoreNonreadable *bool `toml:"ignore_nonreadable" yaml:"ignore_nonreadable"`
}

// Chmod is an incoming/outgoing chmod setting. The zero value stands for the
// profile default; NoChmod suppresses the line altogether. In config files,
// false means NoChmod and a string sets the mode.
type Chmod struct {
	mode     string
	disabled bool
}

// Mode returns a Chmod setting rendering mode, e.g. "0644" or "Dg+s,ug+w".
func Mode(mode string) Chmod { return Chmod{mode: mode} }

// NoChmod returns a Chmod setting that renders no line.
func NoChmod() Chmod { return Chmod{disabled: true} }

// value returns the mode to render, if any, falling back to def when unset.
func (c Chmod) value(def string) (string, bool) {
	switch {
	case c.disabled:
		return "", false
	case c.mode != "":
		return c.mode, true
	case def != "":
		return def, true
	}
	return "", false
}

func (c Chmod) String() string {
	if c.disabled {
		return "false"
	}
	return c.mode
}

func (c *Chmod) set(v interface{}) error {
	switch x := v.(type) {
	case bool:
		if x {
			return fmt.Errorf("chmod: true is not a mode, use a string or false")
		}
		*c = NoChmod()
	case string:
		*c = Mode(x)
	default:
		return fmt.Errorf("chmod: unexpected value %v (%T), use a string or false", v, v)
	}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Chmod) UnmarshalTOML(v interface{}) error {
	return c.set(v)
}

// UnmarshalYAML implements yaml.Unmarshaler. Modes are taken verbatim, so an
// unquoted 0644 stays 0644.
func (c *Chmod) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: chmod must be a string or false", value.Line)
	}
	if value.Tag == "!!bool" {
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		return c.set(b)
	}
	return c.set(value.Value)
}

// Profile selects which module settings are rendered when they are not set
// explicitly. Both profiles are found in deployed rsyncd.conf files.
type Profile int

const (
	// Legacy always renders uid, gid, incoming chmod and outgoing chmod
	// (defaulting to 0, 0, 0644, 0644) and renders timeout only when set.
	Legacy Profile = iota
	// Modern renders uid, gid and the chmod settings only when set, and
	// always renders timeout.
	Modern
)

func (p Profile) String() string {
	switch p {
	case Legacy:
		return "legacy"
	case Modern:
		return "modern"
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// ParseProfile parses "legacy" or "modern".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(s) {
	case "legacy":
		return Legacy, nil
	case "modern":
		return Modern, nil
	}
	return 0, fmt.Errorf("unknown profile %q (expected legacy or modern)", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Equal reports whether c and o render the same way under every profile.
func (c Chmod) Equal(o Chmod) bool { return c == o }
