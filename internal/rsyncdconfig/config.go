// Package rsyncdconfig loads the declarative gokr-rsyncgen configuration: the
// rsync daemon settings and modules, and the transfers to run.
package rsyncdconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gokrazy/rsyncgen/rsyncd"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Platform is an OS family (debian, redhat, …) selecting where the
	// daemon config goes and which profile it is rendered with.
	Platform string `toml:"platform" yaml:"platform"`

	// Profile overrides the platform's profile: legacy or modern.
	Profile string `toml:"profile" yaml:"profile"`

	// Output overrides the platform's rsyncd.conf path.
	Output string `toml:"output" yaml:"output"`

	Daemon    rsyncd.Global   `toml:"daemon" yaml:"daemon"`
	Modules   []rsyncd.Module `toml:"module" yaml:"module"`
	Transfers []Transfer      `toml:"transfer" yaml:"transfer"`
}

// PlatformInfo returns the configured platform.
func (c *Config) PlatformInfo() rsyncd.Platform {
	return rsyncd.PlatformFor(c.Platform)
}

// ConfFile returns the path the daemon config should be written to.
func (c *Config) ConfFile() string {
	if c.Output != "" {
		return c.Output
	}
	return c.PlatformInfo().ConfFile
}

// DaemonConfig validates the daemon settings and modules.
func (c *Config) DaemonConfig(opts ...rsyncd.Option) (*rsyncd.Config, error) {
	profile := c.PlatformInfo().Profile
	if c.Profile != "" {
		var err error
		profile, err = rsyncd.ParseProfile(c.Profile)
		if err != nil {
			return nil, err
		}
	}
	opts = append([]rsyncd.Option{rsyncd.WithProfile(profile)}, opts...)
	return rsyncd.NewConfig(c.Daemon, c.Modules, opts...)
}

func FromString(input string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(input, &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

func FromYAML(input string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(input)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile loads path, as YAML if it ends in .yaml or .yml and as TOML
// otherwise.
func FromFile(path string) (*Config, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = FromYAML(string(input))
	default:
		cfg, err = FromString(string(input))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return cfg, nil
}

func FromDefaultFiles() (*Config, string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, "", err
	}
	fn := filepath.Join(configDir, "gokr-rsyncgen.toml")
	cfg, err := FromFile(fn)
	if err != nil {
		return nil, "", err
	}
	return cfg, fn, nil
}
