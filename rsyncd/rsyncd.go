// Package rsyncd renders rsyncd.conf(5) configuration files for the rsync
// daemon: global settings followed by one stanza per module.
//
// Rendering is a pure function of the configuration; all validation happens
// in NewConfig (or RenderGlobal/RenderModule), before any text is produced.
package rsyncd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gokrazy/rsyncgen/internal/log"
	"github.com/google/renameio/v2"
)

var (
	ErrMissingName     = errors.New("module has no name")
	ErrInvalidName     = errors.New("module name must not contain brackets or line breaks")
	ErrMissingPath     = errors.New("module has empty path")
	ErrNoAddressFamily = errors.New("neither IPv4 nor IPv6 is enabled")
	ErrDualStack       = errors.New("IPv4 and IPv6 are both enabled, but the listener is not dual-stack")
)

// DuplicateModuleError is reported when two modules share a name.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module name %q", e.Name)
}

// ValidationError holds every problem found in a configuration. Use
// errors.Is and errors.As to look for a specific one.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("rsyncd config validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *ValidationError) Unwrap() []error { return e.Errors }

// Option specifies the config options.
type Option interface {
	applyConfig(*Config)
}

type configOptionFunc func(cfg *Config)

func (f configOptionFunc) applyConfig(c *Config) {
	f(c)
}

// WithLogger specifies the logger to use for the config.
func WithLogger(logger log.Logger) Option {
	return configOptionFunc(func(c *Config) {
		c.logger = logger
	})
}

// WithProfile selects the default profile for module settings. Without this
// option, Legacy is used.
func WithProfile(profile Profile) Option {
	return configOptionFunc(func(c *Config) {
		c.profile = profile
	})
}

// Config is a validated rsyncd.conf.
type Config struct {
	logger  log.Logger
	profile Profile

	global  Global
	modules []Module
}

// NewConfig validates global and modules and returns a Config ready for
// rendering. Modules are rendered in the order given.
func NewConfig(global Global, modules []Module, opts ...Option) (*Config, error) {
	errs := validateGlobal(global)
	seen := make(map[string]bool)
	for i, mod := range modules {
		if err := validateModule(mod); err != nil {
			if mod.Name == "" {
				err = fmt.Errorf("module[%d]: %w", i, err)
			}
			errs = append(errs, err)
			continue
		}
		if seen[mod.Name] {
			errs = append(errs, &DuplicateModuleError{Name: mod.Name})
			continue
		}
		seen[mod.Name] = true
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	cfg := &Config{
		logger:  log.Default(),
		global:  global,
		modules: append([]Module(nil), modules...),
	}

	for _, opt := range opts {
		opt.applyConfig(cfg)
	}

	return cfg, nil
}

// Profile returns the profile modules are rendered with.
func (c *Config) Profile() Profile { return c.profile }

// Modules returns the configured modules.
func (c *Config) Modules() []Module {
	return append([]Module(nil), c.modules...)
}

// Render returns the full rsyncd.conf contents.
func (c *Config) Render() string {
	fragments := renderGlobal(c.global)
	for _, mod := range c.modules {
		fragments = append(fragments, renderModule(mod, c.profile))
	}
	return strings.Join(fragments, "\n")
}

// WriteFile atomically replaces path with the rendered configuration.
func (c *Config) WriteFile(path string) error {
	if err := renameio.WriteFile(path, []byte(c.Render()), 0644); err != nil {
		return err
	}
	c.logger.Printf("rsyncd config with %d modules (%s profile) written to %s", len(c.modules), c.profile, path)
	return nil
}

func validateGlobal(g Global) []error {
	var errs []error
	switch {
	case !g.ipv4() && !g.EnableIPv6:
		errs = append(errs, ErrNoAddressFamily)
	case g.ipv4() && g.EnableIPv6 && !g.DualStack:
		errs = append(errs, ErrDualStack)
	}
	return errs
}

func validateModule(mod Module) error {
	if mod.Name == "" {
		return ErrMissingName
	}
	if strings.ContainsAny(mod.Name, "[]\r\n") {
		return fmt.Errorf("module %q: %w", mod.Name, ErrInvalidName)
	}
	if mod.Path == "" {
		return fmt.Errorf("module %q: %w", mod.Name, ErrMissingPath)
	}

	return nil
}
