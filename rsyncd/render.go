package rsyncd

import (
	"fmt"
	"strconv"
	"strings"
)

type stanza struct {
	b strings.Builder
}

func (s *stanza) line(key, value string) {
	fmt.Fprintf(&s.b, "%s = %s\n", key, value)
}

func (s *stanza) optional(key, value string) {
	if value != "" {
		s.line(key, value)
	}
}

func (s *stanza) boolean(key string, value *bool) {
	if value != nil {
		s.line(key, yesNo(*value))
	}
}

func (s *stanza) list(key string, values []string, sep string) {
	if len(values) > 0 {
		s.line(key, strings.Join(values, sep))
	}
}

func (s *stanza) String() string { return s.b.String() }

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RenderGlobal renders the global settings of rsyncd.conf. If IPv6 is
// enabled, the IPv6 listener fragment follows the header after a blank line.
func RenderGlobal(g Global) (string, error) {
	if errs := validateGlobal(g); len(errs) > 0 {
		return "", &ValidationError{Errors: errs}
	}
	return strings.Join(renderGlobal(g), "\n"), nil
}

func renderGlobal(g Global) []string {
	var header stanza
	header.line("use chroot", yesNo(boolOr(g.UseChroot, true)))
	if g.ipv4() {
		header.line("address", stringOr(g.Address, DefaultAddress))
	}
	if pid := stringOr(g.PIDFile, DefaultPIDFile); pid != Unset {
		header.line("pid file", pid)
	}
	header.line("uid", stringOr(g.UID, DefaultID))
	header.line("gid", stringOr(g.GID, DefaultID))
	if g.MotdFile != "" && g.MotdFile != Unset {
		header.line("motd file", g.MotdFile)
	}
	fragments := []string{header.String()}

	if g.EnableIPv6 {
		var ipv6 stanza
		ipv6.line("address", stringOr(g.Address6, DefaultAddress6))
		fragments = append(fragments, ipv6.String())
	}
	return fragments
}

// RenderModule renders one module stanza, filling in defaults according to
// profile.
func RenderModule(mod Module, profile Profile) (string, error) {
	if err := validateModule(mod); err != nil {
		return "", &ValidationError{Errors: []error{err}}
	}
	return renderModule(mod, profile), nil
}

func renderModule(mod Module, profile Profile) string {
	legacy := profile == Legacy

	var s stanza
	fmt.Fprintf(&s.b, "[ %s ]\n", mod.Name)
	s.line("path", mod.Path)
	s.optional("comment", mod.Comment)
	s.line("read only", yesNo(boolOr(mod.ReadOnly, true)))
	s.line("write only", yesNo(boolOr(mod.WriteOnly, false)))
	s.line("list", yesNo(boolOr(mod.List, true)))
	s.boolean("use chroot", mod.UseChroot)
	s.boolean("numeric ids", mod.NumericIDs)

	idDefault, chmodDefault := "", ""
	if legacy {
		idDefault, chmodDefault = DefaultID, DefaultChmod
	}
	s.optional("uid", stringOr(mod.UID, idDefault))
	s.optional("gid", stringOr(mod.GID, idDefault))
	if mode, ok := mod.IncomingChmod.value(chmodDefault); ok {
		s.line("incoming chmod", mode)
	}
	if mode, ok := mod.OutgoingChmod.value(chmodDefault); ok {
		s.line("outgoing chmod", mode)
	}

	s.line("max connections", strconv.Itoa(mod.MaxConnections))
	if mod.MaxConnections > 0 {
		s.line("lock file", LockFile)
	}
	if !legacy || mod.Timeout != 0 {
		s.line("timeout", strconv.Itoa(mod.Timeout))
	}

	s.optional("secrets file", mod.SecretsFile)
	s.list("auth users", mod.AuthUsers, ", ")
	s.list("hosts allow", mod.HostsAllow, " ")
	s.list("hosts deny", mod.HostsDeny, " ")
	s.boolean("transfer logging", mod.TransferLogging)
	s.optional("log format", mod.LogFormat)
	s.optional("log file", mod.LogFile)
	s.list("refuse options", mod.RefuseOptions, " ")
	s.list("include", mod.Include, " ")
	s.optional("include from", mod.IncludeFrom)
	s.list("exclude", mod.Exclude, " ")
	s.optional("exclude from", mod.ExcludeFrom)
	s.list("dont compress", mod.DontCompress, " ")
	s.boolean("ignore nonreadable", mod.IgnoreNonreadable)
	return s.String()
}
