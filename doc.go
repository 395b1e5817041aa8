// Package rsyncgen generates invocations of the external rsync(1) program and
// rsyncd.conf(5) configuration files for the rsync daemon.
//
// The rsynccmd package builds the transfer command for pulling (get) or
// pushing (put) a tree, together with a dry-run check command that tells
// whether the transfer would change anything. The rsyncd package renders the
// daemon configuration: a global header followed by one stanza per module.
//
// Neither package runs anything. gokr-rsyncgen (cmd/gokr-rsyncgen) wires both
// to a config file and can execute the resulting commands.
package rsyncgen
