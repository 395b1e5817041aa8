// Package maincmd implements the gokr-rsyncgen command line:
//   - get and put print (or run) the rsync command for one transfer
//   - daemon renders rsyncd.conf from a config file
//   - apply renders rsyncd.conf and runs every configured transfer
package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gokrazy/rsyncgen/internal/log"
	"github.com/gokrazy/rsyncgen/internal/rsyncdconfig"
	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/internal/version"
	"github.com/gokrazy/rsyncgen/rsynccmd"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `gokr-rsyncgen generates rsync commands and rsync daemon configuration.

Usage:
  %[1]s get [flags] <source> <destination>
  %[1]s put [flags] <source> <destination>
  %[1]s daemon [-config file] [-platform family] [-profile legacy|modern] [-o path]
  %[1]s apply [-config file] [-o path] [-run] [-jobs n]
  %[1]s version

Run '%[1]s <command> -help' for the flags of a command.
`

// Main runs the command line args (args[0] being the program name). cfg, if
// non-nil, is used instead of loading a config file.
func Main(ctx context.Context, osenv *rsyncos.Env, args []string, cfg *rsyncdconfig.Config) error {
	name := "gokr-rsyncgen"
	if len(args) > 0 {
		name = args[0]
	}
	if len(args) < 2 {
		fmt.Fprintf(osenv.Stderr, usage, name)
		return fmt.Errorf("no command specified")
	}
	verb, rest := args[1], args[2:]

	logger := newLogger(osenv.Stderr, verbose(rest))
	defer logger.Sync()
	prev := log.Default()
	log.SetLogger(log.FromZap(logger))
	defer log.SetLogger(prev)
	sugar := logger.Sugar()
	sugar.Debugf("%s, pid %d", version.Read(), os.Getpid())

	switch verb {
	case "get":
		return transferMain(ctx, osenv, sugar, rsynccmd.DirectionGet, rest)
	case "put":
		return transferMain(ctx, osenv, sugar, rsynccmd.DirectionPut, rest)
	case "daemon":
		return daemonMain(osenv, sugar, cfg, rest)
	case "apply":
		return applyMain(ctx, osenv, sugar, cfg, rest)
	case "version":
		fmt.Fprintln(osenv.Stdout, version.Read())
		return nil
	case "help", "-help", "--help", "-h":
		fmt.Fprintf(osenv.Stdout, usage, name)
		return nil
	}
	fmt.Fprintf(osenv.Stderr, usage, name)
	return fmt.Errorf("unknown command %q", verb)
}

// verbose reports whether -v was passed, before the flags are parsed
// properly, so that the logger is set up for the whole run.
func verbose(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "-v" || arg == "--v" || arg == "-verbose" || arg == "--verbose" {
			return true
		}
	}
	return false
}

// newLogger returns a console logger writing to w, without timestamps.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if w == nil {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

func loadConfig(logger *zap.SugaredLogger, cfg *rsyncdconfig.Config, path string) (*rsyncdconfig.Config, error) {
	if cfg != nil {
		copied := *cfg
		return &copied, nil
	}
	if path != "" {
		cfg, err := rsyncdconfig.FromFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debugf("config file %s loaded", path)
		return cfg, nil
	}
	cfg, fn, err := rsyncdconfig.FromDefaultFiles()
	if err != nil {
		return nil, err
	}
	logger.Debugf("config file %s loaded", fn)
	return cfg, nil
}

func printCmd(w io.Writer, cmd *rsynccmd.Cmd) {
	fmt.Fprintf(w, "onlyif: %s\n", cmd.Check)
	fmt.Fprintf(w, "command: %s\n", cmd.Transfer)
}

func syntaxError(format string) error {
	return fmt.Errorf("syntax: %s", strings.TrimSpace(format))
}
