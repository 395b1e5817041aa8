package maincmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/internal/runner"
	"github.com/gokrazy/rsyncgen/rsynccmd"
	"go.uber.org/zap"
)

func transferMain(ctx context.Context, osenv *rsyncos.Env, logger *zap.SugaredLogger, dir rsynccmd.Direction, args []string) error {
	opts, opt := newTransferGetOpt()
	remaining, err := opt.Parse(args)
	if opt.Called("help") {
		fmt.Fprint(osenv.Stderr, opt.Help())
		return nil
	}
	if err != nil {
		return err
	}
	if len(remaining) != 2 {
		return syntaxError(fmt.Sprintf("%s [flags] <source> <destination>", dir))
	}

	topts, err := opts.transferOptions(logger, dir, remaining[0], remaining[1])
	if err != nil {
		return err
	}
	cmd, err := rsynccmd.Build(topts)
	if err != nil {
		return err
	}
	if !opts.Run {
		printCmd(osenv.Stdout, cmd)
		return nil
	}
	_, err = runner.Run(ctx, osenv, cmd)
	return err
}

func (opts *transferOpts) transferOptions(logger *zap.SugaredLogger, dir rsynccmd.Direction, source, destination string) (rsynccmd.TransferOptions, error) {
	var topts rsynccmd.TransferOptions
	switch dir {
	case rsynccmd.DirectionGet:
		topts = rsynccmd.Get(source, destination)
	case rsynccmd.DirectionPut:
		topts = rsynccmd.Put(source, destination)
	}

	flags := rsynccmd.Flags{
		Archive:   !opts.NoArchive,
		Recursive: opts.Recursive,
		Links:     opts.Links,
		HardLinks: opts.HardLinks,
		CopyLinks: opts.CopyLinks,
		Times:     opts.Times,
	}
	if opts.Options != "" {
		raw, err := rsynccmd.ParseRaw(opts.Options)
		if err != nil {
			return topts, err
		}
		// --archive is a default, not something the user asked for.
		explicit := flags
		explicit.Archive = false
		bundle, warning := rsynccmd.ResolveBundle(string(raw), explicit)
		if warning != nil {
			logger.Warn(warning.Error())
		}
		topts.Bundle = bundle
	} else {
		topts.Bundle = flags
	}

	topts.Path = opts.Path
	topts.User = opts.User
	topts.Keyfile = opts.Keyfile
	if opts.KeyfileOwner && topts.User == "" {
		if opts.Keyfile == "" {
			return topts, fmt.Errorf("-keyfile-owner requires -keyfile")
		}
		owner, err := keyfileOwner(opts.Keyfile)
		if err != nil {
			return topts, fmt.Errorf("determining owner of %s: %v", opts.Keyfile, err)
		}
		logger.Debugf("using keyfile owner %q as remote user", owner)
		topts.User = owner
	}

	topts.Purge = opts.Purge
	topts.Exclude = opts.Exclude
	topts.Include = opts.Include
	topts.IncludeFirst = opts.IncludeFirst
	topts.Chown = opts.Chown
	topts.Chmod = opts.Chmod
	topts.Logfile = opts.Logfile
	topts.OnlyIf = opts.OnlyIf
	topts.Quiet = !opts.NoQuiet
	topts.Timeout = time.Duration(opts.Timeout) * time.Second
	topts.ExecUser = opts.ExecUser
	return topts, nil
}
