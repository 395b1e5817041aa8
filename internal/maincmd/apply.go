package maincmd

import (
	"context"
	"fmt"

	"github.com/gokrazy/rsyncgen/internal/log"
	"github.com/gokrazy/rsyncgen/internal/rsyncdconfig"
	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/internal/runner"
	"github.com/gokrazy/rsyncgen/rsynccmd"
	"github.com/gokrazy/rsyncgen/rsyncd"
	"go.uber.org/zap"
)

func applyMain(ctx context.Context, osenv *rsyncos.Env, logger *zap.SugaredLogger, cfg *rsyncdconfig.Config, args []string) error {
	opts, opt := newApplyGetOpt()
	remaining, err := opt.Parse(args)
	if opt.Called("help") {
		fmt.Fprint(osenv.Stderr, opt.Help())
		return nil
	}
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return syntaxError("apply [flags]")
	}

	cfg, err = loadConfig(logger, cfg, opts.Config)
	if err != nil {
		return err
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}

	// Build every command before touching the file system, so that a
	// broken transfer does not leave a half-applied config behind.
	cmds := make([]*rsynccmd.Cmd, 0, len(cfg.Transfers))
	for idx, transfer := range cfg.Transfers {
		topts, warning, err := transfer.TransferOptions()
		if err != nil {
			return fmt.Errorf("transfer[%d]: %v", idx, err)
		}
		if warning != nil {
			logger.Warnf("transfer[%d]: %v", idx, warning)
		}
		cmd, err := rsynccmd.Build(topts)
		if err != nil {
			return fmt.Errorf("transfer[%d]: %w", idx, err)
		}
		cmds = append(cmds, cmd)
	}

	if len(cfg.Modules) > 0 {
		dc, err := cfg.DaemonConfig(rsyncd.WithLogger(log.Default()))
		if err != nil {
			return err
		}
		if err := dc.WriteFile(cfg.ConfFile()); err != nil {
			return err
		}
		logDaemonHint(logger, cfg.PlatformInfo())
	}

	if !opts.Run {
		for _, cmd := range cmds {
			fmt.Fprintf(osenv.Stdout, "# %s\n", cmd.Name)
			printCmd(osenv.Stdout, cmd)
		}
		return nil
	}
	results, err := runner.RunAll(ctx, osenv, cmds, opts.Jobs)
	if err != nil {
		return err
	}
	var ran int
	for _, res := range results {
		if !res.UpToDate {
			ran++
		}
	}
	logger.Infof("%d transfers ran, %d up to date", ran, len(results)-ran)
	return nil
}
