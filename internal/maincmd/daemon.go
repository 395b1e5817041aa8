package maincmd

import (
	"fmt"
	"strings"

	"github.com/gokrazy/rsyncgen/internal/log"
	"github.com/gokrazy/rsyncgen/internal/rsyncdconfig"
	"github.com/gokrazy/rsyncgen/internal/rsyncos"
	"github.com/gokrazy/rsyncgen/rsyncd"
	"go.uber.org/zap"
)

func daemonMain(osenv *rsyncos.Env, logger *zap.SugaredLogger, cfg *rsyncdconfig.Config, args []string) error {
	opts, opt := newDaemonGetOpt()
	remaining, err := opt.Parse(args)
	if opt.Called("help") {
		fmt.Fprint(osenv.Stderr, opt.Help())
		return nil
	}
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return syntaxError("daemon [flags]")
	}

	cfg, err = loadConfig(logger, cfg, opts.Config)
	if err != nil {
		return err
	}
	if opts.Platform != "" {
		cfg.Platform = opts.Platform
	}
	if opts.Profile != "" {
		cfg.Profile = opts.Profile
	}
	dc, err := cfg.DaemonConfig(rsyncd.WithLogger(log.Default()))
	if err != nil {
		return err
	}
	logger.Debugf("rendering %d modules with the %v profile", len(dc.Modules()), dc.Profile())

	if opts.Output == "" {
		fmt.Fprint(osenv.Stdout, dc.Render())
		return nil
	}
	if err := dc.WriteFile(opts.Output); err != nil {
		return err
	}
	logDaemonHint(logger, cfg.PlatformInfo())
	return nil
}

func logDaemonHint(logger *zap.SugaredLogger, platform rsyncd.Platform) {
	logger.Infof("start the %s service, or run: rsync %s",
		platform.ServiceName,
		strings.Join(platform.DaemonArgs(), " "))
}
