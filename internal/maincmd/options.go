package maincmd

import (
	"github.com/DavidGamba/go-getoptions"
	"github.com/gokrazy/rsyncgen/rsynccmd"
)

type transferOpts struct {
	Verbose bool
	Run     bool

	Path         string
	User         string
	Keyfile      string
	KeyfileOwner bool

	Options   string
	NoArchive bool
	Recursive bool
	Links     bool
	HardLinks bool
	CopyLinks bool
	Times     bool

	Purge        bool
	Exclude      []string
	Include      []string
	IncludeFirst bool
	Chown        string
	Chmod        string
	Logfile      string
	OnlyIf       string
	NoQuiet      bool
	Timeout      int
	ExecUser     string
}

func newTransferGetOpt() (*transferOpts, *getoptions.GetOpt) {
	var opts transferOpts
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h"))
	opt.BoolVar(&opts.Verbose, "v", false, opt.Alias("verbose"), opt.Description("log debug messages"))
	opt.BoolVar(&opts.Run, "run", false, opt.Description("run the check and, if needed, the transfer instead of printing them"))

	opt.StringVar(&opts.Path, "path", "", opt.Description("path to use on the command line instead of the destination"))
	opt.StringVar(&opts.User, "user", "", opt.Description("remote user, injected into the remote endpoint"))
	opt.StringVar(&opts.Keyfile, "keyfile", "", opt.Description("ssh private key, passed via -e 'ssh -i <keyfile>'"))
	opt.BoolVar(&opts.KeyfileOwner, "keyfile-owner", false, opt.Description("use the owner of -keyfile as remote user if -user is not set"))

	opt.StringVar(&opts.Options, "options", "", opt.Description("raw rsync options (e.g. -rlpcgoD) replacing the switch flags"))
	opt.BoolVar(&opts.NoArchive, "no-archive", false, opt.Description("do not pass --archive"))
	opt.BoolVar(&opts.Recursive, "recursive", false, opt.Description("pass --recursive (implied by --archive)"))
	opt.BoolVar(&opts.Links, "links", false, opt.Description("pass --links (implied by --archive)"))
	opt.BoolVar(&opts.HardLinks, "hardlinks", false, opt.Description("pass --hard-links"))
	opt.BoolVar(&opts.CopyLinks, "copylinks", false, opt.Description("pass --copy-links"))
	opt.BoolVar(&opts.Times, "times", false, opt.Description("pass --times (implied by --archive)"))

	opt.BoolVar(&opts.Purge, "purge", false, opt.Description("pass --delete"))
	opt.StringSliceVar(&opts.Exclude, "exclude", 1, 1, opt.Description("exclude pattern, can be repeated"))
	opt.StringSliceVar(&opts.Include, "include", 1, 1, opt.Description("include pattern, can be repeated"))
	opt.BoolVar(&opts.IncludeFirst, "include-first", false, opt.Description("pass --include before --exclude switches"))
	opt.StringVar(&opts.Chown, "chown", "", opt.Description("pass --chown=<value>"))
	opt.StringVar(&opts.Chmod, "chmod", "", opt.Description("pass --chmod=<value>"))
	opt.StringVar(&opts.Logfile, "logfile", "", opt.Description("pass --log-file=<value> to the transfer"))
	opt.StringVar(&opts.OnlyIf, "onlyif", "", opt.Description("check command replacing the generated one"))
	opt.BoolVar(&opts.NoQuiet, "no-quiet", false, opt.Description("do not pass --quiet to the transfer"))
	opt.IntVar(&opts.Timeout, "timeout", int(rsynccmd.DefaultTimeout.Seconds()), opt.Description("timeout in seconds for running the commands"))
	opt.StringVar(&opts.ExecUser, "execuser", rsynccmd.DefaultExecUser, opt.Description("local user running the commands"))

	return &opts, opt
}

type daemonOpts struct {
	Verbose  bool
	Config   string
	Platform string
	Profile  string
	Output   string
}

func newDaemonGetOpt() (*daemonOpts, *getoptions.GetOpt) {
	var opts daemonOpts
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h"))
	opt.BoolVar(&opts.Verbose, "v", false, opt.Alias("verbose"), opt.Description("log debug messages"))
	opt.StringVar(&opts.Config, "config", "", opt.Description("path to a config file (if unspecified, os.UserConfigDir()/gokr-rsyncgen.toml is used)"))
	opt.StringVar(&opts.Platform, "platform", "", opt.Description("OS family (debian, redhat, suse, freebsd) overriding the config file"))
	opt.StringVar(&opts.Profile, "profile", "", opt.Description("legacy or modern, overriding the platform default"))
	opt.StringVar(&opts.Output, "o", "", opt.Description("write rsyncd.conf atomically to this path instead of stdout"))

	return &opts, opt
}

type applyOpts struct {
	Verbose bool
	Config  string
	Output  string
	Run     bool
	Jobs    int
}

func newApplyGetOpt() (*applyOpts, *getoptions.GetOpt) {
	var opts applyOpts
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h"))
	opt.BoolVar(&opts.Verbose, "v", false, opt.Alias("verbose"), opt.Description("log debug messages"))
	opt.StringVar(&opts.Config, "config", "", opt.Description("path to a config file (if unspecified, os.UserConfigDir()/gokr-rsyncgen.toml is used)"))
	opt.StringVar(&opts.Output, "o", "", opt.Description("rsyncd.conf path overriding the platform default"))
	opt.BoolVar(&opts.Run, "run", false, opt.Description("run the transfers instead of printing them"))
	opt.IntVar(&opts.Jobs, "jobs", 1, opt.Description("number of transfers to run concurrently (0 means unlimited)"))

	return &opts, opt
}
