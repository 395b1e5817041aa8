package rsynccmd_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gokrazy/rsyncgen/rsynccmd"
	"github.com/google/go-cmp/cmp"
	"github.com/google/shlex"
)

func check(transfer string) string {
	dryRun := strings.Replace(transfer, "rsync --quiet ", "rsync -ni ", 1)
	return "test `" + dryRun + " | wc -l` -gt 0"
}

func TestGet(t *testing.T) {
	for _, tt := range []struct {
		desc   string
		modify func(*rsynccmd.TransferOptions)
		want   string
	}{
		{
			desc: "defaults",
			want: "rsync --quiet --archive example.com:bar /foo",
		},

		{
			desc:   "rsync protocol",
			modify: func(o *rsynccmd.TransferOptions) { o.Source = "example.com::bar" },
			want:   "rsync --quiet --archive example.com::bar /foo",
		},

		{
			desc:   "rsync protocol in URI form",
			modify: func(o *rsynccmd.TransferOptions) { o.Source = "rsync://example.com/bar" },
			want:   "rsync --quiet --archive rsync://example.com/bar /foo",
		},

		{
			desc: "user with rsync protocol in URI form",
			modify: func(o *rsynccmd.TransferOptions) {
				o.Source = "rsync://example.com/bar"
				o.User = "mr_baz"
			},
			want: "rsync --quiet --archive rsync://mr_baz@example.com/bar /foo",
		},

		{
			desc:   "user but not keyfile",
			modify: func(o *rsynccmd.TransferOptions) { o.User = "mr_baz" },
			want:   "rsync --quiet --archive mr_baz@example.com:bar /foo",
		},

		{
			desc:   "keyfile but not user",
			modify: func(o *rsynccmd.TransferOptions) { o.Keyfile = "/path/to/keyfile" },
			want:   "rsync --quiet --archive -e 'ssh -i /path/to/keyfile' example.com:bar /foo",
		},

		{
			desc: "user and keyfile",
			modify: func(o *rsynccmd.TransferOptions) {
				o.User = "mr_baz"
				o.Keyfile = "/path/to/keyfile"
			},
			want: "rsync --quiet --archive -e 'ssh -i /path/to/keyfile -l mr_baz' mr_baz@example.com:bar /foo",
		},

		{
			desc:   "exclude path",
			modify: func(o *rsynccmd.TransferOptions) { o.Exclude = []string{"/path/to/exclude/"} },
			want:   "rsync --quiet --archive --exclude=/path/to/exclude/ example.com:bar /foo",
		},

		{
			desc:   "multiple exclude paths",
			modify: func(o *rsynccmd.TransferOptions) { o.Exclude = []string{"logs/", "tmp/"} },
			want:   "rsync --quiet --archive --exclude=logs/ --exclude=tmp/ example.com:bar /foo",
		},

		{
			desc:   "include path",
			modify: func(o *rsynccmd.TransferOptions) { o.Include = []string{"/path/to/include/"} },
			want:   "rsync --quiet --archive --include=/path/to/include/ example.com:bar /foo",
		},

		{
			desc:   "multiple include paths",
			modify: func(o *rsynccmd.TransferOptions) { o.Include = []string{"htdocs/", "cache/"} },
			want:   "rsync --quiet --archive --include=htdocs/ --include=cache/ example.com:bar /foo",
		},

		{
			desc:   "purge",
			modify: func(o *rsynccmd.TransferOptions) { o.Purge = true },
			want:   "rsync --quiet --archive --delete example.com:bar /foo",
		},

		{
			desc:   "recursive without archive",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Recursive: true} },
			want:   "rsync --quiet --recursive example.com:bar /foo",
		},

		{
			desc:   "recursive with archive",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Archive: true, Recursive: true} },
			want:   "rsync --quiet --archive example.com:bar /foo",
		},

		{
			desc:   "links without archive",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Links: true} },
			want:   "rsync --quiet --links example.com:bar /foo",
		},

		{
			desc:   "raw options",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Raw("-rlpcgoD") },
			want:   "rsync --quiet -rlpcgoD example.com:bar /foo",
		},

		{
			desc:   "hardlinks",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Archive: true, HardLinks: true} },
			want:   "rsync --quiet --archive --hard-links example.com:bar /foo",
		},

		{
			desc:   "copylinks",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Archive: true, CopyLinks: true} },
			want:   "rsync --quiet --archive --copy-links example.com:bar /foo",
		},

		{
			desc:   "times without archive",
			modify: func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Flags{Times: true} },
			want:   "rsync --quiet --times example.com:bar /foo",
		},

		{
			desc: "chown and chmod",
			modify: func(o *rsynccmd.TransferOptions) {
				o.Chown = "www-data:www-data"
				o.Chmod = "Dg+s,ug+w"
			},
			want: "rsync --quiet --archive --chown=www-data:www-data --chmod=Dg+s,ug+w example.com:bar /foo",
		},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			opts := rsynccmd.Get("example.com:bar", "/foo")
			if tt.modify != nil {
				tt.modify(&opts)
			}
			cmd, err := rsynccmd.Build(opts)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := cmd.Name, "rsync get /foo"; got != want {
				t.Errorf("unexpected name: got %q, want %q", got, want)
			}
			if got := cmd.Transfer; got != tt.want {
				t.Errorf("unexpected transfer command:\ngot:  %s\nwant: %s", got, tt.want)
			}
			if got, want := cmd.Check, check(tt.want); got != want {
				t.Errorf("unexpected check command:\ngot:  %s\nwant: %s", got, want)
			}
			if got, want := cmd.Timeout, 900*time.Second; got != want {
				t.Errorf("unexpected timeout: got %v, want %v", got, want)
			}
			if got, want := cmd.User, "root"; got != want {
				t.Errorf("unexpected user: got %q, want %q", got, want)
			}
		})
	}
}

func TestPut(t *testing.T) {
	for _, tt := range []struct {
		desc        string
		destination string
		modify      func(*rsynccmd.TransferOptions)
		want        string
	}{
		{
			desc:        "defaults",
			destination: "example.com:foo",
			want:        "rsync --quiet --archive /bar example.com:foo",
		},

		{
			desc:        "rsync protocol",
			destination: "example.com::foo",
			want:        "rsync --quiet --archive /bar example.com::foo",
		},

		{
			desc:        "user with rsync protocol in URI form",
			destination: "rsync://example.com/foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.User = "mr_baz" },
			want:        "rsync --quiet --archive /bar rsync://mr_baz@example.com/foo",
		},

		{
			desc:        "user but not keyfile",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.User = "mr_baz" },
			want:        "rsync --quiet --archive /bar mr_baz@example.com:foo",
		},

		{
			desc:        "keyfile but not user",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.Keyfile = "/path/to/keyfile" },
			want:        "rsync --quiet --archive -e 'ssh -i /path/to/keyfile' /bar example.com:foo",
		},

		{
			desc:        "user and keyfile",
			destination: "example.com:foo",
			modify: func(o *rsynccmd.TransferOptions) {
				o.User = "mr_baz"
				o.Keyfile = "/path/to/keyfile"
			},
			want: "rsync --quiet --archive -e 'ssh -i /path/to/keyfile -l mr_baz' /bar mr_baz@example.com:foo",
		},

		{
			desc:        "multiple exclude paths",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.Exclude = []string{"logs/", "tmp/"} },
			want:        "rsync --quiet --archive --exclude=logs/ --exclude=tmp/ /bar example.com:foo",
		},

		{
			desc:        "purge",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.Purge = true },
			want:        "rsync --quiet --archive --delete /bar example.com:foo",
		},

		{
			desc:        "raw options",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.Bundle = rsynccmd.Raw("-rlpcgoD") },
			want:        "rsync --quiet -rlpcgoD /bar example.com:foo",
		},

		{
			desc:        "custom path",
			destination: "example.com:foo",
			modify:      func(o *rsynccmd.TransferOptions) { o.Path = "/baz" },
			want:        "rsync --quiet --archive /bar /baz",
		},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			opts := rsynccmd.Put("/bar", tt.destination)
			if tt.modify != nil {
				tt.modify(&opts)
			}
			cmd, err := rsynccmd.Build(opts)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := cmd.Name, "rsync put "+tt.destination; got != want {
				t.Errorf("unexpected name: got %q, want %q", got, want)
			}
			if got := cmd.Transfer; got != tt.want {
				t.Errorf("unexpected transfer command:\ngot:  %s\nwant: %s", got, tt.want)
			}
			if got, want := cmd.Check, check(tt.want); got != want {
				t.Errorf("unexpected check command:\ngot:  %s\nwant: %s", got, want)
			}
		})
	}
}

func TestExcludeIncludeOrder(t *testing.T) {
	opts := rsynccmd.Get("example.com:bar", "/foo")
	opts.Exclude = []string{"c", "a", "b"}
	opts.Include = []string{"z", "y"}

	cmd, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rsync", "--quiet", "--archive",
		"--exclude=c", "--exclude=a", "--exclude=b",
		"--include=z", "--include=y",
		"example.com:bar", "/foo"}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Errorf("excludes first: unexpected args (-want +got):\n%s", diff)
	}

	opts.IncludeFirst = true
	cmd, err = rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"rsync", "--quiet", "--archive",
		"--include=z", "--include=y",
		"--exclude=c", "--exclude=a", "--exclude=b",
		"example.com:bar", "/foo"}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Errorf("includes first: unexpected args (-want +got):\n%s", diff)
	}
}

func TestNoDeleteOrExcludeByDefault(t *testing.T) {
	cmd, err := rsynccmd.Build(rsynccmd.Get("example.com:bar", "/foo"))
	if err != nil {
		t.Fatal(err)
	}
	for _, arg := range cmd.Args {
		if arg == "--delete" || strings.HasPrefix(arg, "--exclude=") {
			t.Errorf("unexpected argument %q in %q", arg, cmd.Transfer)
		}
	}
}

func TestLogfileAndQuietOnlyInTransfer(t *testing.T) {
	opts := rsynccmd.Get("example.com:bar", "/foo")
	opts.Logfile = "/var/log/rsync.log"

	cmd, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cmd.Transfer, "rsync --quiet --archive --log-file=/var/log/rsync.log example.com:bar /foo"; got != want {
		t.Errorf("unexpected transfer command:\ngot:  %s\nwant: %s", got, want)
	}
	if got, want := cmd.Check, "test `rsync -ni --archive example.com:bar /foo | wc -l` -gt 0"; got != want {
		t.Errorf("unexpected check command:\ngot:  %s\nwant: %s", got, want)
	}

	opts.Quiet = false
	cmd, err = rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cmd.Transfer, "rsync --archive --log-file=/var/log/rsync.log example.com:bar /foo"; got != want {
		t.Errorf("unexpected transfer command without quiet:\ngot:  %s\nwant: %s", got, want)
	}
}

func TestOnlyIfOverride(t *testing.T) {
	opts := rsynccmd.Get("example.com:bar", "/foo")
	opts.OnlyIf = "test -d /foo"

	cmd, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cmd.Check, "test -d /foo"; got != want {
		t.Errorf("unexpected check command: got %q, want %q", got, want)
	}
}

func TestRawRoundTrip(t *testing.T) {
	opts := rsynccmd.Get("example.com:bar", "/foo")
	opts.Bundle = rsynccmd.Raw("-rlpcgoD")
	first, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}

	args, err := shlex.Split(first.Transfer)
	if err != nil {
		t.Fatal(err)
	}
	// rsync --quiet <bundle> <source> <destination>
	opts.Bundle = rsynccmd.Raw(args[2])
	second, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-fed bundle changed the command (-first +second):\n%s", diff)
	}
}

func TestKeyfileArgs(t *testing.T) {
	opts := rsynccmd.Get("example.com:bar", "/foo")
	opts.User = "mr_baz"
	opts.Keyfile = "/path/to/keyfile"

	cmd, err := rsynccmd.Build(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rsync", "--quiet", "--archive", "-e", "ssh -i /path/to/keyfile -l mr_baz", "mr_baz@example.com:bar", "/foo"}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Errorf("unexpected args (-want +got):\n%s", diff)
	}
	got, err := shlex.Split(cmd.Transfer)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cmd.Args, got); diff != "" {
		t.Errorf("shell command does not split into Args (-args +split):\n%s", diff)
	}
}

func TestBuildErrors(t *testing.T) {
	for _, tt := range []struct {
		desc  string
		opts  rsynccmd.TransferOptions
		field string
	}{
		{
			desc:  "no source",
			opts:  rsynccmd.Get("", "/foo"),
			field: "source",
		},

		{
			desc:  "no destination",
			opts:  rsynccmd.Put("/bar", ""),
			field: "destination",
		},

		{
			desc: "verbose raw options",
			opts: func() rsynccmd.TransferOptions {
				o := rsynccmd.Get("example.com:bar", "/foo")
				o.Bundle = rsynccmd.Raw("-av")
				return o
			}(),
			field: "options",
		},

		{
			desc:  "unknown direction",
			opts:  rsynccmd.TransferOptions{Direction: 7, Source: "a", Destination: "b"},
			field: "direction",
		},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := rsynccmd.Build(tt.opts)
			var verr *rsynccmd.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Build: got %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("unexpected field: got %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestResolveBundle(t *testing.T) {
	bundle, warn := rsynccmd.ResolveBundle("-rlpcgoD", rsynccmd.Flags{})
	if warn != nil {
		t.Errorf("unexpected warning: %v", warn)
	}
	if bundle != rsynccmd.Raw("-rlpcgoD") {
		t.Errorf("unexpected bundle: %#v", bundle)
	}

	bundle, warn = rsynccmd.ResolveBundle("-rlpcgoD", rsynccmd.Flags{Archive: true, HardLinks: true})
	if bundle != rsynccmd.Raw("-rlpcgoD") {
		t.Errorf("unexpected bundle: %#v", bundle)
	}
	if warn == nil {
		t.Fatalf("expected a precedence warning")
	}
	if diff := cmp.Diff([]string{"archive", "hardlinks"}, warn.Ignored); diff != "" {
		t.Errorf("unexpected ignored flags (-want +got):\n%s", diff)
	}

	bundle, warn = rsynccmd.ResolveBundle("", rsynccmd.Flags{Times: true})
	if warn != nil {
		t.Errorf("unexpected warning: %v", warn)
	}
	if bundle != (rsynccmd.Flags{Times: true}) {
		t.Errorf("unexpected bundle: %#v", bundle)
	}
}

func TestParseRaw(t *testing.T) {
	for _, tt := range []struct {
		raw     string
		wantErr bool
	}{
		{raw: "-rlpcgoD"},
		{raw: "--archive --no-motd"},
		{raw: "-avz", wantErr: true},
		{raw: "-a --quiet", wantErr: true},
	} {
		t.Run(tt.raw, func(t *testing.T) {
			raw, err := rsynccmd.ParseRaw(tt.raw)
			if gotErr := err != nil; gotErr != tt.wantErr {
				t.Fatalf("ParseRaw(%q) = %v, want error: %v", tt.raw, err, tt.wantErr)
			}
			if err == nil && raw != rsynccmd.Raw(tt.raw) {
				t.Errorf("ParseRaw(%q) = %q, want %q", tt.raw, raw, tt.raw)
			}
		})
	}
}
