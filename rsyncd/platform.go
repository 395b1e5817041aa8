package rsyncd

import "strings"

// Platform holds where an OS family expects the rsync daemon configuration
// and which profile its deployments use.
type Platform struct {
	Family      string
	ConfFile    string
	ServiceName string
	Profile     Profile
}

var platforms = map[string]Platform{
	"debian": {
		Family:      "debian",
		ConfFile:    "/etc/rsyncd.conf",
		ServiceName: "rsync",
		Profile:     Legacy,
	},
	"redhat": {
		Family:      "redhat",
		ConfFile:    "/etc/rsyncd.conf",
		ServiceName: "rsyncd",
		Profile:     Modern,
	},
	"suse": {
		Family:      "suse",
		ConfFile:    "/etc/rsyncd.conf",
		ServiceName: "rsyncd",
		Profile:     Modern,
	},
	"freebsd": {
		Family:      "freebsd",
		ConfFile:    "/usr/local/etc/rsync/rsyncd.conf",
		ServiceName: "rsyncd",
		Profile:     Modern,
	},
}

var defaultPlatform = Platform{
	Family:      "default",
	ConfFile:    "/etc/rsync.conf",
	ServiceName: "rsync",
	Profile:     Legacy,
}

// PlatformFor returns the platform for an OS family such as "debian" or
// "RedHat". Unknown families get a generic default.
func PlatformFor(family string) Platform {
	if p, ok := platforms[strings.ToLower(family)]; ok {
		return p
	}
	return defaultPlatform
}

// DaemonArgs returns the arguments a superserver or service manager passes
// to rsync to serve this platform's configuration.
func (p Platform) DaemonArgs() []string {
	return []string{"--daemon", "--config", p.ConfFile}
}
