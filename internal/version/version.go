package version

import (
	"runtime/debug"
)

func Read() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "gokrazy/rsyncgen <runtime/debug.ReadBuildInfo failed>"
	}
	return "gokrazy/rsyncgen " + info.Main.Version
}
