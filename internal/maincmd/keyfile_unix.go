//go:build unix

package maincmd

import (
	"os/user"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// keyfileOwner returns the user a private key belongs to: the home directory
// it is stored in, or else the owner of the file.
func keyfileOwner(path string) (string, error) {
	if strings.HasPrefix(path, "/root/") {
		return "root", nil
	}
	if rest, ok := strings.CutPrefix(path, "/home/"); ok {
		if name, _, ok := strings.Cut(rest, "/"); ok && name != "" {
			return name, nil
		}
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", err
	}
	u, err := user.LookupId(strconv.FormatUint(uint64(st.Uid), 10))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}
