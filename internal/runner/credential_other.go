//go:build !unix

package runner

import (
	"fmt"
	"os/user"
	"syscall"
)

func sysProcAttr(username string) (*syscall.SysProcAttr, error) {
	if username == "" {
		return nil, nil
	}
	u, err := user.Current()
	if err != nil {
		return nil, err
	}
	if u.Username == username {
		return nil, nil
	}
	return nil, fmt.Errorf("running commands as %s is not supported on this platform", username)
}
