//go:build !unix

package maincmd

import "fmt"

func keyfileOwner(path string) (string, error) {
	return "", fmt.Errorf("file ownership is not available on this platform")
}
