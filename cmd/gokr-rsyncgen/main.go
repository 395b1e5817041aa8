// Tool gokr-rsyncgen generates idempotent rsync transfer commands and rsync
// daemon configuration (rsyncd.conf).
//
// For the rsyncd.conf format, see
// https://manpages.debian.org/bookworm/rsync/rsyncd.conf.5.en.html
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gokrazy/rsyncgen/internal/maincmd"
	"github.com/gokrazy/rsyncgen/internal/rsyncos"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	osenv := &rsyncos.Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := maincmd.Main(ctx, osenv, os.Args, nil); err != nil {
		log.Fatal(err)
	}
}
