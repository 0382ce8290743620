// Package main is the entry point for the gkepool CLI.
//
// gkepool reconciles Google Kubernetes Engine node pools against a
// declarative manifest: it creates missing pools, updates drifted ones and
// deletes retired ones, waiting on every long-running operation.
//
// For detailed usage information, run:
//
//	gkepool --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/gkepool/cmd/gkepool/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
