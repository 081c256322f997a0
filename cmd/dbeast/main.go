// Package main is the entry point for the dbeast CLI.
//
// dbeast upgrades the connections of clusters monitored through the dBeast
// Grafana app: it discovers the monitored clusters from the Grafana data
// sources and submits each one, with its credentials, to the dBeast backend.
//
// Commands: upgrade, datasources, plugin, doctor, version, completion.
//
// For detailed usage information, run:
//
//	dbeast --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbeast/dbeast/cmd/dbeast/commands"
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
