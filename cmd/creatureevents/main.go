// Package main loads creature event definitions and scripts and reports the
// resulting catalog.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/creatureevents/internal/platform/config"

	creatureeventscmd "github.com/louisbranch/creatureevents/internal/cmd/creatureevents"
)

func main() {
	cfg, err := creatureeventscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := creatureeventscmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
