// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"todo/internal/backend/firebase"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/store"
)

func main() {
	// glog registers its flags on the default set; parse nothing so they keep
	// their defaults until the dispatcher adjusts them.
	flag.CommandLine.Parse(nil)

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Every command shares one Firestore client.
	factory := func(ctx context.Context, cfg *config.Config) (store.Store, error) {
		c, err := firebase.Shared(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	if err := firebase.CloseShared(); err != nil {
		glog.Warningf("[main]close store: %v\n", err)
	}
	glog.Flush()
	os.Exit(code)
}
