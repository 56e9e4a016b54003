package main

import (
	"context"
	"fmt"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/aretw0/dtm/pkg/observability"
	"github.com/aretw0/dtm/pkg/ports"
	"github.com/spf13/cobra"
)

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "memory", "Program store: memory, redis://host:port/db, sqlite:<file> or a library directory")
	cmd.Flags().String("seed", "", "Directory of program files saved into the store at startup")
}

// openStore opens the store named by --store and applies --seed.
func openStore(ctx context.Context, cmd *cobra.Command) (*cli.Store, error) {
	location, _ := cmd.Flags().GetString("store")
	seedDir, _ := cmd.Flags().GetString("seed")

	store, err := cli.OpenStore(ctx, location, config.Alphabet)
	if err != nil {
		return nil, err
	}
	if seedDir == "" {
		return store, nil
	}

	writable, ok := store.Writable()
	if !ok {
		store.Close()
		return nil, fmt.Errorf("--seed needs a writable store, %s is read-only", location)
	}
	names, err := cli.Seed(ctx, writable, seedDir, config.Alphabet, config.Logger)
	if err != nil {
		config.Logger.Warn("some programs could not be seeded", "dir", seedDir, "err", err)
	}
	config.Logger.Info("store seeded", "dir", seedDir, "programs", names)
	return store, nil
}

// watchLibrary logs changes to a watchable store, such as a Markdown program
// library, until ctx is done. Engines are built per request, so changed
// documents are picked up without a reload.
func watchLibrary(ctx context.Context, store *cli.Store) {
	w, ok := store.ProgramSource.(ports.Watchable)
	if !ok {
		return
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		config.Logger.Warn("library watch unavailable", "err", err)
		return
	}
	go func() {
		for name := range changes {
			config.Logger.Info("program changed", "program", name)
		}
	}()
}

// runHooks attaches metrics when given, and step logging under --debug, to
// every run.
func runHooks(metrics *observability.Metrics) func(string) domain.LifecycleHooks {
	return func(program string) domain.LifecycleHooks {
		var hooks domain.LifecycleHooks
		if metrics != nil {
			hooks = metrics.Hooks(program)
		}
		if config.Debug {
			hooks = hooks.Merge(observability.LoggingHooks(config.Logger.With("program", program)))
		}
		return hooks
	}
}
