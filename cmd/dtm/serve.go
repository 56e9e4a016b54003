package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/dtm/internal/cli"
	httpAdapter "github.com/aretw0/dtm/pkg/adapters/http"
	"github.com/aretw0/dtm/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the HTTP server",
	Long:        `Serves the programs of a store over a JSON API with Prometheus metrics on /metrics.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationServer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		logger := config.Logger

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		store, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		watchLibrary(ctx, store)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		handler := httpAdapter.NewHandler(store.ProgramSource,
			httpAdapter.WithAlphabet(config.Alphabet),
			httpAdapter.WithTimeout(timeout),
			httpAdapter.WithHooks(runHooks(metrics)),
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("dtm server listening", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("dtm server stopped gracefully")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Duration("timeout", httpAdapter.DefaultTimeout, "Per-request run timeout")
	addStoreFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
