package main

import (
	"fmt"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the programs of a store as MCP tools (list_programs, describe_program,
simulate, check, load_program) so AI agents can run machines.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationServer: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
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

		srv := mcp.NewServer(store.ProgramSource,
			mcp.WithAlphabet(config.Alphabet),
			mcp.WithTimeout(timeout),
			mcp.WithHooks(runHooks(nil)),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Duration("timeout", mcp.DefaultTimeout, "Per-call run timeout")
	addStoreFlags(mcpCmd)
	rootCmd.AddCommand(mcpCmd)
}
