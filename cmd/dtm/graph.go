package main

import (
	"fmt"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <program>",
	Short: "Export the state diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the program's states and transitions.
With --word the machine is run first and the visited states are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		word, _ := cmd.Flags().GetString("word")
		traced := cmd.Flags().Changed("word")

		p, err := dtm.ReadProgram(args[0], config.Alphabet)
		if err != nil {
			return err
		}

		cfg := config
		var trace graph.Trace
		if traced {
			cfg.Hooks = trace.Hooks(p.Start).Merge(cfg.Hooks)
		}
		eng, err := dtm.New(p, cfg.EngineOptions()...)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if traced {
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			if _, err := eng.Check(ctx, word); err != nil {
				return err
			}
			overlay = trace.Overlay()
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Program(), overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().String("word", "", "Run this word and highlight the visited states")
	rootCmd.AddCommand(graphCmd)
}
