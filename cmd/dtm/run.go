package main

import (
	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <program> [word]",
	Short: "Run a word and print the output tape",
	Long:  `Loads the program file, runs the machine on the word (empty when omitted) and prints the content of the output tape with surrounding blanks trimmed.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMode(domain.ModeSimulate),
}

var checkCmd = &cobra.Command{
	Use:   "check <program> [word]",
	Short: "Decide whether the machine accepts a word",
	Long:  `Loads the program file, runs the machine on the word (empty when omitted) and prints accept or reject.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMode(domain.ModeCheck),
}

func runMode(mode domain.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		opts := cli.RunOptions{
			ProgramPath: args[0],
			Mode:        mode,
			JSON:        jsonOut,
			Timeout:     timeout,
		}
		if len(args) > 1 {
			opts.Word = args[1]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Execute(ctx, config, opts, cmd.OutOrStdout())
	}
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, checkCmd} {
		c.Flags().Bool("json", false, "Print the result and run statistics as JSON")
		c.Flags().Duration("timeout", 0, "Abort the run after this long (0 means no limit)")
		rootCmd.AddCommand(c)
	}
}
