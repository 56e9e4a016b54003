package main

import (
	"os"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell [program]",
	Short: "Start the interactive shell",
	Long: `Reads commands from stdin: insert <file>, run [word], check [word], print,
help and quit. Commands may be abbreviated to their first letter. When a
program is given it is inserted before the first prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive := cli.IsInteractive(os.Stdin)
		opts := []cli.ShellOption{cli.WithInteractive(interactive)}
		if interactive {
			opts = append(opts, cli.WithRenderer(tui.NewRenderer()))
		}

		sh := cli.NewShell(os.Stdin, cmd.OutOrStdout(), config, opts...)
		if len(args) == 1 {
			if err := sh.Load(args[0]); err != nil {
				return err
			}
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		if err := sh.Run(ctx); err != nil && ctx.Signal() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
