package main

import (
	"fmt"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print <program>",
	Short: "List the transitions of a program",
	Long:  `Prints one line per transition, grouped by source state and sorted within a state.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := cli.OpenEngine(args[0], config)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), eng.Describe())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
