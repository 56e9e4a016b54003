package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dtm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dtm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dtm version %s\n", strings.TrimSpace(dtm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
