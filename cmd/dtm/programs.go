package main

import (
	"fmt"

	"github.com/aretw0/dtm"
	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/pkg/adapters/text"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Manage programs in a store",
	Long:  `List, show, push and remove programs kept in a memory, Redis, SQLite or library store.`,
}

var programsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store *cli.Store) error {
			names, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing programs: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No programs found.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, "- "+name)
			}
			return nil
		})
	},
}

var programsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored program in the text format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store *cli.Store) error {
			p, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error loading program '%s': %w", args[0], err)
			}
			return text.Format(cmd.OutOrStdout(), p)
		})
	},
}

var programsPushCmd = &cobra.Command{
	Use:   "push <file>...",
	Short: "Validate program files and save them under their file name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store *cli.Store) error {
			writable, ok := store.Writable()
			if !ok {
				return fmt.Errorf("store is read-only")
			}
			for _, path := range args {
				p, err := dtm.ReadProgram(path, config.Alphabet)
				if err == nil {
					err = p.Validate(config.Alphabet)
				}
				if err != nil {
					return err
				}
				name := dtm.ProgramName(path)
				if err := writable.Save(cmd.Context(), name, p); err != nil {
					return fmt.Errorf("error saving '%s': %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored program '%s'\n", name)
			}
			return nil
		})
	},
}

var programsRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more programs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store *cli.Store) error {
			writable, ok := store.Writable()
			if !ok {
				return fmt.Errorf("store is read-only")
			}
			failed := 0
			for _, name := range args {
				if err := writable.Delete(cmd.Context(), name); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", name, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed program '%s'\n", name)
			}
			if failed > 0 {
				return fmt.Errorf("%d programs could not be removed", failed)
			}
			return nil
		})
	},
}

func withStore(cmd *cobra.Command, fn func(*cli.Store) error) error {
	location, _ := cmd.Flags().GetString("store")
	store, err := cli.OpenStore(cmd.Context(), location, config.Alphabet)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	programsCmd.PersistentFlags().String("store", "memory", "Program store: redis://host:port/db, sqlite:<file> or a library directory")
	programsCmd.AddCommand(programsLsCmd, programsShowCmd, programsPushCmd, programsRmCmd)
	rootCmd.AddCommand(programsCmd)
}
