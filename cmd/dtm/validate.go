package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/dtm"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <program>...",
	Short: "Check program files for consistency",
	Long:  `Parses each program and reports unknown states, symbols outside the alphabet, tape arity mismatches and nondeterministic rules.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			if err := runValidate(path); err != nil {
				failed++
				fmt.Fprintf(out, "%s: invalid\n", path)
				for _, finding := range findings(err) {
					fmt.Fprintf(out, "  - %v\n", finding)
				}
				continue
			}
			fmt.Fprintf(out, "%s: valid\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d programs failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	p, err := dtm.ReadProgram(path, config.Alphabet)
	if err != nil {
		return err
	}
	return p.Validate(config.Alphabet)
}

// findings unpacks the first errors.Join result in the chain into its parts.
func findings(err error) []error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			return joined.Unwrap()
		}
	}
	return []error{err}
}
