package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/aretw0/dtm/internal/cli"
	"github.com/aretw0/dtm/internal/logging"
	"github.com/aretw0/dtm/pkg/domain"
	"github.com/spf13/cobra"
)

// annotationServer marks long-running commands that log at info level by default.
const annotationServer = "server"

var rootCmd = &cobra.Command{
	Use:   "dtm",
	Short: "dtm runs deterministic multi-tape Turing machines",
	Long: `dtm loads Turing machine programs from text or YAML files and runs them,
either to compute the content of the output tape (simulate) or to decide
whether a word is accepted (check).`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// config is built from the persistent flags before any command runs.
var (
	config    cli.Config
	logCloser io.Closer
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Bool("debug", false, "Log every run and step at debug level to stderr")
	pf.String("log-file", "", "Also write JSON logs to this file")
	pf.String("first", string(domain.DefaultAlphabet.First), "First symbol of the alphabet range")
	pf.String("last", string(domain.DefaultAlphabet.Last), "Last symbol of the alphabet range")
	pf.String("blank", string(domain.DefaultAlphabet.Blank), "Blank symbol (must lie outside the range)")
}

func setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	logFile, _ := flags.GetString("log-file")

	alphabet, err := alphabetFromFlags(cmd)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	switch {
	case logFile != "":
		logger, logCloser, err = logging.NewWithFile(level, logFile)
		if err != nil {
			return err
		}
	case debug || cmd.Annotations[annotationServer] != "":
		logger = logging.New(level)
	default:
		logger = logging.NewNop()
	}

	config = cli.Config{Alphabet: alphabet, Logger: logger, Debug: debug}
	return nil
}

func teardown(*cobra.Command, []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func alphabetFromFlags(cmd *cobra.Command) (domain.Alphabet, error) {
	var a domain.Alphabet
	for _, f := range []struct {
		name string
		dst  *domain.Symbol
	}{{"first", &a.First}, {"last", &a.Last}, {"blank", &a.Blank}} {
		v, _ := cmd.Flags().GetString(f.name)
		if utf8.RuneCountInString(v) != 1 {
			return a, fmt.Errorf("--%s must be a single character, got %q", f.name, v)
		}
		r, _ := utf8.DecodeRuneInString(v)
		*f.dst = domain.Symbol(r)
	}
	return a, a.Valid()
}
