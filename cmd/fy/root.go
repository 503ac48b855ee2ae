package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputPath string
	noColor    bool
	quiet      bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fy",
	Short: "fy - fast YAML 1.2 parser, formatter and linter",
	Long: `fy is a YAML 1.2 toolbox: a strict parser with precise error
locations, a canonical formatter, a YAML/JSON converter and a tolerant
linter that reports every problem it can find instead of stopping at
the first.

All commands read from a file argument or from stdin when the argument
is "-" or omitted.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the slog logger used by long-running commands,
// honoring --quiet and --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// readInput reads the positional input: a file path, or stdin for "-"
// or no argument. The returned name is used in messages.
func readInput(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", err
	}
	return data, args[0], nil
}

// writeOutput writes command output to --output or stdout.
func writeOutput(s string) error {
	if outputPath == "" {
		_, err := os.Stdout.WriteString(s)
		return err
	}
	return os.WriteFile(outputPath, []byte(s), 0o644)
}
