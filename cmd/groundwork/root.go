package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/groundwork/internal/adapters/logging"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	yesFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Idempotent Ubuntu workstation setup",
	Long: `Groundwork brings an Ubuntu workstation to a declared state.

It reads groundwork.yaml, probes what is already in place, and applies
only the steps whose desired state does not hold. Runs are safe to
repeat: a second run after a partial failure picks up where the first
left off.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		if len(args) == 0 {
			return errors.New("a command is required")
		}
		return fmt.Errorf("unknown command %q", args[0])
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: groundwork.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "auto-confirm all prompts")

	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	rootCmd.AddCommand(versionCmd)
}

// debugEnabled reports whether debug logging was requested, either with
// --verbose or with a non-empty DEBUG environment variable.
func debugEnabled() bool {
	return verbose || os.Getenv("DEBUG") != ""
}

// newLogger builds the CLI logger honoring the debug toggles.
func newLogger() ports.Logger {
	level := ports.LevelInfo
	if debugEnabled() {
		level = ports.LevelDebug
	}
	return logging.NewConsoleLogger(
		logging.WithLevel(level),
		logging.WithTimestamp(false),
	)
}

// loadDocument resolves the desired-state document: the --config path if
// given, groundwork.yaml in the working directory if present, otherwise
// the built-in default.
func loadDocument() (*config.Document, error) {
	loader := config.NewLoader()
	if cfgFile != "" {
		return loader.Load(cfgFile)
	}
	if _, err := os.Stat("groundwork.yaml"); err == nil {
		return loader.Load("groundwork.yaml")
	}
	return loader.LoadDefault()
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var stepErr *step.Error
	if errors.As(err, &stepErr) {
		if verbose {
			return stepErr.Format()
		}
		msg := stepErr.Error()
		if stepErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", stepErr.Suggestion)
		}
		return msg
	}

	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
