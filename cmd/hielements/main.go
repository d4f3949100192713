// Command hielements is the CLI for the Hielements language: check, run,
// parse, doc, and init, grounded on
// original_source/crates/hielements-cli/src/main.rs and, for the
// rootCmd/cobra wiring, _examples/theRebelliousNerd-codenerd/cmd/nerd/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hielements",
	Short:         "A language for describing and enforcing software structure",
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.TimeKey = ""
		// A subcommand's own --verbose flag (run has one) shadows the
		// persistent flag, so read whichever one this command parsed.
		debug := verbose
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			debug = true
		}
		if debug {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		built, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			_ = logger.Sync()
		}
		os.Exit(exitCode(err))
	}
}

// exitCodeError lets subcommands request a specific process exit status
// (e.g. 1 for validation errors, 2 for I/O failures) the way
// ExitCode::from(...) does in original_source, while still returning a Go
// error from RunE.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *exitCodeError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if ece, ok := err.(*exitCodeError); ok {
		return ece.code
	}
	if err != nil {
		return 2
	}
	return 0
}

func fail(code int, format string, args ...interface{}) error {
	return &exitCodeError{code: code, err: fmt.Errorf(format, args...)}
}
