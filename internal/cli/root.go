// Package cli implements the cobra command tree for butterworth.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
)

// Process exit codes.
const (
	ExitGeneric           = 1
	ExitUsage             = 2
	ExitOrderOutOfRange   = 3
	ExitInvalidLadder     = 4
	ExitContractViolation = 5
	ExitDesignsDiffer     = 8
	ExitAuditFailed       = 9
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", exitErr.Err)
			}

			return exitErr.Code
		}

		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		return ExitGeneric
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "butterworth",
		Short: "Synthesize distributed-element Butterworth lowpass filters",
		Long: `butterworth turns a lumped Butterworth lowpass prototype into a
realization made only of transmission-line sections.

For a given order it looks up the prototype g-values, converts the
series inductors into shunt stubs with Kuroda's identities around every
possible pivot, keeps the candidate with the least spread of line
impedances and scales the result to the reference impedance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.Float64("referenceImpedance", cfg.ReferenceImpedance),
				slog.Int("workers", cfg.Workers),
				slog.String("table", cfg.Table),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .butterworth.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.Float64("reference-impedance", config.DefaultReferenceImpedance, "system impedance in ohms")
	pf.Int("workers", 0, "goroutines scoring pivot candidates (0 = GOMAXPROCS)")
	pf.String("table", "", "custom prototype table file (YAML)")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newDesignCommand(),
		newCandidatesCommand(),
		newTableCommand(),
		newDiffCommand(),
		newAuditCommand(),
		newWatchCommand(),
		newCompletionCommand(),
	)

	return cmd
}
