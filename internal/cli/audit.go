package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/audit"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
)

type auditOptions struct {
	order       int
	format      string
	failOn      string
	policyPaths []string
	limits      audit.Limits
}

func newAuditCommand() *cobra.Command {
	opts := &auditOptions{limits: audit.DefaultLimits()}

	cmd := &cobra.Command{
		Use:   "audit [design-file]",
		Short: "Check a design against fabrication limits",
		Long: `Audit examines a design for realizability problems: line impedances
outside the fabricable window, an impedance spread too wide for one
substrate, elements left lumped and near-tied pivot choices.

The design is read from a file written by "design --format yaml|json",
or synthesized for --order when no file is given. Built-in rules are
RZ-001 through RZ-004; custom rules are added with --policy.

Use --fail-on to set a severity threshold: the command exits with
code 9 if any finding meets or exceeds the threshold.

Output formats: table (default), json.`,
		Example: `  butterworth audit -n 7
  butterworth audit order7.yaml --max-impedance 120 --fail-on high
  butterworth audit -n 9 --policy shop-rules.yaml --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	registerOrderFlag(cmd, &opts.order)
	f.StringVar(&opts.format, "format", "table", "output format: table, json")
	f.StringVar(&opts.failOn, "fail-on", "", "fail with exit code 9 if findings >= severity (critical, high, medium, low, info)")
	f.StringArrayVar(&opts.policyPaths, "policy", nil, "custom policy YAML files (can specify multiple)")
	f.Float64Var(&opts.limits.MinImpedance, "min-impedance", opts.limits.MinImpedance, "lowest fabricable line impedance in ohms")
	f.Float64Var(&opts.limits.MaxImpedance, "max-impedance", opts.limits.MaxImpedance, "highest fabricable line impedance in ohms")
	f.Float64Var(&opts.limits.MaxRatio, "max-ratio", opts.limits.MaxRatio, "largest allowed ratio between line impedances")
	f.Float64Var(&opts.limits.TieMargin, "tie-margin", opts.limits.TieMargin, "relative goodness gap reported as a near tie")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string, opts *auditOptions) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	// Fail fast on bad settings.
	formatter, err := audit.NewFormatter(opts.format)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	var threshold audit.Severity

	if opts.failOn != "" {
		if threshold, err = audit.ParseSeverity(opts.failOn); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}
	}

	if err := opts.limits.Validate(); err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	d, err := auditTarget(cmd, args, opts)
	if err != nil {
		return err
	}

	checks := audit.DefaultChecks(opts.limits)

	for _, path := range opts.policyPaths {
		pf, loadErr := audit.LoadPolicyFile(path)
		if loadErr != nil {
			return &ExitError{Code: ExitUsage, Err: fmt.Errorf("loading policy %s: %w", path, loadErr)}
		}

		checks = append(checks, pf.ToChecks()...)

		logger.Debug("loaded custom policy",
			slog.String("path", path),
			slog.Int("rules", len(pf.Rules)),
		)
	}

	result := audit.New(checks...).Run(ctx, d)

	if err := formatter.Format(cmd.OutOrStdout(), result); err != nil {
		return &ExitError{Code: ExitGeneric, Err: fmt.Errorf("formatting results: %w", err)}
	}

	if opts.failOn != "" && !result.Passed(threshold) {
		return &ExitError{
			Code: ExitAuditFailed,
			Err:  fmt.Errorf("audit failed: findings at or above %s severity", threshold),
		}
	}

	return nil
}

// auditTarget loads the design named on the command line or synthesizes
// one for the requested order.
func auditTarget(cmd *cobra.Command, args []string, opts *auditOptions) (*design.Design, error) {
	if len(args) == 1 {
		if cmd.Flags().Changed("order") {
			return nil, &ExitError{Code: ExitUsage, Err: errors.New("--order cannot be combined with a design file")}
		}

		return loadDesign(args[0])
	}

	ctx := cmd.Context()

	tbl, err := loadTable(config.FromContext(ctx))
	if err != nil {
		return nil, err
	}

	order, err := resolveOrder(cmd, opts.order, tbl)
	if err != nil {
		return nil, err
	}

	return runPipeline(ctx, tbl, order)
}
