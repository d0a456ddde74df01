package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/output"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/plot"
)

type designOptions struct {
	order      int
	format     string
	output     string
	plot       string
	candidates bool
}

func newDesignCommand() *cobra.Command {
	opts := &designOptions{}

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Synthesize the line-only realization of one filter order",
		Long: `Design looks up the prototype for the requested order, synthesizes a
candidate around every shunt element, keeps the one with the smallest
sum of squared line impedances and prints it normalized and scaled to
the reference impedance.

When --order is omitted the order is read from standard input.

Exit codes:
  0  Success
  1  Error
  2  Invalid arguments or configuration
  3  Order outside the prototype table, or an invalid table
  4  Prototype ladder does not alternate
  5  Internal synthesis contract violated`,
		Example: `  butterworth design --order 5
  butterworth design -n 7 --format yaml -o order7.yaml
  butterworth design -n 3 --reference-impedance 75 --plot profile.svg
  echo 4 | butterworth design`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDesign(cmd, opts)
		},
	}

	registerOrderFlag(cmd, &opts.order)
	registerOutputFlags(cmd, opts)

	return cmd
}

func runDesign(cmd *cobra.Command, opts *designOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	// Reject bad output settings before doing any work.
	reg := output.DefaultRegistry(output.ReportOptions{
		NoColor:    opts.output != "" || !useColor(cfg, cmd.OutOrStdout()),
		Candidates: opts.candidates,
	})

	enc, err := reg.Encoder(opts.format)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	var plotFormat string
	if opts.plot != "" {
		if plotFormat, err = plot.FormatFromPath(opts.plot); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}
	}

	tbl, err := loadTable(cfg)
	if err != nil {
		return err
	}

	order, err := resolveOrder(cmd, opts.order, tbl)
	if err != nil {
		return err
	}

	d, err := runPipeline(ctx, tbl, order)
	if err != nil {
		return err
	}

	data, err := enc(d)
	if err != nil {
		return &ExitError{Code: ExitGeneric, Err: err}
	}

	if err := writeDesign(cmd, opts.output, data, logger); err != nil {
		return err
	}

	if plotFormat != "" {
		if err := writePlot(d, opts.plot, plotFormat, logger); err != nil {
			return err
		}
	}

	return nil
}

func writeDesign(cmd *cobra.Command, path string, data []byte, logger *slog.Logger) error {
	var w output.Writer = output.NewStdoutWriter(cmd.OutOrStdout())
	if path != "" {
		w = output.NewFileWriter(path, output.WithLogger(logger))
	}

	if err := w.Write(data); err != nil {
		return &ExitError{Code: ExitGeneric, Err: err}
	}

	if path != "" {
		logger.Info("design written", slog.String("path", path))
	}

	return nil
}

func writePlot(d *design.Design, path, format string, logger *slog.Logger) error {
	img, err := plot.Render(d, format)
	if err != nil {
		return &ExitError{Code: ExitGeneric, Err: err}
	}

	if err := output.NewFileWriter(path, output.WithLogger(logger)).Write(img); err != nil {
		return &ExitError{Code: ExitGeneric, Err: fmt.Errorf("writing plot: %w", err)}
	}

	logger.Info("impedance profile written", slog.String("path", path))

	return nil
}
