package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/output"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/watch"
)

type watchOptions struct {
	order    int
	format   string
	output   string
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize whenever the prototype table or config changes",
		Long: `Watch monitors the custom prototype table (--table) and the config file
in use, and re-runs the design for --order after each change.

Changes are debounced. Each run reports the selected pivot and goodness
and, after the first run, which quantities of the design changed.
Configuration is reloaded on every run, so editing the reference
impedance in the config file takes effect immediately.`,
		Example: `  butterworth watch -n 5 --table my-table.yaml -o order5.yaml
  butterworth watch -n 7 --config .butterworth.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.order, "order", "n", 0, "filter order to re-synthesize")
	f.StringVarP(&opts.format, "format", "f", output.FormatYAML, "output format: text, yaml, json, markdown, html")
	f.StringVarP(&opts.output, "output", "o", "", "write each design to this file instead of stdout")
	f.DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "debounce interval for file changes")

	_ = cmd.MarkFlagRequired("order")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	var files []string
	if cfg.Table != "" {
		files = append(files, cfg.Table)
	}

	if cfg.ConfigFile != "" {
		files = append(files, cfg.ConfigFile)
	}

	if len(files) == 0 {
		return &ExitError{Code: ExitUsage, Err: errors.New("nothing to watch: pass --table or use a config file")}
	}

	reg := output.DefaultRegistry(output.ReportOptions{NoColor: true})

	enc, err := reg.Encoder(opts.format)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	configPath := cfg.ConfigFile

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		// Pick up edits to the config file itself.
		current, err := config.Load(cmd, configPath)
		if err != nil {
			return nil, err
		}

		runCtx := config.NewContext(fnCtx, current)

		tbl, err := loadTable(current)
		if err != nil {
			return nil, err
		}

		d, err := runPipeline(runCtx, tbl, opts.order)
		if err != nil {
			return nil, err
		}

		data, err := enc(d)
		if err != nil {
			return nil, err
		}

		if err := writeDesign(cmd, opts.output, data, logger); err != nil {
			return nil, err
		}

		return &watch.RunResult{Design: d, OutputPath: opts.output}, nil
	}

	watchOpts := watch.DefaultOptions()
	watchOpts.Files = files
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logging.Component(ctx, "watch")
	watchOpts.Out = cmd.ErrOrStderr()

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: ExitGeneric, Err: fmt.Errorf("watch: %w", err)}
	}

	return nil
}
