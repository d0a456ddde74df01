package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/diff"
)

type diffOptions struct {
	// Output format: "unified" (default), "json".
	format string

	// Lines of context around each change.
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <old-design> <new-design>",
		Short: "Compare two saved designs",
		Long: `Diff compares two design files written by "design --format yaml|json".
It prints a unified diff of the documents followed by the quantities
that changed: pivot, goodness and every physical line impedance.

Exit codes:
  0  No differences
  1  Error
  2  Invalid arguments or incompatible design format
  8  Designs differ`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "unified", "output format: unified, json")
	f.IntVarP(&opts.context, "context", "U", 3, "lines of context")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, opts *diffOptions) error {
	if opts.format != "unified" && opts.format != "json" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("unknown diff format %q (available: unified, json)", opts.format)}
	}

	oldDesign, err := loadDesign(oldPath)
	if err != nil {
		return err
	}

	newDesign, err := loadDesign(newPath)
	if err != nil {
		return err
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.OldLabel = oldPath
	diffOpts.NewLabel = newPath
	diffOpts.Context = opts.context

	result, err := diff.Designs(oldDesign, newDesign, diffOpts)
	if err != nil {
		return &ExitError{Code: ExitGeneric, Err: err}
	}

	w := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		b, err := json.MarshalIndent(result.Changes, "", "  ")
		if err != nil {
			return &ExitError{Code: ExitGeneric, Err: fmt.Errorf("marshaling changes: %w", err)}
		}

		_, _ = fmt.Fprintln(w, string(b))
	default:
		diff.Write(w, result, useColor(config.FromContext(cmd.Context()), w))
	}

	if result.HasDifferences {
		return &ExitError{Code: ExitDesignsDiffer}
	}

	return nil
}

func loadDesign(path string) (*design.Design, error) {
	d, err := design.Load(path)
	if err != nil {
		code := ExitGeneric
		if errors.Is(err, design.ErrIncompatibleFormat) {
			code = ExitUsage
		}

		return nil, &ExitError{Code: code, Err: err}
	}

	return d, nil
}
