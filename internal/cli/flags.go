package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/output"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/prototype"
)

// registerOrderFlag adds --order/-n with shell completion of the built-in
// orders.
func registerOrderFlag(cmd *cobra.Command, order *int) {
	cmd.Flags().IntVarP(order, "order", "n", 0, "filter order (prompted on stdin when omitted)")

	_ = cmd.RegisterFlagCompletionFunc("order", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		orders := prototype.Default().Orders()

		out := make([]string, len(orders))
		for i, o := range orders {
			out[i] = strconv.Itoa(o)
		}

		return out, cobra.ShellCompDirectiveNoFileComp
	})
}

// registerOutputFlags adds the design output flags to a cobra command.
func registerOutputFlags(cmd *cobra.Command, opts *designOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", output.FormatText, "output format: text, yaml, json, markdown, html")
	f.StringVarP(&opts.output, "output", "o", "", "write the design to this file instead of stdout")
	f.StringVar(&opts.plot, "plot", "", "also draw the impedance profile (.png, .svg or .pdf)")
	f.BoolVar(&opts.candidates, "candidates", false, "include the per-pivot goodness table in text output")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{
			output.FormatText, output.FormatYAML, output.FormatJSON,
			output.FormatMarkdown, output.FormatHTML,
		},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// resolveOrder returns the order given by --order or, when the flag is
// absent, read from standard input.
func resolveOrder(cmd *cobra.Command, order int, tbl *prototype.Table) (int, error) {
	if cmd.Flags().Changed("order") {
		return order, nil
	}

	n, err := readOrder(cmd.InOrStdin(), cmd.ErrOrStderr(), describeRange(tbl))
	if err != nil {
		return 0, &ExitError{Code: ExitUsage, Err: err}
	}

	return n, nil
}
