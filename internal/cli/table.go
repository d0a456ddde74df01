package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/prototype"
)

func newTableCommand() *cobra.Command {
	var order int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the prototype coefficient table",
		Long: `Table prints the g-values of the active prototype table: the built-in
Butterworth table, or the file given by --table.

With --order, only that row is printed, as the tagged ladder the
synthesis starts from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := loadTable(config.FromContext(cmd.Context()))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if cmd.Flags().Changed("order") {
				return writeLadder(w, tbl, order)
			}

			return writeTable(w, tbl)
		},
	}

	cmd.Flags().IntVarP(&order, "order", "n", 0, "print only this order")

	return cmd
}

func writeTable(w io.Writer, tbl *prototype.Table) error {
	_, _ = fmt.Fprintf(w, "table: %s\n\n", tbl.Name())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ORDER\tG-VALUES\tLOAD")

	for _, o := range tbl.Orders() {
		g, err := tbl.Coefficients(o)
		if err != nil {
			return classify(err)
		}

		vals := make([]string, len(g)-1)
		for i, v := range g[:len(g)-1] {
			vals[i] = strconv.FormatFloat(v, 'f', 4, 64)
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%.4f\n", o, strings.Join(vals, " "), g[len(g)-1])
	}

	return tw.Flush()
}

func writeLadder(w io.Writer, tbl *prototype.Table, order int) error {
	l, err := tbl.Ladder(order)
	if err != nil {
		return classify(err)
	}

	_, _ = fmt.Fprintf(w, "table: %s, order %d\n", tbl.Name(), order)

	for i, e := range l {
		_, _ = fmt.Fprintf(w, "g%d: %s\n", i+1, e)
	}

	return nil
}
