package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/output"
)

func newCandidatesCommand() *cobra.Command {
	var (
		order      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Show the goodness of every pivot candidate",
		Long: `Candidates synthesizes one realization per shunt element of the
prototype and lists their goodness (sum of squared normalized line
impedances). The candidate the design command would pick is marked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			tbl, err := loadTable(cfg)
			if err != nil {
				return err
			}

			n, err := resolveOrder(cmd, order, tbl)
			if err != nil {
				return err
			}

			d, err := runPipeline(ctx, tbl, n)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if jsonOutput {
				b, err := json.MarshalIndent(d.Candidates, "", "  ")
				if err != nil {
					return &ExitError{Code: ExitGeneric, Err: fmt.Errorf("marshaling candidates: %w", err)}
				}

				_, err = fmt.Fprintln(w, string(b))

				return err
			}

			if len(d.Candidates) == 0 {
				_, err := fmt.Fprintf(w, "order %d has no shunt element to pivot on\n", n)
				return err
			}

			_, err = fmt.Fprint(w, output.CandidateTable(d.Candidates, !useColor(cfg, w)))

			return err
		},
	}

	registerOrderFlag(cmd, &order)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output candidates as JSON")

	return cmd
}
