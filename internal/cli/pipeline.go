package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/config"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/impedance"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/prototype"
)

// loadTable returns the prototype table selected by cfg.
func loadTable(cfg *config.Config) (*prototype.Table, error) {
	if cfg.Table == "" {
		return prototype.Default(), nil
	}

	t, err := prototype.LoadFile(cfg.Table)
	if err != nil {
		return nil, &ExitError{Code: ExitOrderOutOfRange, Err: err}
	}

	return t, nil
}

// runPipeline synthesizes the design for order from tbl with the settings
// carried by ctx. This is the shared core of design, candidates and watch.
func runPipeline(ctx context.Context, tbl *prototype.Table, order int) (*design.Design, error) {
	cfg := config.FromContext(ctx)

	d, err := design.Build(ctx, order, design.Options{
		Table:              tbl,
		ReferenceImpedance: cfg.ReferenceImpedance,
		Workers:            cfg.Workers,
		Logger:             logging.Component(ctx, "design"),
	})
	if err != nil {
		return nil, classify(err)
	}

	return d, nil
}

// classify attaches the exit code matching err's sentinel.
func classify(err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	code := ExitGeneric

	switch {
	case errors.Is(err, prototype.ErrOrderOutOfRange), errors.Is(err, prototype.ErrInvalidCoefficient):
		code = ExitOrderOutOfRange
	case errors.Is(err, kuroda.ErrInvalidInput), errors.Is(err, kuroda.ErrPivotOutOfRange):
		code = ExitInvalidLadder
	case errors.Is(err, kuroda.ErrContractViolation), errors.Is(err, impedance.ErrContractViolation):
		code = ExitContractViolation
	case errors.Is(err, impedance.ErrInvalidReference):
		code = ExitUsage
	}

	return &ExitError{Code: code, Err: err}
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// useColor reports whether styled output should be written to w.
func useColor(cfg *config.Config, w io.Writer) bool {
	return !cfg.NoColor && isTerminal(w)
}

// describeRange formats the supported orders of tbl for messages.
func describeRange(tbl *prototype.Table) string {
	lo, hi := tbl.Range()
	return fmt.Sprintf("%d-%d", lo, hi)
}
