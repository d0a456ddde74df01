// Package butterworth provides a public Go API for synthesizing
// distributed-element Butterworth lowpass filters.
//
// This package exposes the synthesis pipeline as a library, allowing
// programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := butterworth.Design(ctx, 5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Physical)
//
// With options:
//
//	result, err := butterworth.Design(ctx, 7,
//	    butterworth.WithReferenceImpedance(75),
//	    butterworth.WithTableFile("chebyshev.yaml"),
//	)
package butterworth

import (
	"context"
	"fmt"
	"log/slog"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/impedance"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/prototype"
)

// Errors returned by Design. Test with errors.Is.
var (
	ErrOrderOutOfRange    = prototype.ErrOrderOutOfRange
	ErrInvalidCoefficient = prototype.ErrInvalidCoefficient
	ErrInvalidLadder      = kuroda.ErrInvalidInput
	ErrContractViolation  = kuroda.ErrContractViolation
	ErrInvalidReference   = impedance.ErrInvalidReference
)

// Option configures the synthesis pipeline.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	referenceImpedance float64
	workers            int
	tableFile          string
	logger             *slog.Logger
}

// WithReferenceImpedance sets the system impedance in ohms (default 50).
func WithReferenceImpedance(ohms float64) Option {
	return func(o *options) { o.referenceImpedance = ohms }
}

// WithWorkers bounds the goroutines scoring pivot candidates.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithTableFile replaces the built-in Butterworth table with a YAML
// prototype table.
func WithTableFile(path string) Option { return func(o *options) { o.tableFile = path } }

// WithLogger sets the logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Result holds the output of a synthesis.
type Result struct {
	// YAML is the design document, readable by the CLI's diff command.
	YAML []byte

	Order int

	// Pivot is the index of the shunt element the winning candidate was
	// built around, or -1 for a first-order filter.
	Pivot int

	// Goodness is the sum of squared normalized impedances; lower is better.
	Goodness float64

	// Normalized and Physical list the element values in ladder order.
	// Even positions are stubs, odd positions unit elements.
	Normalized []float64
	Physical   []float64

	// Candidates maps every evaluated pivot to its goodness.
	Candidates map[int]float64
}

// Design synthesizes the line-only realization of a lowpass filter of the
// given order.
func Design(ctx context.Context, order int, opts ...Option) (*Result, error) {
	o := &options{referenceImpedance: impedance.DefaultReference}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	tbl := prototype.Default()

	if o.tableFile != "" {
		t, err := prototype.LoadFile(o.tableFile)
		if err != nil {
			return nil, err
		}

		tbl = t
	}

	d, err := design.Build(ctx, order, design.Options{
		Table:              tbl,
		ReferenceImpedance: o.referenceImpedance,
		Workers:            o.workers,
		Logger:             o.logger,
	})
	if err != nil {
		return nil, err
	}

	data, err := sigsyaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serializing design: %w", err)
	}

	res := &Result{
		YAML:       data,
		Order:      d.Order,
		Pivot:      d.Pivot,
		Goodness:   d.Goodness,
		Normalized: d.Normalized.Magnitudes(),
		Physical:   d.Physical.Magnitudes(),
		Candidates: make(map[int]float64, len(d.Candidates)),
	}

	for _, c := range d.Candidates {
		res.Candidates[c.Pivot] = c.Goodness
	}

	return res, nil
}
