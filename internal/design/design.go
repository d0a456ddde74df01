// Package design runs the synthesis pipeline for one filter order and holds
// the resulting design document.
//
// The pipeline is: prototype table → load-stripped input ladder →
// alternation check and best-candidate search → denormalization.
package design

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/impedance"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/logging"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/prototype"
)

// Candidate is the score of one pivot choice.
type Candidate struct {
	Pivot    int     `json:"pivot"`
	Goodness float64 `json:"goodness"`
	Selected bool    `json:"selected,omitempty"`
}

// Design is a synthesized distributed-element filter.
type Design struct {
	// FormatVersion is the semantic version of the document layout.
	FormatVersion string `json:"formatVersion"`

	// Table names the prototype table the order was looked up in.
	Table string `json:"table"`

	Order int `json:"order"`

	// ReferenceImpedance is the system impedance in ohms used to
	// denormalize the result.
	ReferenceImpedance float64 `json:"referenceImpedance"`

	// Prototype is the tagged prototype ladder, load included.
	Prototype ladder.Ladder `json:"prototype"`

	// Pivot is the winning shunt index, -1 when there was none.
	Pivot int `json:"pivot"`

	Goodness float64 `json:"goodness"`

	// Normalized holds the line impedances relative to the reference.
	Normalized ladder.Ladder `json:"normalized"`

	// Physical holds the line impedances in ohms.
	Physical ladder.Ladder `json:"physical"`

	Candidates []Candidate `json:"candidates,omitempty"`
}

// Options configures Build.
type Options struct {
	// Table is the prototype source. Defaults to the Butterworth table.
	Table *prototype.Table

	// ReferenceImpedance defaults to impedance.DefaultReference.
	ReferenceImpedance float64

	// Workers bounds candidate evaluation concurrency; 0 means GOMAXPROCS.
	Workers int

	// Logger defaults to the logger carried by the context.
	Logger *slog.Logger
}

// Build synthesizes the design for order.
func Build(ctx context.Context, order int, opts Options) (*Design, error) {
	if opts.Table == nil {
		opts.Table = prototype.Default()
	}

	if opts.ReferenceImpedance == 0 {
		opts.ReferenceImpedance = impedance.DefaultReference
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Component(ctx, "design")
	}

	full, err := opts.Table.Ladder(order)
	if err != nil {
		return nil, err
	}

	in := full.WithoutLoad()

	logger.Debug("prototype ladder",
		slog.String("table", opts.Table.Name()),
		slog.Int("order", order),
		slog.String("ladder", in.String()),
	)

	sel, err := kuroda.Select(in,
		kuroda.WithWorkers(opts.Workers),
		kuroda.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("synthesizing order %d: %w", order, err)
	}

	physical, err := impedance.Denormalized(sel.Ladder, opts.ReferenceImpedance)
	if err != nil {
		return nil, fmt.Errorf("denormalizing order %d: %w", order, err)
	}

	logger.Info("design synthesized",
		slog.Int("order", order),
		slog.Int("pivot", sel.Pivot),
		slog.Float64("goodness", sel.Goodness),
		slog.Int("candidates", len(sel.Scores)),
	)

	return &Design{
		FormatVersion:      FormatVersion,
		Table:              opts.Table.Name(),
		Order:              order,
		ReferenceImpedance: opts.ReferenceImpedance,
		Prototype:          full,
		Pivot:              sel.Pivot,
		Goodness:           sel.Goodness,
		Normalized:         sel.Ladder,
		Physical:           physical,
		Candidates:         candidates(sel),
	}, nil
}

func candidates(sel *kuroda.Selection) []Candidate {
	if len(sel.Scores) == 0 {
		return nil
	}

	out := make([]Candidate, len(sel.Scores))
	for i, s := range sel.Scores {
		out[i] = Candidate{Pivot: i, Goodness: s, Selected: i == sel.Pivot}
	}

	return out
}

// Stubs counts the positions of the realization that act as shunt stubs.
func (d *Design) Stubs() int {
	n := 0
	for i := range d.Normalized {
		if kuroda.IsStub(i) {
			n++
		}
	}

	return n
}
