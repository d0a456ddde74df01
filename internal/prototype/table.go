// Package prototype provides the normalized lowpass ladder prototypes the
// synthesis starts from: a table of g-values per filter order and the
// conversion of one row into a tagged ladder.
package prototype

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

var (
	// ErrOrderOutOfRange is returned for an order the table has no row for.
	ErrOrderOutOfRange = errors.New("filter order out of range")

	// ErrInvalidCoefficient is returned for a zero, negative or non-finite
	// g-value, or a row whose length does not match its order.
	ErrInvalidCoefficient = errors.New("invalid prototype coefficient")
)

// butterworth holds g1..gN followed by the load g(N+1) for orders 1-10,
// normalized to a unit source and a cutoff of 1 rad/s.
var butterworth = map[int][]float64{
	1:  {2.0, 1.0},
	2:  {1.4142, 1.4142, 1.0},
	3:  {1.0, 2.0, 1.0, 1.0},
	4:  {0.7654, 1.8478, 1.8478, 0.7654, 1.0},
	5:  {0.618, 1.618, 2.0, 1.618, 0.618, 1.0},
	6:  {0.5176, 1.4142, 1.9318, 1.9318, 1.4142, 0.5176, 1.0},
	7:  {0.445, 1.247, 1.8019, 2.0, 1.8019, 1.247, 0.445, 1.0},
	8:  {0.3902, 1.111, 1.6629, 1.9615, 1.9615, 1.6629, 1.111, 0.3902, 1.0},
	9:  {0.3473, 1.0, 1.5321, 1.8794, 2.0, 1.8794, 1.5321, 1.0, 0.3473, 1.0},
	10: {0.3129, 0.908, 1.4142, 1.782, 1.9754, 1.9754, 1.782, 1.4142, 0.908, 0.3129, 1.0},
}

// Table maps filter orders to prototype g-values.
type Table struct {
	name string
	rows map[int][]float64
}

// Default returns the built-in maximally flat (Butterworth) table.
func Default() *Table {
	t, err := New("butterworth", butterworth)
	if err != nil {
		panic(err)
	}

	return t
}

// New builds a table from rows keyed by order. Each row must hold order+1
// strictly positive, finite values: g1..gN and the load.
func New(name string, rows map[int][]float64) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table %q has no rows", ErrInvalidCoefficient, name)
	}

	t := &Table{name: name, rows: make(map[int][]float64, len(rows))}

	for order, g := range rows {
		if order < 1 {
			return nil, fmt.Errorf("%w: table %q: order %d must be at least 1", ErrInvalidCoefficient, name, order)
		}

		if err := validateRow(order, g); err != nil {
			return nil, fmt.Errorf("table %q: %w", name, err)
		}

		t.rows[order] = slices.Clone(g)
	}

	return t, nil
}

func validateRow(order int, g []float64) error {
	if len(g) != order+1 {
		return fmt.Errorf("%w: order %d needs %d values (g1..g%d and load), got %d",
			ErrInvalidCoefficient, order, order+1, order, len(g))
	}

	for i, v := range g {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: order %d: g%d = %v must be positive and finite",
				ErrInvalidCoefficient, order, i+1, v)
		}
	}

	return nil
}

// Name returns the table's display name.
func (t *Table) Name() string { return t.name }

// Orders returns the supported orders in ascending order.
func (t *Table) Orders() []int {
	orders := make([]int, 0, len(t.rows))
	for o := range t.rows {
		orders = append(orders, o)
	}

	slices.Sort(orders)

	return orders
}

// Range returns the smallest and largest supported order.
func (t *Table) Range() (lo, hi int) {
	orders := t.Orders()
	return orders[0], orders[len(orders)-1]
}

// Coefficients returns a copy of the g-values for order, load included.
func (t *Table) Coefficients(order int) ([]float64, error) {
	g, ok := t.rows[order]
	if !ok {
		lo, hi := t.Range()
		return nil, fmt.Errorf("%w: order %d outside supported range [%d, %d]", ErrOrderOutOfRange, order, lo, hi)
	}

	return slices.Clone(g), nil
}

// Ladder returns the tagged ladder for order, terminated by its Load.
func (t *Table) Ladder(order int) (ladder.Ladder, error) {
	g, err := t.Coefficients(order)
	if err != nil {
		return nil, err
	}

	return FromCoefficients(g), nil
}

// FromCoefficients tags a row of g-values: even positions become series
// reactances, odd positions shunt susceptances (1/g) and the final value
// the terminating load.
func FromCoefficients(g []float64) ladder.Ladder {
	l := make(ladder.Ladder, 0, len(g))

	for i, v := range g {
		switch {
		case i == len(g)-1:
			l = append(l, ladder.Load(v))
		case i%2 == 0:
			l = append(l, ladder.Series(v))
		default:
			l = append(l, ladder.Shunt(1/v))
		}
	}

	return l
}
