package kuroda

import (
	"gonum.org/v1/gonum/floats"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// Goodness returns the sum of squared magnitudes of l. Lower values mean a
// tighter impedance spread.
func Goodness(l ladder.Ladder) float64 {
	m := l.Magnitudes()
	return floats.Dot(m, m)
}
