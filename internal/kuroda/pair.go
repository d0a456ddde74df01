package kuroda

import (
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// Transform applies the Kuroda identity matching the ordered pair (a, b)
// and returns the equivalent pair. Exactly one of the inputs must be a Line
// and the other a Series or Shunt element; any other pairing is returned
// unchanged.
func Transform(a, b ladder.Element) (ladder.Element, ladder.Element) {
	switch {
	case a.Kind == ladder.KindLine && b.Kind == ladder.KindSeries:
		n := 1 + a.Value/b.Value
		return ladder.Shunt(a.Value * n), ladder.Line(b.Value * n)

	case a.Kind == ladder.KindLine && b.Kind == ladder.KindShunt:
		n := 1 + b.Value/a.Value
		return ladder.Series(a.Value / n), ladder.Line(b.Value / n)

	case a.Kind == ladder.KindShunt && b.Kind == ladder.KindLine:
		n := 1 + a.Value/b.Value
		return ladder.Line(a.Value / n), ladder.Series(b.Value / n)

	case a.Kind == ladder.KindSeries && b.Kind == ladder.KindLine:
		n := 1 + b.Value/a.Value
		return ladder.Line(n * a.Value), ladder.Shunt(n * b.Value)

	default:
		return a, b
	}
}
