package ladder

import (
	"strings"
)

// Ladder is an ordered sequence of elements, source side first.
type Ladder []Element

// Alternates reports whether every adjacent pair is (Series, Shunt) or
// (Shunt, Series). Empty and single-element ladders alternate trivially.
func (l Ladder) Alternates() bool {
	for i := 1; i < len(l); i++ {
		a, b := l[i-1].Kind, l[i].Kind
		if !a.Reactive() || !b.Reactive() || a == b {
			return false
		}
	}

	return true
}

// Count returns how many elements of kind k the ladder holds.
func (l Ladder) Count(k Kind) int {
	n := 0
	for _, e := range l {
		if e.Kind == k {
			n++
		}
	}

	return n
}

// FirstShuntOffset is 0 when the ladder opens with a shunt element and 1
// otherwise.
func (l Ladder) FirstShuntOffset() int {
	if len(l) > 0 && l[0].Kind == KindShunt {
		return 0
	}

	return 1
}

// AllLines reports whether every element is a Line.
func (l Ladder) AllLines() bool {
	for _, e := range l {
		if e.Kind != KindLine {
			return false
		}
	}

	return true
}

// WithoutLoad returns the ladder without its trailing Load, if any.
// The backing array is shared with l.
func (l Ladder) WithoutLoad() Ladder {
	if n := len(l); n > 0 && l[n-1].Kind == KindLoad {
		return l[:n-1]
	}

	return l
}

// Magnitudes returns the numeric payloads in ladder order.
func (l Ladder) Magnitudes() []float64 {
	out := make([]float64, len(l))
	for i, e := range l {
		out[i] = e.Value
	}

	return out
}

// Clone returns an independent copy of l.
func (l Ladder) Clone() Ladder {
	if l == nil {
		return nil
	}

	out := make(Ladder, len(l))
	copy(out, l)

	return out
}

// String renders the ladder as "[Series(1.0000), Shunt(0.5000)]".
func (l Ladder) String() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
