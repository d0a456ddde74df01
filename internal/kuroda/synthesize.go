package kuroda

import (
	"fmt"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// syntheticLine is the unit element shifted in from either end on every
// propagation pass.
const syntheticLine = 1.0

// Synthesize builds the line-only realization of in, pivoted on its
// shunt-th shunt element (0-based among the shunts). The input must
// alternate and is never modified.
//
// The result has 2·len(in)−1 elements, all of them Lines. A ladder with no
// shunt element (a lone series element) is converted with one identity
// against a unit line and yields two elements, the first of which is the
// resulting shunt stub.
func Synthesize(in ladder.Ladder, shunt int) (ladder.Ladder, error) {
	if len(in) == 0 {
		return ladder.Ladder{}, nil
	}

	shunts := in.Count(ladder.KindShunt)
	if shunts == 0 {
		a, b := Transform(ladder.Line(syntheticLine), in[0])
		return ladder.Ladder{a, b}, nil
	}

	if shunt < 0 || shunt >= shunts {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrPivotOutOfRange, shunt, shunts)
	}

	pivot := in.FirstShuntOffset() + 2*shunt
	buf := seed(in, pivot)

	propagateLeft(buf, pivot)
	propagateRight(buf, pivot, len(in))
	realizeStubs(buf)

	return buf, nil
}

// seed allocates the 2N−1 working buffer. The pivot shunt sits at
// cutoff = 2·pivot, which is also its final position. The elements left of
// the pivot are packed against it from the left and those right of it from
// the right, so that each propagation pass sweeps one contiguous run. Every
// other slot holds a Line(0) placeholder until a pass writes it.
func seed(in ladder.Ladder, pivot int) ladder.Ladder {
	buf := make(ladder.Ladder, 2*len(in)-1)
	for i := range buf {
		buf[i] = ladder.Line(0)
	}

	cutoff := 2 * pivot
	copy(buf[pivot:cutoff], in[:pivot])
	buf[cutoff] = in[pivot]
	copy(buf[cutoff+1:], in[pivot+1:])

	return buf
}

// propagateLeft shifts unit elements in from the left edge. After each pass
// buf[finalised:cutoff] alternates stub and line and is left alone:
//
//	. D R R P     D enters left of the reactive run R
//	. R S L P     the run shrinks by one, finalised moves two left
func propagateLeft(buf ladder.Ladder, pivot int) {
	start := pivot

	for finalised := 2 * pivot; finalised > 0; finalised -= 2 {
		start--
		buf[start] = ladder.Line(syntheticLine)

		for pos := start; pos+1 < finalised; pos++ {
			buf[pos], buf[pos+1] = Transform(buf[pos], buf[pos+1])
		}
	}
}

// propagateRight is the mirror of propagateLeft: unit elements enter at the
// right end of the unfinalised run and are swept down to finalised+1.
func propagateRight(buf ladder.Ladder, pivot, n int) {
	cutoff := 2 * pivot
	end := cutoff + n - pivot

	for finalised := cutoff; finalised < len(buf)-1; finalised += 2 {
		buf[end] = ladder.Line(syntheticLine)

		for pos := end; pos > finalised+1; pos-- {
			buf[pos-1], buf[pos] = Transform(buf[pos-1], buf[pos])
		}

		end++
	}
}

// realizeStubs turns every shunt stub left by the sweeps into the line
// segment that realizes it. Stubs occupy the even positions.
func realizeStubs(buf ladder.Ladder) {
	for i, e := range buf {
		switch e.Kind {
		case ladder.KindLine:
		case ladder.KindShunt:
			buf[i] = ladder.Line(e.Value)
		default:
			panic(fmt.Sprintf("%v: %s left at position %d after propagation", ErrContractViolation, e, i))
		}
	}
}

// IsStub reports whether position i of a synthesized ladder realizes a
// shunt stub rather than a cascaded unit element.
func IsStub(i int) bool {
	return i%2 == 0
}
