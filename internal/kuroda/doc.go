// Package kuroda converts a lumped lowpass ladder into a distributed
// realization made only of transmission-line segments.
//
// The package is organized around four concerns:
//
//   - Pair transformation (pair.go): the four Kuroda-type identities that
//     exchange a unit element with its reactive neighbour while preserving
//     the two-port behaviour of the pair.
//
//   - Candidate synthesis (synthesize.go): starting from one shunt element
//     (the pivot), synthetic unit elements are shifted in from both ends of
//     the ladder until every reactive element has been absorbed.
//
//   - Scoring (goodness.go): a candidate's goodness is the sum of squares of
//     its normalized impedances. Lower is better.
//
//   - Selection (select.go): every pivot is synthesized and scored, the
//     lowest score wins and is synthesized once more for the caller.
//
// A quick picture of a third-order ladder pivoted on its only shunt:
//
//	Series  Shunt  Series
//	   \      |      /
//	 Line Line Line Line Line
package kuroda
