// Package impedance scales normalized ladder magnitudes to physical ohms.
package impedance

import (
	"errors"
	"fmt"
	"math"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// DefaultReference is the conventional system reference impedance in ohms.
const DefaultReference = 50.0

var (
	// ErrInvalidReference is returned for a non-positive or non-finite
	// reference impedance.
	ErrInvalidReference = errors.New("reference impedance must be positive and finite")

	// ErrContractViolation is returned when a transformed ladder still holds
	// a series or load element.
	ErrContractViolation = errors.New("unexpected element in transformed ladder")
)

// Denormalize multiplies every Line and Shunt magnitude of l by z0, in
// place. Any Series or Load element is reported and l is left untouched.
func Denormalize(l ladder.Ladder, z0 float64) error {
	if z0 <= 0 || math.IsNaN(z0) || math.IsInf(z0, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, z0)
	}

	for i, e := range l {
		if e.Kind != ladder.KindLine && e.Kind != ladder.KindShunt {
			return fmt.Errorf("%w: %s at position %d", ErrContractViolation, e, i)
		}
	}

	for i := range l {
		l[i] = l[i].Scaled(z0)
	}

	return nil
}

// Denormalized returns a scaled copy of l, leaving l unchanged.
func Denormalized(l ladder.Ladder, z0 float64) (ladder.Ladder, error) {
	out := l.Clone()
	if out == nil {
		out = ladder.Ladder{}
	}

	if err := Denormalize(out, z0); err != nil {
		return nil, err
	}

	return out, nil
}
