package impedance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

func TestDenormalize_ScalesLinesAndShunts(t *testing.T) {
	l := ladder.Ladder{ladder.Shunt(1.5), ladder.Line(3), ladder.Line(0.5)}

	require.NoError(t, Denormalize(l, DefaultReference))

	assert.Equal(t, ladder.Ladder{ladder.Shunt(75), ladder.Line(150), ladder.Line(25)}, l)
}

func TestDenormalize_RejectsSeriesAndLoad(t *testing.T) {
	for _, bad := range []ladder.Element{ladder.Series(1), ladder.Load(1)} {
		l := ladder.Ladder{ladder.Line(2), bad}

		err := Denormalize(l, 50)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrContractViolation)
		assert.Contains(t, err.Error(), "position 1")

		// Nothing is scaled when the ladder is rejected.
		assert.Equal(t, 2.0, l[0].Value)
	}
}

func TestDenormalize_InvalidReference(t *testing.T) {
	for _, z0 := range []float64{0, -50, math.NaN(), math.Inf(1)} {
		err := Denormalize(ladder.Ladder{ladder.Line(1)}, z0)
		assert.ErrorIs(t, err, ErrInvalidReference, "z0=%v", z0)
	}
}

func TestDenormalized_LeavesInputAlone(t *testing.T) {
	l := ladder.Ladder{ladder.Line(2)}

	out, err := Denormalized(l, 75)
	require.NoError(t, err)

	assert.Equal(t, ladder.Ladder{ladder.Line(150)}, out)
	assert.Equal(t, ladder.Ladder{ladder.Line(2)}, l)
}

func TestDenormalized_Empty(t *testing.T) {
	out, err := Denormalized(nil, 50)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
