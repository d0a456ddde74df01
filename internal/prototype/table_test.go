package prototype

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// ---------------------------------------------------------------------------
// Default table
// ---------------------------------------------------------------------------

func TestDefault_Orders(t *testing.T) {
	tbl := Default()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, tbl.Orders())

	lo, hi := tbl.Range()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 10, hi)
	assert.Equal(t, "butterworth", tbl.Name())
}

func TestDefault_RowsAreSymmetric(t *testing.T) {
	tbl := Default()

	for _, order := range tbl.Orders() {
		g, err := tbl.Coefficients(order)
		require.NoError(t, err)

		proto := g[:order]
		for i := range proto {
			assert.InDelta(t, proto[i], proto[len(proto)-1-i], 1e-9, "order=%d g%d", order, i+1)
		}

		assert.Equal(t, 1.0, g[order], "order=%d load", order)
	}
}

func TestLadder_AllOrdersAlternate(t *testing.T) {
	tbl := Default()

	for order := 1; order <= 10; order++ {
		full, err := tbl.Ladder(order)
		require.NoError(t, err)

		require.Len(t, full, order+1)
		assert.Equal(t, ladder.KindLoad, full[order].Kind, "order=%d", order)

		in := full.WithoutLoad()
		assert.Len(t, in, order)
		assert.True(t, in.Alternates(), "order=%d: %s", order, in)
		assert.Equal(t, ladder.KindSeries, in[0].Kind)
	}
}

func TestLadder_ThirdOrder(t *testing.T) {
	full, err := Default().Ladder(3)
	require.NoError(t, err)

	assert.Equal(t, ladder.Ladder{
		ladder.Series(1), ladder.Shunt(0.5), ladder.Series(1), ladder.Load(1),
	}, full)
}

func TestCoefficients_OutOfRange(t *testing.T) {
	for _, order := range []int{0, -1, 11, 42} {
		_, err := Default().Coefficients(order)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrOrderOutOfRange)
		assert.Contains(t, err.Error(), "[1, 10]")
	}
}

func TestCoefficients_ReturnsCopy(t *testing.T) {
	tbl := Default()

	g, err := tbl.Coefficients(2)
	require.NoError(t, err)
	g[0] = 99

	again, err := tbl.Coefficients(2)
	require.NoError(t, err)
	assert.Equal(t, 1.4142, again[0])
}

// ---------------------------------------------------------------------------
// New
// ---------------------------------------------------------------------------

func TestNew_RejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rows map[int][]float64
	}{
		{"empty", map[int][]float64{}},
		{"zero order", map[int][]float64{0: {1}}},
		{"short row", map[int][]float64{3: {1, 2, 1}}},
		{"zero value", map[int][]float64{2: {1, 0, 1}}},
		{"negative value", map[int][]float64{2: {1, -2, 1}}},
		{"NaN", map[int][]float64{1: {math.NaN(), 1}}},
		{"Inf", map[int][]float64{1: {math.Inf(1), 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("custom", tt.rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCoefficient)
		})
	}
}

func TestFromCoefficients(t *testing.T) {
	l := FromCoefficients([]float64{0.7654, 1.8478, 1.8478, 0.7654, 1.0})

	require.Len(t, l, 5)
	assert.Equal(t, ladder.Series(0.7654), l[0])
	assert.Equal(t, ladder.KindShunt, l[1].Kind)
	assert.InDelta(t, 1/1.8478, l[1].Value, 1e-12)
	assert.Equal(t, ladder.Series(1.8478), l[2])
	assert.InDelta(t, 1/0.7654, l[3].Value, 1e-12)
	assert.Equal(t, ladder.Load(1), l[4])
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func writeTable(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "cheby.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoadFile(t *testing.T) {
	p := writeTable(t, "name: chebyshev-0.5db\norders:\n  3: [1.5963, 1.0967, 1.5963, 1.0]\n")

	tbl, err := LoadFile(p)
	require.NoError(t, err)

	assert.Equal(t, "chebyshev-0.5db", tbl.Name())
	assert.Equal(t, []int{3}, tbl.Orders())

	_, err = tbl.Ladder(4)
	assert.ErrorIs(t, err, ErrOrderOutOfRange)
	assert.Contains(t, err.Error(), "[3, 3]")
}

func TestLoadFile_NameFromFilename(t *testing.T) {
	p := writeTable(t, "orders:\n  1: [2.0, 1.0]\n")

	tbl, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "cheby", tbl.Name())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading prototype table")
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("orders:\n  1: [2.0, 1.0]\nripple: 0.5\n"), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing prototype table")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(nil, "x")
	assert.ErrorIs(t, err, ErrInvalidCoefficient)
}

func TestParse_ZeroCoefficient(t *testing.T) {
	_, err := Parse([]byte("orders:\n  2: [1.0, 0.0, 1.0]\n"), "x")
	assert.ErrorIs(t, err, ErrInvalidCoefficient)
}
