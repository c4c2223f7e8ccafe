package tawindow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumBasicWindow(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, Sum(Context{}, r, x, 3))

	// Without STRICTLY_CYCLE the warm-up positions hold partial sums.
	assert.Equal(t, 1.0, r[0])
	assert.Equal(t, 3.0, r[1])
	assert.Equal(t, 6.0, r[2])
	assert.Equal(t, 9.0, r[3])
	assert.Equal(t, 12.0, r[4])
}

func TestSumCumulative(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	r := make([]float64, len(x))
	require.NoError(t, Sum(Context{}, r, x, 0))
	assert.Equal(t, []float64{1, 3, 6, 10}, r)
}

func TestSumSkipNaN(t *testing.T) {
	nan := math.NaN()
	x := []float64{1, nan, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, Sum(Context{Flags: FlagSkipNaN}, r, x, 3))

	// Window only counts non-NaN values: by index 3 the last 3 non-NaN
	// values are {1,3,4}.
	assert.Equal(t, 8.0, r[3])
	assert.Equal(t, 12.0, r[4])
}

func TestSumStrictlyCycleWarmup(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	r := make([]float64, len(x))
	require.NoError(t, Sum(Context{Flags: FlagStrictlyCycle}, r, x, 3))
	assert.True(t, math.IsNaN(r[0]))
	assert.True(t, math.IsNaN(r[1]))
	assert.Equal(t, 6.0, r[2])
}

func TestSumLengthMismatch(t *testing.T) {
	err := Sum(Context{}, make([]float64, 2), make([]float64, 3), 1)
	require.Error(t, err)
	var lm *LengthMismatchError
	assert.ErrorAs(t, err, &lm)
}

func TestSumGroupedMatchesConcatenatedSubcalls(t *testing.T) {
	x := make([]float64, 8)
	for i := range x {
		x[i] = float64(i + 1)
	}
	grouped := make([]float64, len(x))
	require.NoError(t, Sum(Context{Groups: 2}, grouped, x, 3))

	want := make([]float64, len(x))
	require.NoError(t, Sum(Context{}, want[:4], x[:4], 3))
	require.NoError(t, Sum(Context{}, want[4:], x[4:], 3))

	assert.Equal(t, want, grouped)
}

func TestSumIfCumulative(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	cond := []bool{true, false, true, true}
	r := make([]float64, len(x))
	require.NoError(t, SumIf(Context{}, r, x, cond, 0))
	assert.Equal(t, []float64{1, 1, 4, 8}, r)
}

func TestSumBarsFindsDistance(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	r := make([]float64, len(x))
	require.NoError(t, SumBars(Context{}, r, x, 3))
	// From index 2 backward: 1+1+1 = 3 reached after 3 bars.
	assert.Equal(t, 3.0, r[2])
	assert.Equal(t, 3.0, r[4])
}

func TestProductWindow(t *testing.T) {
	x := []float64{2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, Product(Context{}, r, x, 2))
	assert.Equal(t, 6.0, r[1])
	assert.Equal(t, 12.0, r[2])
	assert.Equal(t, 20.0, r[3])
}

func TestProductZeroFactor(t *testing.T) {
	x := []float64{1, 0, 3}
	r := make([]float64, len(x))
	require.NoError(t, Product(Context{}, r, x, 2))
	assert.Equal(t, 0.0, r[1])
	assert.Equal(t, 0.0, r[2])
}
