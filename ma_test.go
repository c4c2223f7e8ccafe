package tawindow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMAWindow(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, MA(Context{}, r, x, 3))
	assert.Equal(t, 2.0, r[2])
	assert.Equal(t, 3.0, r[3])
	assert.Equal(t, 4.0, r[4])
}

func TestMAIdentityAtPeriodOne(t *testing.T) {
	x := []float64{5, -3, 2.5, 9}
	r := make([]float64, len(x))
	require.NoError(t, MA(Context{}, r, x, 1))
	assert.Equal(t, x, r)
}

func TestMASkipNaN(t *testing.T) {
	nan := math.NaN()
	x := []float64{2, nan, 4, 6}
	r := make([]float64, len(x))
	require.NoError(t, MA(Context{Flags: FlagSkipNaN}, r, x, 2))
	// At index 2 the last 2 non-NaN values are {2,4} -> mean 3.
	assert.Equal(t, 3.0, r[2])
	assert.Equal(t, 5.0, r[3])
}

func TestLWMAIdentityAtPeriodOne(t *testing.T) {
	x := []float64{5, -3, 2.5, 9}
	r := make([]float64, len(x))
	require.NoError(t, LWMA(Context{}, r, x, 1))
	assert.Equal(t, x, r)
}

func TestLWMAWeightsRecentMore(t *testing.T) {
	x := []float64{1, 2, 3}
	r := make([]float64, len(x))
	require.NoError(t, LWMA(Context{}, r, x, 3))
	// weights 1,2,3 on 1,2,3 -> (1*1+2*2+3*3)/6 = 14/6
	assert.InDelta(t, 14.0/6.0, r[2], 1e-9)
}

func TestLWMAFullSeries(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, LWMA(Context{}, r, x, 3))
	assert.True(t, math.IsNaN(r[0]))
	assert.True(t, math.IsNaN(r[1]))
	assert.InDelta(t, 14.0/6.0, r[2], 1e-9)
	assert.InDelta(t, 20.0/6.0, r[3], 1e-9)
	assert.InDelta(t, 26.0/6.0, r[4], 1e-9)
}

func TestLWMARejectsNonPositivePeriods(t *testing.T) {
	x := []float64{1, 2, 3}
	r := make([]float64, len(x))
	err := LWMA(Context{}, r, x, 0)
	require.Error(t, err)
	var ipe *InvalidPeriodError
	assert.ErrorAs(t, err, &ipe)
}
