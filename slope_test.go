package tawindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlopeOfPerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, Slope(Context{}, r, x, 3))
	for i := 2; i < len(x); i++ {
		assert.InDelta(t, 1.0, r[i], 1e-9)
	}
}

func TestInterceptOfPerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, Intercept(Context{}, r, x, 3))
	// Window always starts at the same relative value on a straight line.
	for i := 2; i < len(x); i++ {
		assert.InDelta(t, x[i-2], r[i], 1e-9)
	}
}

func TestTSCorrelationOfPerfectLineIsOne(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	r := make([]float64, len(x))
	require.NoError(t, TSCorrelation(Context{}, r, x, 3))
	for i := 2; i < len(x); i++ {
		assert.InDelta(t, 1.0, r[i], 1e-9)
	}
}

func TestTSCorrelationOfFlatLineIsUndefined(t *testing.T) {
	x := []float64{3, 3, 3, 3}
	r := make([]float64, len(x))
	require.NoError(t, TSCorrelation(Context{}, r, x, 3))
	// Zero variance in y leaves correlation undefined -> left as NaN.
	for i := 2; i < len(x); i++ {
		assert.True(t, isNaNFloat64(r[i]))
	}
}

func TestSlopeRejectsTooFewPeriods(t *testing.T) {
	x := []float64{1, 2}
	r := make([]float64, len(x))
	err := Slope(Context{}, r, x, 1)
	require.Error(t, err)
}

func isNaNFloat64(v float64) bool {
	return v != v
}
