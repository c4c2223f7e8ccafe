package tawindow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardReturnMatchesLiteralScenario(t *testing.T) {
	open := []float64{10, 11, 12, 13, 14}
	high := []float64{10.5, 11.5, 12.5, 13.5, 14.5}
	low := []float64{9.5, 10.5, 11.5, 12.5, 13.5}
	close := []float64{10.5, 11.5, 12.5, 13.5, 14.5}
	r := make([]float64, len(open))
	require.NoError(t, ForwardReturn(Context{}, r, open, high, low, close, 1, 1))

	assert.InDelta(t, (11.5-11.0)/11.0, r[0], 1e-9)
	assert.InDelta(t, (12.5-12.0)/12.0, r[1], 1e-9)
	assert.InDelta(t, (13.5-13.0)/13.0, r[2], 1e-9)
	assert.InDelta(t, (14.5-14.0)/14.0, r[3], 1e-9)
	assert.True(t, math.IsNaN(r[4]))
}

func TestForwardReturnWithDelay(t *testing.T) {
	open := []float64{10, 11, 12, 13, 14}
	high := []float64{10.5, 11.5, 12.5, 13.5, 14.5}
	low := []float64{9.5, 10.5, 11.5, 12.5, 13.5}
	close := []float64{10.5, 11.5, 12.5, 13.5, 14.5}
	r := make([]float64, len(open))
	require.NoError(t, ForwardReturn(Context{}, r, open, high, low, close, 2, 1))

	assert.InDelta(t, (12.5-12.0)/12.0, r[0], 1e-9)
	assert.InDelta(t, (13.5-13.0)/13.0, r[1], 1e-9)
	assert.InDelta(t, (14.5-14.0)/14.0, r[2], 1e-9)
	assert.True(t, math.IsNaN(r[3]))
	assert.True(t, math.IsNaN(r[4]))
}

func TestForwardReturnDegenerateBarIsNaN(t *testing.T) {
	open := []float64{10, 11, 12}
	high := []float64{11, 11, 13}
	low := []float64{9, 11, 11}
	close := []float64{10.5, 11, 12.5}
	r := make([]float64, len(open))
	require.NoError(t, ForwardReturn(Context{}, r, open, high, low, close, 1, 1))
	assert.True(t, math.IsNaN(r[0]))
}

func TestForwardReturnRejectsZeroBase(t *testing.T) {
	// delay=1 makes the entry bar for i=0 index 1, which has a zero open.
	open := []float64{10, 0, 20}
	high := []float64{10.5, 1, 20.5}
	low := []float64{9.5, -1, 19.5}
	close := []float64{10.5, 0.5, 20.5}
	r := make([]float64, len(open))
	require.NoError(t, ForwardReturn(Context{}, r, open, high, low, close, 1, 1))
	assert.True(t, math.IsNaN(r[0]))
}

func TestForwardReturnZeroPeriodsIsNoOp(t *testing.T) {
	open := []float64{10, 11, 12}
	high := []float64{10.5, 11.5, 12.5}
	low := []float64{9.5, 10.5, 11.5}
	close := []float64{10.5, 11.5, 12.5}
	r := make([]float64, len(open))
	require.NoError(t, ForwardReturn(Context{}, r, open, high, low, close, 1, 0))
	for _, v := range r {
		assert.True(t, math.IsNaN(v))
	}
}
