package tawindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHHVLLVWindow(t *testing.T) {
	x := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	hhv := make([]float64, len(x))
	llv := make([]float64, len(x))
	require.NoError(t, HHV(Context{}, hhv, x, 3))
	require.NoError(t, LLV(Context{}, llv, x, 3))

	assert.Equal(t, 4.0, hhv[2]) // max(3,1,4)
	assert.Equal(t, 5.0, hhv[4]) // max(4,1,5)
	assert.Equal(t, 9.0, hhv[5]) // max(1,5,9)
	assert.Equal(t, 1.0, llv[2]) // min(3,1,4)
	assert.Equal(t, 1.0, llv[3]) // min(1,4,1)
}

func TestHHVBarsPointsToMaxPosition(t *testing.T) {
	x := []float64{1, 5, 2, 2, 2}
	r := make([]float64, len(x))
	require.NoError(t, HHVBars(Context{}, r, x, 3))
	// At index 3, window is x[1:4] = {5,2,2}; the max (5) sits 2 bars back.
	assert.Equal(t, 2.0, r[3])
}

func TestLLVBarsZeroWhenCurrentBarIsMin(t *testing.T) {
	x := []float64{5, 4, 1}
	r := make([]float64, len(x))
	require.NoError(t, LLVBars(Context{}, r, x, 3))
	assert.Equal(t, 0.0, r[2])
}

func TestHHVCumulative(t *testing.T) {
	x := []float64{1, 5, 3, 9, 2}
	r := make([]float64, len(x))
	require.NoError(t, HHV(Context{}, r, x, 0))
	assert.Equal(t, []float64{1, 5, 5, 9, 9}, r)
}
