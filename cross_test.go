package tawindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossDetectsUpwardCross(t *testing.T) {
	a := []float64{1, 2, 5}
	b := []float64{3, 3, 3}
	r := make([]float64, len(a))
	require.NoError(t, Cross(Context{}, r, a, b))
	assert.Equal(t, []float64{0, 0, 1}, r)
}

func TestRCrossDetectsDownwardCross(t *testing.T) {
	a := []float64{5, 4, 1}
	b := []float64{3, 3, 3}
	r := make([]float64, len(a))
	require.NoError(t, RCross(Context{}, r, a, b))
	assert.Equal(t, []float64{0, 0, 1}, r)
}

func TestLongCrossRequiresSustainedPriorRelation(t *testing.T) {
	// a stays strictly below b for 2 bars, then crosses above on bar 2.
	a := []float64{1, 1, 5}
	b := []float64{3, 3, 3}
	r := make([]float64, len(a))
	require.NoError(t, LongCross(Context{}, r, a, b, 2))
	assert.Equal(t, []float64{0, 0, 1}, r)
}

func TestLongCrossFailsWithoutSustainedRelation(t *testing.T) {
	// a was already above b one bar back, so this isn't a sustained cross.
	a := []float64{5, 5, 5}
	b := []float64{3, 3, 3}
	r := make([]float64, len(a))
	require.NoError(t, LongCross(Context{}, r, a, b, 2))
	assert.Equal(t, []float64{0, 0, 0}, r)
}

func TestLongCrossRejectsNegativeBars(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{1, 2}
	r := make([]float64, len(a))
	err := LongCross(Context{}, r, a, b, -1)
	require.Error(t, err)
}

func TestLongCrossZeroBarsComparesCurrentDirectly(t *testing.T) {
	a := []float64{1, 2, 1}
	b := []float64{2, 1, 1}
	r := make([]float64, len(a))
	require.NoError(t, LongCross(Context{}, r, a, b, 0))
	assert.Equal(t, []float64{0, 1, 1}, r)

	rr := make([]float64, len(a))
	require.NoError(t, RLongCross(Context{}, rr, a, b, 0))
	assert.Equal(t, []float64{1, 0, 1}, rr)
}
