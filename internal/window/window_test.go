package window

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterDropsExactlyThePrevStartToStartRange(t *testing.T) {
	nan := math.NaN()
	data := []float64{1, nan, 2, 3, 4, 5}

	var starts, prevStarts, ends, counts []int
	Iter(data, 2, 0, func(it Item) bool {
		starts = append(starts, it.Start)
		prevStarts = append(prevStarts, it.PrevStart)
		ends = append(ends, it.End)
		counts = append(counts, it.NoNanCount)
		return true
	})

	assert.Equal(t, len(data), len(ends))
	// The window never holds more than 2 non-NaN values.
	for _, c := range counts {
		assert.LessOrEqual(t, c, 2)
	}
	// prev_start never exceeds start (start only ever moves forward).
	for i := range starts {
		assert.LessOrEqual(t, prevStarts[i], starts[i])
	}
	// Step 3 drops data[0:2] (the 1 and the NaN after it); each later step
	// drops exactly one value.
	assert.Equal(t, []int{0, 0, 0, 2, 3, 4}, starts)
	assert.Equal(t, []int{0, 0, 0, 0, 2, 3}, prevStarts)
}

func TestIterStopsEarlyOnFalse(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	seen := 0
	Iter(data, 2, 0, func(it Item) bool {
		seen++
		return it.End < 2
	})
	assert.Equal(t, 3, seen)
}

func TestHasNaNReflectsGaps(t *testing.T) {
	it := Item{Start: 0, End: 2, NoNanCount: 2}
	assert.True(t, it.HasNaN())
	it.NoNanCount = 3
	assert.False(t, it.HasNaN())
}
