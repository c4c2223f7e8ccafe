package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentsPartitionsEvenly(t *testing.T) {
	segs := Segments(10, 5)
	require.Len(t, segs, 5)
	for i, seg := range segs {
		assert.Equal(t, i*2, seg.Start)
		assert.Equal(t, (i+1)*2, seg.End)
	}
}

func TestSegmentsFoldsRemainderIntoFinalSegment(t *testing.T) {
	segs := Segments(10, 3)
	require.Len(t, segs, 4)
	assert.Equal(t, []Segment{{0, 3}, {3, 6}, {6, 9}, {9, 10}}, segs)
}

func TestSegmentsNormalisesZeroGroups(t *testing.T) {
	segs := Segments(10, 0)
	require.Len(t, segs, 1)
	assert.Equal(t, Segment{Start: 0, End: 10}, segs[0])
}

func TestRunCollectsFirstError(t *testing.T) {
	segs := Segments(6, 3)
	boom := errors.New("boom")
	err := Run(segs, func(seg Segment) error {
		if seg.Start == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunGivesEachSegmentExclusiveRange(t *testing.T) {
	out := make([]int, 9)
	segs := Segments(len(out), 3)
	err := Run(segs, func(seg Segment) error {
		for i := seg.Start; i < seg.End; i++ {
			out[i] = seg.Start
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 3, 3, 3, 6, 6, 6}, out)
}
