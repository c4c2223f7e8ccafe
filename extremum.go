package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// HHV writes the highest input value in the preceding `periods` window.
// periods == 0 selects the cumulative (expanding) maximum.
func HHV[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return runExtremum(ctx, r, input, periods, true, false)
}

// LLV writes the lowest input value in the preceding `periods` window.
func LLV[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return runExtremum(ctx, r, input, periods, false, false)
}

// HHVBars writes how many bars back the window's highest value occurred
// (0 meaning the current bar holds the maximum).
func HHVBars[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return runExtremum(ctx, r, input, periods, true, true)
}

// LLVBars writes how many bars back the window's lowest value occurred.
func LLVBars[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return runExtremum(ctx, r, input, periods, false, true)
}

// runExtremum is the shared monotonic-deque engine behind HHV/LLV and
// their *Bars companions, grounded on original_source/src/algo/
// extremum.rs's run_extremum: a deque of candidate indices kept in
// strictly-decreasing (max) or strictly-increasing (min) value order, so
// the window extremum is always the front element.
func runExtremum[F numeric.Float](ctx Context, r, input []F, periods int, wantMax, wantBars bool) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		extremumSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods, wantMax, wantBars)
		return nil
	})
}

func extremumSegment[F numeric.Float](ctx Context, r, x []F, periods int, wantMax, wantBars bool) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	better := func(a, b F) bool {
		if wantMax {
			return a >= b
		}
		return a <= b
	}

	deque := make([]int, 0, 64)
	skipNaN := ctx.SkipNaN()
	count := 0 // number of values logically in the current window
	lastNaN := -1

	for i := start; i < len(x); i++ {
		v := x[i]
		if !numeric.IsNormal(v) {
			if !skipNaN {
				// A NaN invalidates any window containing it; drop the
				// whole deque and restart the count.
				deque = deque[:0]
				count = 0
				lastNaN = i
			}
			continue
		}

		for len(deque) > 0 && better(v, x[deque[len(deque)-1]]) {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		count++

		windowStart := i - periods + 1
		if periods == 0 {
			windowStart = start
		}
		// Drop any front entries that fell out of the window.
		for len(deque) > 0 && deque[0] < windowStart {
			deque = deque[1:]
		}
		if periods > 0 && count > periods {
			count = periods
		}

		full := periods == 0 || count >= periods
		if ctx.StrictlyCycle() && periods > 0 && !full {
			continue
		}
		if lastNaN >= 0 && lastNaN >= windowStart {
			continue
		}
		if len(deque) == 0 {
			continue
		}
		if wantBars {
			r[i] = F(i - deque[0])
		} else {
			r[i] = x[deque[0]]
		}
	}
}
