package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// Ref writes input shifted back by `periods` bars: r[i] = input[i-periods],
// NaN where i-periods is out of range. periods == 0 is a plain copy.
// Grounded on original_source/src/algo/series.rs's ta_ref.
func Ref[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		refSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func refSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if ctx.SkipNaN() {
		// FIFO of non-NaN values seen so far; once it holds more than
		// `periods` of them the oldest is exactly the k-th preceding
		// non-NaN value, per series.rs's ta_ref skip-NaN branch.
		history := make([]F, 0, periods+1)
		for i := start; i < len(x); i++ {
			val := x[i]
			if !numeric.IsNormal(val) {
				continue
			}
			history = append(history, val)
			if len(history) > periods {
				r[i] = history[0]
				history = history[1:]
			}
		}
		return
	}

	for i := start; i < len(x); i++ {
		j := i - periods
		if j < 0 || j >= len(x) {
			continue
		}
		r[i] = x[j]
	}
}

// BarsLast writes, for each bar, how many bars back the condition was
// last true (0 if true this bar), NaN if it has never been true.
// Condition's flag-independence is inherited from spec.md §9: SKIP_NAN
// and STRICTLY_CYCLE do not affect this operator, since a boolean
// condition has no NaN state to skip and no partial window to wait out.
// Grounded on series.rs's ta_barslast.
func BarsLast[F numeric.Float](ctx Context, r []F, condition []bool) error {
	if len(r) != len(condition) {
		return lengthMismatch(len(r), len(condition))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		barsLastSegment(ctx, r[seg.Start:seg.End], condition[seg.Start:seg.End])
		return nil
	})
}

func barsLastSegment[F numeric.Float](ctx Context, r []F, c []bool) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))
	last := -1
	for i := start; i < len(r); i++ {
		if c[i] {
			last = i
		}
		if last >= 0 {
			r[i] = F(i - last)
		}
	}
}

// BarsSince is an alias for BarsLast kept for call sites that read better
// with the "since" phrasing (the two are the same operator under
// different names in the reference implementation's public surface).
func BarsSince[F numeric.Float](ctx Context, r []F, condition []bool) error {
	return BarsLast(ctx, r, condition)
}

// Count writes the running count of bars where condition has been true
// within the preceding `periods` window. periods == 0 selects the
// cumulative count. Grounded on series.rs's ta_count.
func Count[F numeric.Float](ctx Context, r []F, condition []bool, periods int) error {
	if len(r) != len(condition) {
		return lengthMismatch(len(r), len(condition))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		countSegment(ctx, r[seg.Start:seg.End], condition[seg.Start:seg.End], periods)
		return nil
	})
}

func countSegment[F numeric.Float](ctx Context, r []F, c []bool, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if periods == 0 {
		count := 0
		for i := start; i < len(r); i++ {
			if c[i] {
				count++
			}
			r[i] = F(count)
		}
		return
	}

	count := 0
	for i := start; i < len(r); i++ {
		if c[i] {
			count++
		}
		if i >= periods {
			if c[i-periods] {
				count--
			}
		}
		full := i-start+1 >= periods
		if ctx.StrictlyCycle() && !full {
			continue
		}
		r[i] = F(count)
	}
}
