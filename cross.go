package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// Cross writes 1 where a was strictly below b and is now at or above it
// (a[i-1] < b[i-1] && a[i] >= b[i]), 0 otherwise (including the first bar,
// which has no predecessor). Under SkipNaN, the "previous" state is the
// last valid comparison rather than strictly index i-1, carried forward
// across NaN gaps. Grounded on original_source/src/algo/cross.rs's
// ta_cross.
func Cross[F numeric.Float](ctx Context, r, a, b []F) error {
	return crossImpl(ctx, r, a, b, func(x, y F) bool { return x < y })
}

// RCross writes 1 where a was strictly above b and is now at or below it.
// Grounded on cross.rs's ta_rcross (the mirror of ta_cross).
func RCross[F numeric.Float](ctx Context, r, a, b []F) error {
	return crossImpl(ctx, r, a, b, func(x, y F) bool { return x > y })
}

// crossImpl detects a transition of state(a,b) from true to false: Cross
// tracks state = a<b (transition to a>=b), RCross tracks state = a>b
// (transition to a<=b) — the two predicates rust's ta_cross/ta_rcross
// special-case are in fact complements of the same state machine.
func crossImpl[F numeric.Float](ctx Context, r, a, b []F, state func(x, y F) bool) error {
	if len(r) != len(a) || len(a) != len(b) {
		return lengthMismatch(len(r), len(a))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		crossSegment(ctx, r[seg.Start:seg.End], a[seg.Start:seg.End], b[seg.Start:seg.End], state)
		return nil
	})
}

func crossSegment[F numeric.Float](ctx Context, r, a, b []F, state func(x, y F) bool) {
	for i := range r {
		r[i] = 0
	}
	start := ctx.StartIndex(len(r))

	if ctx.SkipNaN() {
		var prev bool
		have := false
		for i := start; i < len(r); i++ {
			if !numeric.IsNormal(a[i]) || !numeric.IsNormal(b[i]) {
				continue
			}
			cur := state(a[i], b[i])
			if have && prev && !cur {
				r[i] = 1
			}
			prev = cur
			have = true
		}
		return
	}

	for i := start; i < len(r); i++ {
		if i == 0 {
			continue
		}
		if !numeric.IsNormal(a[i-1]) || !numeric.IsNormal(b[i-1]) || !numeric.IsNormal(a[i]) || !numeric.IsNormal(b[i]) {
			continue
		}
		if state(a[i-1], b[i-1]) && !state(a[i], b[i]) {
			r[i] = 1
		}
	}
}

// LongCross writes 1 where a has stayed strictly below b for at least
// `bars` preceding bars and now a >= b (the "sustained then cross" variant
// used to filter single-bar noise crosses). Grounded on cross.rs's
// ta_longcross.
func LongCross[F numeric.Float](ctx Context, r, a, b []F, bars int) error {
	return longCrossImpl(ctx, r, a, b, bars, func(x, y F) bool { return x < y }, func(x, y F) bool { return x >= y })
}

// RLongCross is LongCross's mirror: a has stayed strictly above b for at
// least `bars` preceding bars and now a <= b. Grounded on cross.rs's
// ta_rlongcross.
func RLongCross[F numeric.Float](ctx Context, r, a, b []F, bars int) error {
	return longCrossImpl(ctx, r, a, b, bars, func(x, y F) bool { return x > y }, func(x, y F) bool { return x <= y })
}

func longCrossImpl[F numeric.Float](ctx Context, r, a, b []F, bars int, sustained, trigger func(x, y F) bool) error {
	if len(r) != len(a) || len(a) != len(b) {
		return lengthMismatch(len(r), len(a))
	}
	if bars < 0 {
		return &InvalidParameterError{Description: "LongCross/RLongCross requires bars >= 0"}
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		longCrossSegment(ctx, r[seg.Start:seg.End], a[seg.Start:seg.End], b[seg.Start:seg.End], bars, sustained, trigger)
		return nil
	})
}

func longCrossSegment[F numeric.Float](ctx Context, r, a, b []F, bars int, sustained, trigger func(x, y F) bool) {
	for i := range r {
		r[i] = 0
	}
	start := ctx.StartIndex(len(r))

	if bars == 0 {
		// "Sustained for the preceding 0 bars" degenerates to a direct
		// comparison of the current bar, per cross.rs's ta_longcross/
		// ta_rlongcross n==0 special case.
		for i := start; i < len(r); i++ {
			if !numeric.IsNormal(a[i]) || !numeric.IsNormal(b[i]) {
				continue
			}
			if trigger(a[i], b[i]) {
				r[i] = 1
			}
		}
		return
	}

	for i := start; i < len(r); i++ {
		if i < bars {
			continue
		}
		if !numeric.IsNormal(a[i]) || !numeric.IsNormal(b[i]) {
			continue
		}
		if !trigger(a[i], b[i]) {
			continue
		}
		ok := true
		for k := i - bars; k < i; k++ {
			if !numeric.IsNormal(a[k]) || !numeric.IsNormal(b[k]) || !sustained(a[k], b[k]) {
				ok = false
				break
			}
		}
		if ok {
			r[i] = 1
		}
	}
}
