package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
	"tawindow/internal/window"
)

// MA writes the simple rolling mean of input over the preceding `periods`
// window. periods == 0 selects the cumulative (expanding) mean.
func MA[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		maSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func maSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if periods == 0 {
		var sum F
		count := 0
		for i := start; i < len(x); i++ {
			if numeric.IsNormal(x[i]) {
				sum += x[i]
				count++
			}
			if count > 0 {
				r[i] = sum / F(count)
			}
		}
		return
	}

	if ctx.SkipNaN() {
		var sum F
		window.Iter(x, periods, start, func(it window.Item) bool {
			val := x[it.End]
			if numeric.IsNormal(val) {
				sum += val
			}
			for k := it.PrevStart; k < it.Start; k++ {
				if old := x[k]; numeric.IsNormal(old) {
					sum -= old
				}
			}
			if !numeric.IsNormal(val) {
				return true
			}
			full := it.NoNanCount == periods && it.End-it.Start+1 == periods
			if ctx.StrictlyCycle() && !full {
				return true
			}
			r[it.End] = sum / F(it.NoNanCount)
			return true
		})
		return
	}

	var sum F
	nanInWindow := 0
	preFillStart := 0
	if start >= periods {
		preFillStart = start - periods
	}
	for k := preFillStart; k < start; k++ {
		if numeric.IsNormal(x[k]) {
			sum += x[k]
		} else {
			nanInWindow++
		}
	}
	for i := start; i < len(x); i++ {
		val := x[i]
		if numeric.IsNormal(val) {
			sum += val
		} else {
			nanInWindow++
		}
		if i >= periods {
			if old := x[i-periods]; numeric.IsNormal(old) {
				sum -= old
			} else {
				nanInWindow--
			}
		}
		if !numeric.IsNormal(val) {
			continue
		}

		if ctx.StrictlyCycle() {
			if i >= periods-1 && nanInWindow == 0 {
				r[i] = sum / F(periods)
			}
			continue
		}
		if nanInWindow != 0 {
			continue
		}
		count := periods
		if i < periods {
			count = i + 1
		}
		r[i] = sum / F(count)
	}
}

// Mean is an alias for MA kept for call sites that read better with the
// statistical name.
func Mean[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return MA(ctx, r, input, periods)
}

// LWMA writes the linearly weighted moving average: the oldest value in
// the window (`periods-1` bars back) carries weight 1, the most recent
// value carries weight
// `periods`, normalised by periods*(periods+1)/2. Has no original_source
// grounding (the reference crate does not implement LWMA); built directly
// from spec.md §4.3's explicit two-accumulator differential formula.
func LWMA[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	if periods <= 0 {
		return &InvalidPeriodError{Description: "LWMA requires periods >= 1"}
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		lwmaSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func lwmaSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))
	denom := F(periods*(periods+1)) / 2

	if ctx.SkipNaN() {
		window.Iter(x, periods, start, func(it window.Item) bool {
			val := x[it.End]
			if !numeric.IsNormal(val) {
				return true
			}
			full := it.NoNanCount == periods && it.End-it.Start+1 == periods
			if ctx.StrictlyCycle() && !full {
				return true
			}
			// Weight by rank among the non-NaN values currently in the
			// window: the most recent valid value carries weight
			// no_nan_count, the oldest carries weight 1.
			var weighted F
			rank := F(0)
			for k := it.Start; k <= it.End; k++ {
				if v := x[k]; numeric.IsNormal(v) {
					rank++
					weighted += rank * v
				}
			}
			r[it.End] = weighted / (F(it.NoNanCount) * (F(it.NoNanCount) + 1) / 2)
			return true
		})
		return
	}

	// Fixed-size window, no NaN skipping: differential S (plain sum) / W
	// (weighted sum) update, per spec.md §4.3: W <- W + periods*v - S;
	// S <- S + v, then evict x[i-periods] from both once the window is
	// full-size.
	var s, w F
	primed := false
	nanInWindow := 0
	for i := start; i < len(x); i++ {
		if !numeric.IsNormal(x[i]) {
			nanInWindow++
		}
		lo := i - periods + 1
		if lo < 0 {
			continue
		}
		if lo > 0 {
			if old := x[lo-1]; !numeric.IsNormal(old) {
				nanInWindow--
			}
		}
		if nanInWindow != 0 {
			primed = false
			continue
		}
		if !primed {
			s = 0
			w = 0
			rank := F(0)
			for k := lo; k <= i; k++ {
				rank++
				s += x[k]
				w += rank * x[k]
			}
			primed = true
		} else {
			w = w + F(periods)*x[i] - s
			s = s + x[i] - x[lo-1]
		}
		r[i] = w / denom
	}
}
