package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
	"tawindow/internal/window"
)

// Sum writes the sum of values in the preceding `periods` window to r.
// periods == 0 selects cumulative mode: the running sum since the first
// valid input in the segment.
func Sum[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		sumSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func sumSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if periods == 0 {
		var sum F
		found := false
		for i := start; i < len(x); i++ {
			if numeric.IsNormal(x[i]) {
				sum += x[i]
				found = true
			}
			if found {
				r[i] = sum
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
			if ctx.StrictlyCycle() {
				if it.NoNanCount == periods && it.End-it.Start+1 == periods {
					r[it.End] = sum
				}
			} else {
				r[it.End] = sum
			}
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
			old := x[i-periods]
			if numeric.IsNormal(old) {
				sum -= old
			} else {
				nanInWindow--
			}
		}
		if ctx.StrictlyCycle() && i < periods-1 {
			continue
		}
		if nanInWindow == 0 {
			r[i] = sum
		}
	}
}

func fillNaN[F numeric.Float](r []F) {
	nan := numeric.NaN[F]()
	for i := range r {
		r[i] = nan
	}
}

// SumBars walks backward from each position, accumulating a running sum,
// and reports the number of bars needed to reach `amount`. NaN if the
// backward walk never reaches amount within the available history.
//
// Under SkipNaN only non-NaN values are counted and summed. Otherwise a
// NaN encountered mid-walk poisons the running sum for the rest of that
// walk (sum becomes NaN and can never satisfy sum >= amount again) — this
// mirrors the reference implementation exactly (spec.md §9).
func SumBars[F numeric.Float](ctx Context, r, input []F, amount F) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		sumBarsSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], amount)
		return nil
	})
}

func sumBarsSegment[F numeric.Float](ctx Context, r, x []F, amount F) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))
	for i := start; i < len(x); i++ {
		var sum F
		bars := 0
		for j := i; j >= 0; j-- {
			val := x[j]
			if ctx.SkipNaN() {
				if numeric.IsNormal(val) {
					sum += val
					bars++
				}
			} else {
				sum += val
				bars++
			}
			if numeric.IsNormal(sum) && sum >= amount {
				r[i] = F(bars)
				break
			}
		}
	}
}

// SumIf is Sum restricted to positions where condition is true. periods
// == 0 is cumulative.
func SumIf[F numeric.Float](ctx Context, r, input []F, condition []bool, periods int) error {
	if len(r) != len(input) || len(r) != len(condition) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		sumIfSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], condition[seg.Start:seg.End], periods)
		return nil
	})
}

func sumIfSegment[F numeric.Float](ctx Context, r, x []F, c []bool, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if periods == 0 {
		var sum F
		found := false
		for i := start; i < len(x); i++ {
			if c[i] && numeric.IsNormal(x[i]) {
				sum += x[i]
				found = true
			}
			if found {
				r[i] = sum
			}
		}
		return
	}

	if ctx.SkipNaN() {
		var sum F
		window.Iter(x, periods, start, func(it window.Item) bool {
			idx := it.End
			val := x[idx]
			if c[idx] && numeric.IsNormal(val) {
				sum += val
			}
			for k := it.PrevStart; k < it.Start; k++ {
				if old := x[k]; c[k] && numeric.IsNormal(old) {
					sum -= old
				}
			}
			if !numeric.IsNormal(val) {
				return true
			}
			if ctx.StrictlyCycle() {
				if it.NoNanCount == periods && it.End-it.Start+1 == periods {
					r[idx] = sum
				}
			} else {
				r[idx] = sum
			}
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
		if c[k] {
			if numeric.IsNormal(x[k]) {
				sum += x[k]
			} else {
				nanInWindow++
			}
		}
	}
	for i := start; i < len(x); i++ {
		if c[i] {
			if numeric.IsNormal(x[i]) {
				sum += x[i]
			} else {
				nanInWindow++
			}
		}
		if i >= periods {
			oldIdx := i - periods
			if c[oldIdx] {
				if numeric.IsNormal(x[oldIdx]) {
					sum -= x[oldIdx]
				} else {
					nanInWindow--
				}
			}
		}
		if ctx.StrictlyCycle() && i < periods-1 {
			continue
		}
		if nanInWindow == 0 {
			r[i] = sum
		}
	}
}

// Product writes the product of values in the preceding `periods` window.
// periods == 0 selects cumulative mode. A zero factor is tracked
// separately from the non-zero product to avoid 0*(1/0) instability when
// it drops out of the window later.
func Product[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		productSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func productSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	if periods == 0 {
		prod := F(1)
		found := false
		for i := start; i < len(x); i++ {
			if numeric.IsNormal(x[i]) {
				prod *= x[i]
				found = true
			}
			if found {
				r[i] = prod
			}
		}
		return
	}

	if ctx.SkipNaN() {
		prodNonZero := F(1)
		zeroCount := 0
		window.Iter(x, periods, start, func(it window.Item) bool {
			val := x[it.End]
			if numeric.IsNormal(val) {
				if val == 0 {
					zeroCount++
				} else {
					prodNonZero *= val
				}
			}
			for k := it.PrevStart; k < it.Start; k++ {
				if old := x[k]; numeric.IsNormal(old) {
					if old == 0 {
						zeroCount--
					} else {
						prodNonZero /= old
					}
				}
			}
			if !numeric.IsNormal(val) {
				return true
			}
			should := true
			if ctx.StrictlyCycle() {
				should = it.NoNanCount == periods && it.End-it.Start+1 == periods
			}
			if should {
				if zeroCount > 0 {
					r[it.End] = 0
				} else {
					r[it.End] = prodNonZero
				}
			}
			return true
		})
		return
	}

	prodNonZero := F(1)
	zeroCount := 0
	nanInWindow := 0
	preFillStart := 0
	if start >= periods {
		preFillStart = start - periods
	}
	for k := preFillStart; k < start; k++ {
		val := x[k]
		if numeric.IsNormal(val) {
			if val == 0 {
				zeroCount++
			} else {
				prodNonZero *= val
			}
		} else {
			nanInWindow++
		}
	}
	for i := start; i < len(x); i++ {
		val := x[i]
		if numeric.IsNormal(val) {
			if val == 0 {
				zeroCount++
			} else {
				prodNonZero *= val
			}
		} else {
			nanInWindow++
		}
		if i >= periods {
			old := x[i-periods]
			if numeric.IsNormal(old) {
				if old == 0 {
					zeroCount--
				} else {
					prodNonZero /= old
				}
			} else {
				nanInWindow--
			}
		}
		if !numeric.IsNormal(val) {
			continue
		}
		should := true
		if ctx.StrictlyCycle() && i < periods-1 {
			should = false
		}
		if should && nanInWindow == 0 {
			if zeroCount > 0 {
				r[i] = 0
			} else {
				r[i] = prodNonZero
			}
		}
	}
}
