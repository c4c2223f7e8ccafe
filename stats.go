package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
	"tawindow/internal/window"
)

// Var writes the rolling sample variance (Bessel's correction, dividing by
// n-1) of input over the preceding `periods` window. periods == 0 selects
// the cumulative variance. Fewer than 2 valid values in the window yields
// NaN. Grounded on spec.md §4.3's variance accumulator, which is explicit
// that the denominator is n-1, not n.
func Var[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return rollingMoment(ctx, r, input, periods, false)
}

// StdDev writes the rolling sample standard deviation: Var's square root.
func StdDev[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return rollingMoment(ctx, r, input, periods, true)
}

// rollingMoment computes Sum(x) and Sum(x^2) over the same window
// simultaneously (the differential update sum.rs already gives us applies
// unchanged to x^2), then derives the sample variance
// (Sum(x^2) - Sum(x)^2/n) / (n-1), matching
// original_source/src/algo/stats.rs's ta_var / original_source/src/algo/
// stddev.rs's ta_stddev.
func rollingMoment[F numeric.Float](ctx Context, r, input []F, periods int, sqrt bool) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		momentSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods, sqrt)
		return nil
	})
}

// variance computes the sample variance (Bessel's correction) of a window
// given its running Σy and Σy²: (Σy² - (Σy)²/n) / (n-1). count < 2 has no
// well-defined sample variance; callers must check that separately.
func variance[F numeric.Float](sum, sumSq F, count int) F {
	n := F(count)
	v := (sumSq - sum*sum/n) / (n - 1)
	if v < 0 {
		// Rounding can push a near-zero variance fractionally negative.
		v = 0
	}
	return v
}

func momentSegment[F numeric.Float](ctx Context, r, x []F, periods int, sqrt bool) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	finish := func(idx int, sum, sumSq F, count int) {
		if count < 2 {
			return
		}
		v := variance(sum, sumSq, count)
		if sqrt {
			v = numeric.Sqrt(v)
		}
		r[idx] = v
	}

	if periods == 0 {
		var sum, sumSq F
		count := 0
		for i := start; i < len(x); i++ {
			if numeric.IsNormal(x[i]) {
				sum += x[i]
				sumSq += x[i] * x[i]
				count++
			}
			finish(i, sum, sumSq, count)
		}
		return
	}

	if ctx.SkipNaN() {
		var sum, sumSq F
		window.Iter(x, periods, start, func(it window.Item) bool {
			val := x[it.End]
			if numeric.IsNormal(val) {
				sum += val
				sumSq += val * val
			}
			for k := it.PrevStart; k < it.Start; k++ {
				if old := x[k]; numeric.IsNormal(old) {
					sum -= old
					sumSq -= old * old
				}
			}
			if !numeric.IsNormal(val) {
				return true
			}
			full := it.NoNanCount == periods && it.End-it.Start+1 == periods
			if ctx.StrictlyCycle() && !full {
				return true
			}
			finish(it.End, sum, sumSq, it.NoNanCount)
			return true
		})
		return
	}

	var sum, sumSq F
	nanInWindow := 0
	preFillStart := 0
	if start >= periods {
		preFillStart = start - periods
	}
	for k := preFillStart; k < start; k++ {
		if numeric.IsNormal(x[k]) {
			sum += x[k]
			sumSq += x[k] * x[k]
		} else {
			nanInWindow++
		}
	}
	for i := start; i < len(x); i++ {
		if numeric.IsNormal(x[i]) {
			sum += x[i]
			sumSq += x[i] * x[i]
		} else {
			nanInWindow++
		}
		if i >= periods {
			if old := x[i-periods]; numeric.IsNormal(old) {
				sum -= old
				sumSq -= old * old
			} else {
				nanInWindow--
			}
		}
		if i < periods-1 {
			continue
		}
		if nanInWindow == 0 {
			finish(i, sum, sumSq, periods)
		}
	}
}

// Cov writes the rolling sample covariance of a and b over the
// preceding `periods` window. periods == 0 selects the cumulative
// covariance. Grounded on original_source/src/algo/stats.rs's ta_cov,
// which threads three differential sums (Sum(a), Sum(b), Sum(a*b))
// through the same window simultaneously.
func Cov[F numeric.Float](ctx Context, r, a, b []F, periods int) error {
	if len(r) != len(a) || len(a) != len(b) {
		return lengthMismatch(len(r), len(a))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		covSegment(ctx, r[seg.Start:seg.End], a[seg.Start:seg.End], b[seg.Start:seg.End], periods, false)
		return nil
	})
}

// Corr writes the rolling Pearson correlation coefficient of a and b.
// Grounded on the same ta_cov core, normalised by the product of each
// series' rolling standard deviation.
func Corr[F numeric.Float](ctx Context, r, a, b []F, periods int) error {
	if len(r) != len(a) || len(a) != len(b) {
		return lengthMismatch(len(r), len(a))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		covSegment(ctx, r[seg.Start:seg.End], a[seg.Start:seg.End], b[seg.Start:seg.End], periods, true)
		return nil
	})
}

// covariance computes the sample covariance (Bessel's correction) from the
// running Σa, Σb and Σab: (Σab - ΣaΣb/n) / (n-1).
func covariance[F numeric.Float](sumA, sumB, sumAB F, count int) F {
	n := F(count)
	return (sumAB - sumA*sumB/n) / (n - 1)
}

func covSegment[F numeric.Float](ctx Context, r, a, b []F, periods int, corr bool) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))
	eps := numeric.Epsilon[F]()

	finish := func(idx int, sumA, sumB, sumA2, sumB2, sumAB F, count int) {
		if count < 2 {
			return
		}
		cov := covariance(sumA, sumB, sumAB, count)
		if !corr {
			r[idx] = cov
			return
		}
		varA := variance(sumA, sumA2, count)
		varB := variance(sumB, sumB2, count)
		denom := numeric.Sqrt(varA * varB)
		if denom <= eps {
			return
		}
		r[idx] = cov / denom
	}

	both := func(i int) bool {
		return numeric.IsNormal(a[i]) && numeric.IsNormal(b[i])
	}

	if periods == 0 {
		var sumA, sumB, sumA2, sumB2, sumAB F
		count := 0
		for i := start; i < len(a); i++ {
			if both(i) {
				sumA += a[i]
				sumB += b[i]
				sumA2 += a[i] * a[i]
				sumB2 += b[i] * b[i]
				sumAB += a[i] * b[i]
				count++
			}
			finish(i, sumA, sumB, sumA2, sumB2, sumAB, count)
		}
		return
	}

	if ctx.SkipNaN() {
		var sumA, sumB, sumA2, sumB2, sumAB F
		noNan := 0
		evict := func(k int) {
			if both(k) {
				sumA -= a[k]
				sumB -= b[k]
				sumA2 -= a[k] * a[k]
				sumB2 -= b[k] * b[k]
				sumAB -= a[k] * b[k]
				noNan--
			}
		}
		prevStart := start
		for i := start; i < len(a); i++ {
			if both(i) {
				sumA += a[i]
				sumB += b[i]
				sumA2 += a[i] * a[i]
				sumB2 += b[i] * b[i]
				sumAB += a[i] * b[i]
				noNan++
			}
			for noNan > periods {
				evict(prevStart)
				prevStart++
			}
			for prevStart <= i && !both(prevStart) {
				prevStart++
			}
			if !both(i) {
				continue
			}
			full := noNan == periods && i-prevStart+1 == periods
			if ctx.StrictlyCycle() && !full {
				continue
			}
			finish(i, sumA, sumB, sumA2, sumB2, sumAB, noNan)
		}
		return
	}

	var sumA, sumB, sumA2, sumB2, sumAB F
	nanInWindow := 0
	preFillStart := 0
	if start >= periods {
		preFillStart = start - periods
	}
	for k := preFillStart; k < start; k++ {
		if both(k) {
			sumA += a[k]
			sumB += b[k]
			sumA2 += a[k] * a[k]
			sumB2 += b[k] * b[k]
			sumAB += a[k] * b[k]
		} else {
			nanInWindow++
		}
	}
	for i := start; i < len(a); i++ {
		if both(i) {
			sumA += a[i]
			sumB += b[i]
			sumA2 += a[i] * a[i]
			sumB2 += b[i] * b[i]
			sumAB += a[i] * b[i]
		} else {
			nanInWindow++
		}
		if i >= periods {
			k := i - periods
			if both(k) {
				sumA -= a[k]
				sumB -= b[k]
				sumA2 -= a[k] * a[k]
				sumB2 -= b[k] * b[k]
				sumAB -= a[k] * b[k]
			} else {
				nanInWindow--
			}
		}
		if i < periods-1 {
			continue
		}
		if nanInWindow == 0 {
			finish(i, sumA, sumB, sumA2, sumB2, sumAB, periods)
		}
	}
}
