package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// Slope writes the least-squares slope of input against bar index 0..N-1
// over the preceding `periods` window. Grounded on original_source/src/
// algo/slope.rs's shared ta_linear_reg_core, which derives slope,
// intercept and time-series correlation from the same window sums
// (Sum(x), Sum(x^2), Sum(y), Sum(x*y), with x the in-window bar index,
// plus Sum(y^2) for the correlation).
func Slope[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return linRegCore(ctx, r, input, periods, regSlope)
}

// Intercept writes the least-squares intercept (the fitted value at the
// window's first bar) over the preceding `periods` window.
func Intercept[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return linRegCore(ctx, r, input, periods, regIntercept)
}

// TSCorrelation writes the correlation coefficient between input and bar
// index over the preceding `periods` window — how well a straight line
// explains the series' recent trend.
func TSCorrelation[F numeric.Float](ctx Context, r, input []F, periods int) error {
	return linRegCore(ctx, r, input, periods, regCorrelation)
}

type regKind int

const (
	regSlope regKind = iota
	regIntercept
	regCorrelation
)

func linRegCore[F numeric.Float](ctx Context, r, input []F, periods int, kind regKind) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	if periods < 2 {
		return &InvalidPeriodError{Description: "linear-regression operators require periods >= 2"}
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		linRegSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods, kind)
		return nil
	})
}

// linRegSegment recomputes the window's sums from scratch at each
// position where the window is fully non-NaN (a window-local bar index
// has no meaningful differential update across a window slide — sliding
// by one bar renumbers every in-window x value — so unlike the additive
// reducers above this is a from-scratch O(periods) reduction per output,
// matching ta_linear_reg_core's own per-window recomputation).
func linRegSegment[F numeric.Float](ctx Context, r, x []F, periods int, kind regKind) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))
	eps := numeric.Epsilon[F]()

	for i := start; i < len(x); i++ {
		lo := i - periods + 1
		if lo < 0 {
			continue
		}
		n := 0
		var sumX, sumX2, sumY, sumXY, sumY2 F
		bad := false
		for k := lo; k <= i; k++ {
			v := x[k]
			if !numeric.IsNormal(v) {
				if ctx.SkipNaN() {
					continue
				}
				bad = true
				break
			}
			xi := F(n)
			sumX += xi
			sumX2 += xi * xi
			sumY += v
			sumXY += xi * v
			sumY2 += v * v
			n++
		}
		if bad || n == 0 {
			continue
		}
		if ctx.StrictlyCycle() && n != periods {
			continue
		}
		fn := F(n)
		denom := fn*sumX2 - sumX*sumX
		if numeric.Abs(denom) <= eps {
			continue
		}
		slope := (fn*sumXY - sumX*sumY) / denom
		intercept := (sumY - slope*sumX) / fn

		switch kind {
		case regSlope:
			r[i] = slope
		case regIntercept:
			r[i] = intercept
		case regCorrelation:
			varX := fn*sumX2 - sumX*sumX
			varY := fn*sumY2 - sumY*sumY
			d := numeric.Sqrt(varX * varY)
			if d <= eps {
				continue
			}
			r[i] = (fn*sumXY - sumX*sumY) / d
		}
	}
}
