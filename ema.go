package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// EMA writes the exponential moving average with smoothing factor
// alpha = 2/(n+1): y[t] = alpha*x[t] + (1-alpha)*y[t-1], seeded by the
// first non-NaN input. Grounded on original_source/src/algo/ema.rs's
// ta_ema, which shares this recurrence with DMA and SMMA through a
// common core parametrised only by alpha.
func EMA[F numeric.Float](ctx Context, r, input []F, n int) error {
	if n <= 0 {
		return &InvalidParameterError{Description: "EMA requires n >= 1"}
	}
	alpha := F(2) / F(n+1)
	return emaCore(ctx, r, input, alpha, n)
}

// DMA writes the exponential moving average with a caller-supplied
// smoothing factor alpha in [0,1]. Grounded on ema.rs's ta_dma, which
// passes periods=0 through to the shared recurrence core — DMA has no
// warm-up window to mask under STRICTLY_CYCLE.
func DMA[F numeric.Float](ctx Context, r, input []F, alpha F) error {
	if alpha < 0 || alpha > 1 {
		return &InvalidParameterError{Description: "DMA requires alpha in [0,1]"}
	}
	return emaCore(ctx, r, input, alpha, 0)
}

// SMMA writes the smoothed moving average (Wilder's smoothing), the EMA
// recurrence with alpha = m/n. Grounded on ema.rs's ta_smma, which (via
// ta_dma) also passes periods=0.
func SMMA[F numeric.Float](ctx Context, r, input []F, n, m int) error {
	if n <= 0 {
		return &InvalidParameterError{Description: "SMMA requires n >= 1"}
	}
	alpha := F(m) / F(n)
	if alpha < 0 || alpha > 1 {
		return &InvalidParameterError{Description: "SMMA requires m/n in [0,1]"}
	}
	return emaCore(ctx, r, input, alpha, 0)
}

func emaCore[F numeric.Float](ctx Context, r, input []F, alpha F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		emaSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], alpha, periods)
		return nil
	})
}

// emaSegment masks positions before periods to NaN under STRICTLY_CYCLE,
// per spec.md §4.3 ("Under STRICTLY_CYCLE, positions < periods are NaN")
// and ema.rs's ema_impl (`if ctx.strictly_cycle() && n < periods`, n being
// the position within the segment). Unlike ema_impl's literal recurrence —
// which lets the masked NaN become r[i] and then poisons prev forever — the
// underlying recurrence here keeps tracking its real value through the
// masked region so positions at and after periods recover to real output,
// matching the "Seed is x[segment_start]" contract spec.md describes.
func emaSegment[F numeric.Float](ctx Context, r, x []F, alpha F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	var prev F
	seeded := false
	for i := start; i < len(x); i++ {
		v := x[i]
		if !numeric.IsNormal(v) {
			if ctx.SkipNaN() && seeded {
				// Hold the previous value forward through the gap.
				r[i] = prev
			}
			continue
		}
		if !seeded {
			prev = v
			seeded = true
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		if ctx.StrictlyCycle() && i < periods {
			continue
		}
		r[i] = prev
	}
}
