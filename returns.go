package tawindow

import (
	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// ForwardReturn writes the forward return from the open of the entry bar
// (`delay` bars ahead of i) to the close of the exit bar (`periods-1`
// bars after entry): r[i] = (close[exit] - open[entry]) / open[entry],
// where entry = i+delay and exit = i+delay+periods-1. periods == 0 is a
// no-op (every output stays NaN). NaN where entry or exit run past the
// end of the segment's `chunk_size`, where open[entry] is NaN or zero,
// where close[exit] is NaN, or where the entry bar is degenerate
// (open[entry] == high[entry] == low[entry] == close[entry]). Unlike
// every other operator in this package, ForwardReturn looks forward
// rather than backward — it exists to label historical data with the
// outcome that followed it, e.g. for backtesting a score against what
// the market actually did next. Grounded on
// original_source/src/algo/returns.rs's ta_fret.
func ForwardReturn[F numeric.Float](ctx Context, r, open, high, low, close []F, delay, periods int) error {
	if len(r) != len(open) || len(r) != len(high) || len(r) != len(low) || len(r) != len(close) {
		return lengthMismatch(len(r), len(open))
	}
	groups := ctx.GroupCount()
	chunkSize := ctx.ChunkSize(len(r))
	if len(r) != chunkSize*groups {
		return lengthMismatch(len(r), chunkSize*groups)
	}
	segs := dispatch.Segments(len(r), groups)
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		forwardReturnSegment(ctx, r[seg.Start:seg.End], open[seg.Start:seg.End], high[seg.Start:seg.End], low[seg.Start:seg.End], close[seg.Start:seg.End], delay, periods, chunkSize)
		return nil
	})
}

func forwardReturnSegment[F numeric.Float](ctx Context, r, open, high, low, close []F, delay, periods, chunkSize int) {
	fillNaN(r)
	if periods == 0 {
		return
	}
	start := ctx.StartIndex(len(r))
	exitOffset := periods + delay - 1

	for i := start; i < len(r); i++ {
		entry := i + delay
		exit := i + exitOffset
		if entry > chunkSize-1 || exit > chunkSize-1 {
			continue
		}
		o, h, l, c := open[entry], high[entry], low[entry], close[entry]
		future := close[exit]
		if !numeric.IsNormal(o) || !numeric.IsNormal(future) || o == 0 {
			continue
		}
		if h == o && o == l && l == c {
			continue
		}
		r[i] = (future - o) / o
	}
}
