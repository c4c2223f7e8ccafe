package tawindow

import (
	"sort"

	"tawindow/internal/dispatch"
	"tawindow/internal/numeric"
)

// TSRank writes the plain 1-based, tie-averaged rank of the current value
// among the preceding `periods` window (e.g. the smallest value in the
// window ranks 1). periods == 0 selects the cumulative (expanding)
// window. Grounded on original_source/src/algo/rank.rs's ta_ts_rank,
// whose own unit test expects the literal ranks [1,2,3,3,3], not a
// percentage.
func TSRank[F numeric.Float](ctx Context, r, input []F, periods int) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	segs := dispatch.Segments(len(r), ctx.GroupCount())
	return dispatch.Run(segs, func(seg dispatch.Segment) error {
		tsRankSegment(ctx, r[seg.Start:seg.End], input[seg.Start:seg.End], periods)
		return nil
	})
}

func tsRankSegment[F numeric.Float](ctx Context, r, x []F, periods int) {
	fillNaN(r)
	start := ctx.StartIndex(len(r))

	for i := start; i < len(x); i++ {
		v := x[i]
		if !numeric.IsNormal(v) {
			continue
		}
		lo := 0
		if periods > 0 {
			lo = i - periods + 1
			if lo < 0 {
				lo = 0
			}
		}
		count := 0
		less := 0
		equal := 0
		for k := lo; k <= i; k++ {
			w := x[k]
			if !numeric.IsNormal(w) {
				if ctx.SkipNaN() {
					continue
				}
				count = -1
				break
			}
			count++
			switch {
			case w < v:
				less++
			case w == v:
				equal++
			}
		}
		if count <= 0 {
			continue
		}
		if periods > 0 {
			full := count == periods
			if ctx.StrictlyCycle() && !full {
				continue
			}
		}
		// Tie-averaged rank: the mid-point of the tied block, 1-based.
		rank := F(less) + (F(equal)+1)/2
		r[i] = rank
	}
}

// RankCross writes, for each position i, the cross-sectional tie-averaged
// rank of input[i] among every other position sharing the same offset
// within ctx.ChunkSize(len(input)) across ctx.GroupCount() groups — i.e.
// group g's value at offset j lives at input[g*chunkSize+j], and each
// offset j is ranked independently across the `groups` values that share
// it, normalised by dividing by groups (not a percentage). Requires
// len(input) == ctx.ChunkSize(len(input))*ctx.GroupCount(). Fewer than 2
// groups degenerates to a cumulative TSRank, matching the flat (ctx, r,
// input []F) convention every other operator in this package follows.
// Grounded on original_source/src/algo/rank.rs's ta_rank (its
// simple test fixture: groups=2, chunk=2, input=[3,1,2,4] ranks to
// [1.0, 0.5, 0.5, 1.0]).
func RankCross[F numeric.Float](ctx Context, r, input []F) error {
	if len(r) != len(input) {
		return lengthMismatch(len(r), len(input))
	}
	groups := ctx.GroupCount()
	if groups < 2 {
		return TSRank(ctx, r, input, 0)
	}
	chunkSize := ctx.ChunkSize(len(input))
	if len(input) != chunkSize*groups {
		return lengthMismatch(len(input), chunkSize*groups)
	}

	type entry struct {
		idx int
		val F
	}
	total := F(groups)
	vals := make([]entry, groups)
	for j := 0; j < chunkSize; j++ {
		for g := 0; g < groups; g++ {
			idx := g*chunkSize + j
			vals[g] = entry{idx, input[idx]}
		}
		sort.Slice(vals, func(a, b int) bool { return vals[a].val < vals[b].val })
		s := 0
		for e := 1; e <= groups; e++ {
			if e < groups && vals[e].val == vals[s].val {
				continue
			}
			avgRank := F(e+s+1) / 2
			for m := s; m < e; m++ {
				r[vals[m].idx] = avgRank / total
			}
			s = e
		}
	}
	return nil
}
