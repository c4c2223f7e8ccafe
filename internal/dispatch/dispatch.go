// Package dispatch implements the grouped fork-join execution contract
// described by spec.md §5: a sequence is split into ctx.Groups() disjoint
// contiguous segments, each handed to its own goroutine with an exclusive
// writable output sub-slice and read-only input sub-slices, and the first
// error reported by any segment is returned once every segment has
// finished.
//
// Grounded on launix-de-memcp's storage.(*table).ComputeColumn: one
// goroutine per shard, and no return until every goroutine has reported
// in. Where memcp collects errors over a buffered channel, Run gives each
// goroutine its own slot in an error slice and waits on a WaitGroup.
package dispatch

import "sync"

// Segment describes one contiguous, disjoint slice of the full sequence.
type Segment struct {
	Start int
	End   int // exclusive
}

// Segments partitions [0,total) into contiguous segments of size
// total/groups, mirroring Rust's chunks_mut(n): every segment holds
// exactly chunk elements except the last, which absorbs whatever remainder
// total isn't evenly divisible into. This can yield more than `groups`
// segments when there's a remainder — the original crate's par_chunks_mut
// has the same property, so matching it here keeps output identical
// regardless of how many goroutines happen to run the work.
func Segments(total, groups int) []Segment {
	if groups <= 0 {
		groups = 1
	}
	chunk := total / groups
	if chunk <= 0 {
		if total == 0 {
			return nil
		}
		return []Segment{{Start: 0, End: total}}
	}
	segs := make([]Segment, 0, groups+1)
	for start := 0; start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		segs = append(segs, Segment{Start: start, End: end})
	}
	return segs
}

// Run spawns one goroutine per segment, invoking work with each segment's
// bounds, and returns the first error reported by any segment (by segment
// index, lowest first) once all segments have completed. Peer segments are
// always allowed to finish; none are cancelled on a sibling's error, since
// no segment holds state shared with another.
func Run(segs []Segment, work func(seg Segment) error) error {
	if len(segs) == 1 {
		// Common case (groups == 1): skip goroutine overhead entirely.
		return work(segs[0])
	}

	errs := make([]error, len(segs))
	var wg sync.WaitGroup
	wg.Add(len(segs))
	for i, seg := range segs {
		go func(i int, seg Segment) {
			defer wg.Done()
			errs[i] = work(seg)
		}(i, seg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
