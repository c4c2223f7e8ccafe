// Package window implements the NaN-skip window iterator: the single
// source of truth for what "last W valid values" means across every
// skip-NaN rolling reducer.
//
// Ported from the reference SkipNanWindow: start always points at a
// non-NaN value (or sits one past end, if the segment has not seen one
// yet), end is the current cursor, prev_start is start's value before this
// step ran, and the values that fell out of the window since the last step
// are exactly input[prev_start:start].
package window

import "tawindow/internal/numeric"

// Item is one step of the iterator.
type Item struct {
	Start       int // first index in [start,end] still considered live; points at a non-NaN value once one has been seen
	PrevStart   int // start's value before this step
	End         int // current cursor, may be NaN
	NoNanCount  int // count of non-NaN values in [Start,End]
}

// HasNaN reports whether the window [Start,End] contains any NaN, i.e.
// whether NoNanCount is short of the window's positional span.
func (it Item) HasNaN() bool {
	return it.NoNanCount != it.End-it.Start+1
}

// Iter drives a NaN-skip window of size `window` over `data`, starting at
// index `skip`, calling fn once per position from skip to len(data)-1
// inclusive. fn returning false stops iteration early.
func Iter[F numeric.Float](data []F, window, skip int, fn func(Item) bool) {
	item := Item{Start: skip, PrevStart: skip, End: skip, NoNanCount: 0}
	for cursor := skip; cursor < len(data); cursor++ {
		item.PrevStart = item.Start

		if numeric.IsNormal(data[cursor]) {
			item.NoNanCount++
		}

		for item.NoNanCount > window {
			if numeric.IsNormal(data[item.Start]) {
				item.NoNanCount--
			}
			item.Start++
		}

		for item.Start <= cursor && numeric.IsNaN(data[item.Start]) {
			item.Start++
		}

		item.End = cursor

		if !fn(item) {
			return
		}
	}
}
