package tawindow

// Flag bits recognised by Context, matching the wire shape in spec.md §6.
const (
	// FlagSkipNaN makes NaN inputs transparent to window composition: the
	// window counts non-NaN values, not positions.
	FlagSkipNaN uint64 = 1 << 0
	// FlagStrictlyCycle demands a full `periods` worth of valid input
	// before any non-NaN output is written.
	FlagStrictlyCycle uint64 = 1 << 1
)

// Context is the immutable-per-call scalar configuration shared by every
// operator: the first output index to write, the number of independent
// groups the sequence is partitioned into, and the skip-NaN / strictly-
// cycle behaviour flags.
type Context struct {
	// Start is the first output index to write. Negative values count
	// from the end. Clamped into [0, len) by StartIndex().
	Start int32
	// Groups is the number of equal-length contiguous segments the
	// sequence is partitioned into for independent parallel evaluation.
	// 0 is treated as 1.
	Groups uint32
	// Flags is the FlagSkipNaN / FlagStrictlyCycle bit set. Unused bits
	// are reserved and ignored.
	Flags uint64
}

// StartIndex derives the first output index to write for a segment of the
// given length.
func (c Context) StartIndex(total int) int {
	if total == 0 {
		return 0
	}
	if c.Start >= 0 {
		if int(c.Start) > total-1 {
			return total - 1
		}
		return int(c.Start)
	}
	s := total + int(c.Start)
	if s < 0 {
		return 0
	}
	return s
}

// GroupCount returns the configured group count, with 0 normalised to 1.
func (c Context) GroupCount() int {
	if c.Groups == 0 {
		return 1
	}
	return int(c.Groups)
}

// ChunkSize returns the per-group segment length for a sequence of the
// given total length (integer division; callers validate divisibility).
func (c Context) ChunkSize(total int) int {
	return total / c.GroupCount()
}

// SkipNaN reports whether FlagSkipNaN is set.
func (c Context) SkipNaN() bool {
	return c.Flags&FlagSkipNaN != 0
}

// StrictlyCycle reports whether FlagStrictlyCycle is set.
func (c Context) StrictlyCycle() bool {
	return c.Flags&FlagStrictlyCycle != 0
}
