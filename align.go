// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// Alignment selects how a line's free space (MaxAdvance minus content
// width) is distributed (spec §4.7).
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignEnd
	AlignLeft
	AlignRight
	AlignCenter
	AlignJustify
)

// NegativeSpacePolicy controls what happens when a line's content is
// wider than MaxAdvance (spec §4.7).
type NegativeSpacePolicy uint8

const (
	NegativeSpaceStartAlign NegativeSpacePolicy = iota
	NegativeSpaceOverflowVisible
)

// Align computes AlignOffset and JustifyPerSpace for every committed
// line (spec §4.7). maxAdvance is the same value passed to BreakLines;
// alignment resolves to physical left/right using the line's base
// paragraph direction for Start/End. Align never mutates runs or
// clusters, only the two scalar fields on each Line, so alignment can be
// recomputed freely (spec §8 invariant 7).
func (lt *Layout) Align(alignment Alignment, maxAdvance fixed.Int26_6, neg NegativeSpacePolicy) {
	for i := range lt.lines {
		ln := &lt.lines[i]
		resolved := resolveAlignment(alignment, lt.bidi.BaseLevel)
		free := maxAdvance - ln.Width
		if free < 0 {
			switch neg {
			case NegativeSpaceOverflowVisible:
				ln.AlignOffset = 0
				ln.JustifyPerSpace = 0
				continue
			default:
				free = 0
				resolved = AlignLeft
			}
		}

		ln.JustifyPerSpace = 0
		switch resolved {
		case AlignLeft:
			ln.AlignOffset = 0
		case AlignRight:
			ln.AlignOffset = free
		case AlignCenter:
			ln.AlignOffset = free / 2
		case AlignJustify:
			ln.AlignOffset = 0
			if lt.justifiable(i) {
				ln.JustifyPerSpace = distributeJustify(free, lt.spaceCount(*ln))
			}
		}
	}
}

func resolveAlignment(a Alignment, base BidiLevel) Alignment {
	switch a {
	case AlignStart:
		if base == LevelRTL {
			return AlignRight
		}
		return AlignLeft
	case AlignEnd:
		if base == LevelRTL {
			return AlignLeft
		}
		return AlignRight
	default:
		return a
	}
}

// justifiable reports whether line i is eligible for justification: the
// last line of a paragraph (one ending in a mandatory break or end of
// text) is never stretched (spec §4.7).
func (lt *Layout) justifiable(i int) bool {
	ln := lt.lines[i]
	if ln.BreakReason == BreakExplicit || ln.BreakReason == BreakEndOfText {
		return false
	}
	return lt.spaceCount(ln) > 0
}

func (lt *Layout) spaceCount(ln Line) int {
	n := 0
	for i := 0; i < ln.Runs.Count; i++ {
		for _, c := range lt.lineRunClusters(ln, i) {
			if c.Range.Len() == 1 && lt.text[c.Range.Start] == ' ' {
				n++
			}
		}
	}
	return n
}

// distributeJustify divides free space across n interword spaces,
// rounding down so the sum never exceeds free (spec §4.7 "whitespace
// stretching, no OpenType justification"). When n is zero the line
// cannot be justified and no stretch is applied (an Open Question
// resolved in DESIGN.md: single-word justified lines are left
// start-aligned rather than centered or end-aligned).
func distributeJustify(free fixed.Int26_6, n int) fixed.Int26_6 {
	if n <= 0 {
		return 0
	}
	return free / fixed.Int26_6(n)
}
