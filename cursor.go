// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// Affinity disambiguates a cursor sitting exactly at a line-wrap point or
// a bidi boundary: which visual side of the boundary the caret renders on
// (spec §4.9).
type Affinity uint8

const (
	AffinityDownstream Affinity = iota
	AffinityUpstream
)

// Cursor is a logical caret position (spec §4.9). Two cursors with equal
// ByteOffset are considered the same position regardless of Affinity
// (spec §8 invariant 6 "IsCollapsed ignores affinity").
type Cursor struct {
	ByteOffset int
	Affinity   Affinity
}

// Selection is a pair of cursors; Anchor is fixed, Focus moves as the
// selection is extended.
type Selection struct {
	Anchor Cursor
	Focus  Cursor
}

// IsCollapsed reports whether the selection spans zero bytes.
func (s Selection) IsCollapsed() bool { return s.Anchor.ByteOffset == s.Focus.ByteOffset }

// Range returns the selection's byte range in ascending order regardless
// of which end is the anchor.
func (s Selection) Range() ByteRange {
	if s.Anchor.ByteOffset <= s.Focus.ByteOffset {
		return ByteRange{s.Anchor.ByteOffset, s.Focus.ByteOffset}
	}
	return ByteRange{s.Focus.ByteOffset, s.Anchor.ByteOffset}
}

// CursorAt clamps offset into [0, len(text)] and snaps it to the nearest
// codepoint boundary at or before offset (spec §4.9).
func (lt *Layout) CursorAt(offset int, aff Affinity) Cursor {
	return Cursor{ByteOffset: clampToBoundary(lt.text, offset), Affinity: aff}
}

// lineByteRange returns the byte range actually covered by ln.Clusters
// (which may be a sub-range of the first/last touched run when a break
// landed mid-run).
func (lt *Layout) lineByteRange(ln Line) (start, end int) {
	if ln.Clusters.Count == 0 {
		return 0, 0
	}
	first := lt.clusters[ln.Clusters.Offset]
	last := lt.clusters[ln.Clusters.End()-1]
	return first.Range.Start, last.Range.End
}

// lineAt returns the index of the line containing byte offset b; b ==
// len(text) maps to the last line that ends there.
func (lt *Layout) lineAt(b int) int {
	for i, ln := range lt.lines {
		if ln.Clusters.Count == 0 {
			continue
		}
		start, end := lt.lineByteRange(ln)
		if b >= start && (b < end || (b == end && b == len(lt.text))) {
			return i
		}
	}
	if len(lt.lines) == 0 {
		return -1
	}
	return len(lt.lines) - 1
}

// CursorFromPoint hit-tests a point against the committed lines,
// returning the nearest cursor position (spec §4.9). Lines are tried
// top-to-bottom by YOffset/line-height; within a line, runs are walked in
// visual order and clusters by accumulated advance, matching the
// left-to-right scan gio's pointer-to-offset hit-testing performs.
func (lt *Layout) CursorFromPoint(x, y fixed.Int26_6) Cursor {
	if len(lt.lines) == 0 {
		return Cursor{ByteOffset: 0}
	}
	li := 0
	for i, ln := range lt.lines {
		li = i
		bottom := ln.YOffset + ln.Ascent + ln.Descent + ln.Leading
		if y < bottom {
			break
		}
	}
	ln := lt.lines[li]
	cursorX := ln.AlignOffset
	var best Cursor
	bestSet := false
	var bestDist fixed.Int26_6
	for _, logical := range ln.VisualOrder {
		for _, c := range lt.lineRunClusters(ln, logical) {
			adv := c.Advance
			if c.Range.Len() == 1 && lt.text[c.Range.Start] == ' ' {
				adv += ln.JustifyPerSpace
			}
			mid := cursorX + adv/2
			dist := x - mid
			if dist < 0 {
				dist = -dist
			}
			if !bestSet || dist < bestDist {
				bestDist = dist
				bestSet = true
				offset := c.Range.Start
				if x > mid {
					offset = c.Range.End
				}
				best = Cursor{ByteOffset: offset}
			}
			cursorX += adv
		}
	}
	if !bestSet {
		return Cursor{ByteOffset: 0}
	}
	return best
}

// NextVisual moves one grapheme forward in visual (rendered) order,
// which on an RTL run moves to a lower byte offset (spec §4.9).
func (lt *Layout) NextVisual(c Cursor, udata UnicodeData) Cursor {
	level := lt.bidi.LevelAt(c.ByteOffset)
	graphemes := udata.GraphemeBoundaries(lt.text)
	if level%2 == 1 {
		return lt.CursorAt(prevGraphemeBoundary(graphemes, c.ByteOffset), AffinityDownstream)
	}
	return lt.CursorAt(nextGraphemeBoundary(graphemes, c.ByteOffset, len(lt.text)), AffinityDownstream)
}

// PrevVisual is the inverse of NextVisual.
func (lt *Layout) PrevVisual(c Cursor, udata UnicodeData) Cursor {
	level := lt.bidi.LevelAt(c.ByteOffset)
	graphemes := udata.GraphemeBoundaries(lt.text)
	if level%2 == 1 {
		return lt.CursorAt(nextGraphemeBoundary(graphemes, c.ByteOffset, len(lt.text)), AffinityDownstream)
	}
	return lt.CursorAt(prevGraphemeBoundary(graphemes, c.ByteOffset), AffinityDownstream)
}

func prevGraphemeBoundary(bits []bool, from int) int {
	for j := from - 1; j > 0; j-- {
		if j < len(bits) && bits[j] {
			return j
		}
	}
	return 0
}

// NextWord moves the cursor to the start of the next word boundary
// strictly after c (spec §4.9), delegating boundary discovery to
// UnicodeData.
func (lt *Layout) NextWord(c Cursor, udata UnicodeData) Cursor {
	bounds := udata.WordBoundaries(lt.text)
	for j := c.ByteOffset + 1; j <= len(lt.text); j++ {
		if j == len(lt.text) || (j < len(bounds) && bounds[j]) {
			return lt.CursorAt(j, AffinityDownstream)
		}
	}
	return lt.CursorAt(len(lt.text), AffinityDownstream)
}

// PrevWord moves the cursor to the start of the previous word boundary
// strictly before c (spec §4.9).
func (lt *Layout) PrevWord(c Cursor, udata UnicodeData) Cursor {
	bounds := udata.WordBoundaries(lt.text)
	for j := c.ByteOffset - 1; j > 0; j-- {
		if j < len(bounds) && bounds[j] {
			return lt.CursorAt(j, AffinityDownstream)
		}
	}
	return lt.CursorAt(0, AffinityDownstream)
}

// SelectionRect is one visual rectangle covering a (possibly partial)
// line of a selection, plus whether it sits on a wrapped (non-final) line
// (spec §4.9).
type SelectionRect struct {
	Line    int
	X, Y    fixed.Int26_6
	Width   fixed.Int26_6
	Height  fixed.Int26_6
	Wrapped bool
}

// SelectionGeometry returns one rectangle per line the selection
// touches, each clipped to the portion of that line within [from, to)
// (spec §4.9). Rectangles are in layout-local coordinates, top-left
// origin.
func (lt *Layout) SelectionGeometry(from, to Cursor) []SelectionRect {
	r := Selection{Anchor: from, Focus: to}.Range()
	if r.Start == r.End {
		return nil
	}
	var out []SelectionRect
	for li, ln := range lt.lines {
		if ln.Clusters.Count == 0 {
			continue
		}
		lineStart, lineEnd := lt.lineByteRange(ln)
		if lineEnd <= r.Start || lineStart >= r.End {
			continue
		}
		clipStart, clipEnd := r.Start, r.End
		if clipStart < lineStart {
			clipStart = lineStart
		}
		if clipEnd > lineEnd {
			clipEnd = lineEnd
		}

		x := ln.AlignOffset
		var rectX, rectW fixed.Int26_6
		started := false
		for _, logical := range ln.VisualOrder {
			for _, c := range lt.lineRunClusters(ln, logical) {
				adv := c.Advance
				if c.Range.Len() == 1 && lt.text[c.Range.Start] == ' ' {
					adv += ln.JustifyPerSpace
				}
				if c.Range.Start >= clipStart && c.Range.Start < clipEnd {
					if !started {
						rectX = x
						started = true
					}
					rectW += adv
				}
				x += adv
			}
		}
		if !started {
			continue
		}
		out = append(out, SelectionRect{
			Line:    li,
			X:       rectX,
			Y:       ln.YOffset,
			Width:   rectW,
			Height:  ln.Ascent + ln.Descent + ln.Leading,
			Wrapped: ln.BreakReason == BreakWrapSoft || ln.BreakReason == BreakWrapEmergency,
		})
	}
	return out
}
