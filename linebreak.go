// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// WrapOptions configures one call to BreakLines (spec §4.6 "Line
// Breaker"). A nil MaxAdvance disables soft wrapping entirely (the whole
// paragraph becomes one line except at mandatory breaks).
type WrapOptions struct {
	MaxAdvance *fixed.Int26_6
	Quantize   bool
	MaxLines   int // 0 means unlimited
}

// breakState is the Empty -> Accumulating -> Committed state machine
// named in spec §4.6: a line breaker walks clusters left to right,
// extending the current (Accumulating) line until it must flush to
// Committed, either by overflow, a mandatory break, end of text, or a
// MaxLines cap. Breaking works at cluster granularity so that a single
// Run spanning an entire paragraph (the common case: one style, one
// script, one bidi level) can still be wrapped across many lines.
type breakState struct {
	lt   *Layout
	opts WrapOptions

	lineClusterStart int // index into lt.clusters: first cluster of the line being accumulated
	advance          fixed.Int26_6
	lastBreak        *candidateBreak // last seen soft break opportunity since lineClusterStart
	truncated        bool
}

type candidateBreak struct {
	clusterIdx int // index into lt.clusters, one past the break point
	advance    fixed.Int26_6
}

// BreakLines discards any previously committed lines and recomputes
// Layout.lines from the shaped clusters, greedily wrapping at MaxAdvance
// (spec §4.6). Re-invoking BreakLines with different options is
// idempotent: it never mutates runs, clusters, or glyphs, only the Lines
// slice (spec §8 invariant 7).
func (lt *Layout) BreakLines(opts WrapOptions) {
	lt.lines = lt.lines[:0]
	st := &breakState{lt: lt, opts: opts}
	st.run()
}

func (st *breakState) run() {
	lt := st.lt
	st.lineClusterStart = 0
	st.advance = 0
	st.lastBreak = nil

	if len(lt.clusters) == 0 {
		lt.lines = append(lt.lines, Line{BreakReason: BreakEndOfText})
		st.layoutVertical()
		return
	}

	for ci := 0; ci < len(lt.clusters); ci++ {
		if st.truncated {
			break
		}
		c := lt.clusters[ci]
		width := c.Advance
		style := lt.styles[c.StyleIndex].Style
		if st.opts.MaxAdvance != nil && style.TextWrap != TextWrapNoWrap && !c.Whitespace &&
			st.advance+width > *st.opts.MaxAdvance && st.advance > 0 {
			if st.lastBreak != nil {
				st.commitThrough(*st.lastBreak, BreakWrapSoft)
				ci = st.lineClusterStart - 1
				continue
			}
			// No soft break opportunity fits: under OverflowWrapAnywhere or
			// OverflowWrapBreakWord, emergency-break before this cluster
			// (spec §4.6 "overflow-wrap emergency"); under
			// OverflowWrapNormal the content overflows until a later break
			// opportunity.
			if style.OverflowWrap != OverflowWrapNormal {
				st.commitEmergency(ci, BreakWrapEmergency)
				ci = st.lineClusterStart - 1
				continue
			}
		}
		st.advance += width
		if c.LineBreak && !c.Mandatory {
			st.lastBreak = &candidateBreak{clusterIdx: ci + 1, advance: st.advance}
		}
		if c.Mandatory {
			st.commitThrough(candidateBreak{clusterIdx: ci + 1, advance: st.advance}, BreakExplicit)
			ci = st.lineClusterStart - 1
			continue
		}
	}
	if !st.truncated && (st.lineClusterStart < len(lt.clusters) || len(lt.lines) == 0) {
		st.commitRemainder(BreakEndOfText)
	}
	if st.truncated && st.lineClusterStart < len(lt.clusters) {
		st.applyTruncator()
	}
	st.layoutVertical()
}

// commitThrough ends the current line at brk (exclusive), starting the
// next line's cluster accumulation at brk.clusterIdx.
func (st *breakState) commitThrough(brk candidateBreak, reason BreakReason) {
	st.appendLine(st.lineClusterStart, brk.clusterIdx, brk.advance, reason)
	st.lineClusterStart = brk.clusterIdx
	st.advance = 0
	st.lastBreak = nil
	if st.opts.MaxLines > 0 && len(st.lt.lines) >= st.opts.MaxLines {
		st.truncated = true
	}
}

func (st *breakState) commitEmergency(clusterIdx int, reason BreakReason) {
	st.appendLine(st.lineClusterStart, clusterIdx, st.advance, reason)
	st.lineClusterStart = clusterIdx
	st.advance = 0
	st.lastBreak = nil
	if st.opts.MaxLines > 0 && len(st.lt.lines) >= st.opts.MaxLines {
		st.truncated = true
	}
}

func (st *breakState) commitRemainder(reason BreakReason) {
	lt := st.lt
	st.appendLine(st.lineClusterStart, len(lt.clusters), st.advance, reason)
	st.lineClusterStart = len(lt.clusters)
}

// applyTruncator marks the last committed line as truncated, trimming
// trailing content (first any hanging whitespace, then real clusters)
// until the truncator's shaped width fits within MaxAdvance (spec §4.6
// "truncation"), mirroring gio/text/gotext.go's final-run rune-count
// adjustment. A nil MaxAdvance means lines are unbounded, so only the
// hanging whitespace is trimmed — no real clusters are, and the truncator
// simply appends.
func (st *breakState) applyTruncator() {
	lt := st.lt
	if lt.truncatorRun.Clusters.Count == 0 || len(lt.lines) == 0 {
		return
	}
	ln := &lt.lines[len(lt.lines)-1]
	if ln.Clusters.Count == 0 {
		return
	}

	trailing := trailingWhitespaceCount(lt, ln.Clusters.Offset, ln.Clusters.End())
	ln.Clusters.Count -= trailing
	ln.TrailingWhitespaceAdvance = 0

	truncWidth := lt.truncatorWidth
	if st.opts.MaxAdvance != nil {
		limit := *st.opts.MaxAdvance
		for ln.Clusters.Count > 0 && ln.Width+truncWidth > limit {
			last := ln.Clusters.End() - 1
			ln.Width -= lt.clusters[last].Advance
			ln.Clusters.Count--
		}
		if ln.Width < 0 {
			ln.Width = 0
		}
	}
	ln.Truncated = true
	ln.Width += truncWidth
}

// trailingWhitespaceCount reports how many clusters at the end of
// [clusterStart, clusterEnd) are whitespace (and not inline boxes).
func trailingWhitespaceCount(lt *Layout, clusterStart, clusterEnd int) int {
	n := 0
	for i := clusterEnd - 1; i >= clusterStart; i-- {
		c := lt.clusters[i]
		if !c.Whitespace || c.InlineBox >= 0 {
			break
		}
		n++
	}
	return n
}

// appendLine materializes one Line covering clusters
// [clusterStart, clusterEnd), computing trailing-whitespace hang (spec
// §4.6), the set of runs touched (possibly only partially at either end),
// and reordering those runs into visual order per their bidi levels (spec
// §4.6 "bidi reorder", grounded in gioui-gio's computeVisualOrder: whole
// runs are permuted, never individual clusters within a run — a run's
// Level is uniform across it, so clipping a boundary run's cluster range
// to this line doesn't change how it participates in reordering).
func (st *breakState) appendLine(clusterStart, clusterEnd int, rawAdvance fixed.Int26_6, reason BreakReason) {
	lt := st.lt
	if clusterEnd < clusterStart {
		clusterEnd = clusterStart
	}

	trailing := trailingWhitespaceCount(lt, clusterStart, clusterEnd)
	var trailingAdvance fixed.Int26_6
	for i := clusterEnd - trailing; i < clusterEnd; i++ {
		trailingAdvance += lt.clusters[i].Advance
	}
	width := rawAdvance - trailingAdvance
	if width < 0 {
		width = 0
	}

	var runOffset, runCount int
	var ascent, descent, leading fixed.Int26_6
	if clusterEnd > clusterStart {
		firstRun := lt.runIndexForCluster(clusterStart)
		lastRun := lt.runIndexForCluster(clusterEnd - 1)
		runOffset = firstRun
		runCount = lastRun - firstRun + 1
		for i := firstRun; i <= lastRun; i++ {
			r := lt.runs[i]
			if r.Ascent > ascent {
				ascent = r.Ascent
			}
			if r.Descent > descent {
				descent = r.Descent
			}
			if r.LineGap > leading {
				leading = r.LineGap
			}
		}
	}

	order := visualOrder(lt.runs[runOffset : runOffset+runCount])

	lt.lines = append(lt.lines, Line{
		Runs:                      IndexRange{runOffset, runCount},
		Clusters:                  IndexRange{clusterStart, clusterEnd - clusterStart},
		VisualOrder:               order,
		Ascent:                    ascent,
		Descent:                   descent,
		Leading:                   leading,
		Width:                     width,
		TrailingWhitespaceAdvance: trailingAdvance,
		BreakReason:               reason,
	})
}

// visualOrder permutes [0, len(runs)) into left-to-right visual order
// following the classic UAX #9 reorder-by-level algorithm applied to
// whole runs: for each level from the highest present down to the lowest
// odd level present, reverse every maximal span whose level is >= that
// level.
func visualOrder(runs []Run) []int {
	n := len(runs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if n == 0 {
		return order
	}
	var maxLevel, minOddLevel BidiLevel
	minOddLevel = ^BidiLevel(0) >> 1 // sentinel "none seen"
	for _, r := range runs {
		if r.Level > maxLevel {
			maxLevel = r.Level
		}
		if r.Level%2 == 1 && r.Level < minOddLevel {
			minOddLevel = r.Level
		}
	}
	if maxLevel == 0 {
		return order
	}
	for level := maxLevel; level >= minOddLevel; level-- {
		start := -1
		for i := 0; i <= n; i++ {
			atOrAbove := i < n && runs[order[i]].Level >= level
			if atOrAbove && start == -1 {
				start = i
			} else if !atOrAbove && start != -1 {
				reverseInts(order[start:i])
				start = -1
			}
		}
		if level == 0 {
			break
		}
	}
	return order
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// layoutVertical accumulates each line's YOffset from the preceding
// line's ascent/descent/leading, optionally quantizing to whole pixels
// (spec §4.6 "Quantize").
func (st *breakState) layoutVertical() {
	lt := st.lt
	var y fixed.Int26_6
	for i := range lt.lines {
		ln := &lt.lines[i]
		ln.YOffset = y
		if st.opts.Quantize {
			ln.YOffset = (ln.YOffset + 32) &^ 63
		}
		y = ln.YOffset + ln.Ascent + ln.Descent + ln.Leading
	}
}
