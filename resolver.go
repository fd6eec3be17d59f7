// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "sort"

// ByteRange is a half-open [Start, End) range of byte offsets into a text
// buffer, required to lie on codepoint boundaries (spec §3).
type ByteRange struct {
	Start, End int
}

func (r ByteRange) Len() int { return r.End - r.Start }

// overlaps reports whether r fully or partially overlaps [start, end).
func (r ByteRange) overlaps(start, end int) bool {
	return r.Start < end && start < r.End
}

// Span is one entry of the ranged input to the Style Resolver: a style
// override applied over a byte range, in a caller-defined application
// order (spec §4.2).
type Span struct {
	Range ByteRange
	Style PartialStyle
	// order is the application order used for last-writer-wins when
	// multiple spans cover the same interval. Set by NewSpans / the tree
	// builder; callers constructing []Span by hand should assign
	// ascending order values matching their intended precedence.
	order int
}

// NewSpans assigns ascending application order to spans in the order they
// are given, mirroring how a caller would push styles one at a time.
func NewSpans(ranged ...Span) []Span {
	out := make([]Span, len(ranged))
	for i, s := range ranged {
		s.order = i
		out[i] = s
	}
	return out
}

// ResolvedStyleRun is one disjoint byte range with its fully-resolved
// style, as produced by ResolveStyles (spec §3).
type ResolvedStyleRun struct {
	Range ByteRange
	Style ResolvedStyle
}

// ResolveStyles turns a base style plus a set of possibly overlapping
// ranged spans into a disjoint, monotonic sequence of ResolvedStyleRun
// covering [0, textLen) (spec §4.2).
//
// Algorithm: collect boundary offsets (0, textLen, and every span
// endpoint), resolve each resulting interval independently by applying
// every covering span in application order (last writer wins per
// property), then coalesce adjacent intervals with identical resolved
// style. This is deterministic given input order and stable under
// insertion of a no-op span.
func ResolveStyles(base ResolvedStyle, spans []Span, textLen int) []ResolvedStyleRun {
	if textLen == 0 {
		return nil
	}
	boundSet := map[int]struct{}{0: {}, textLen: {}}
	for _, s := range spans {
		if s.Range.Start >= 0 && s.Range.Start <= textLen {
			boundSet[s.Range.Start] = struct{}{}
		}
		if s.Range.End >= 0 && s.Range.End <= textLen {
			boundSet[s.Range.End] = struct{}{}
		}
	}
	bounds := make([]int, 0, len(boundSet))
	for b := range boundSet {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)

	// Apply spans in application order so last writer wins.
	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	var runs []ResolvedStyleRun
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if start >= end {
			continue
		}
		style := base
		for _, s := range ordered {
			if s.Range.overlaps(start, end) {
				style = Merge(style, s.Style)
			}
		}
		if n := len(runs); n > 0 && runs[n-1].Range.End == start && runs[n-1].Style.Equal(style) {
			runs[n-1].Range.End = end
			continue
		}
		runs = append(runs, ResolvedStyleRun{Range: ByteRange{start, end}, Style: style})
	}
	return runs
}

// StyleAt returns the resolved style covering byte offset b. If no run
// covers it (b == textLen, the end of text), it returns the last run's
// style, or DefaultResolvedStyle() when runs is empty.
func StyleAt(runs []ResolvedStyleRun, b int) ResolvedStyle {
	for _, r := range runs {
		if b >= r.Range.Start && b < r.Range.End {
			return r.Style
		}
	}
	if n := len(runs); n > 0 {
		return runs[n-1].Style
	}
	return DefaultResolvedStyle()
}
