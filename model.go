// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// IndexRange is a half-open range of indices into one of Layout's parallel
// arrays (spec §9 "everything is an index into parallel arrays").
type IndexRange struct {
	Offset, Count int
}

func (r IndexRange) End() int { return r.Offset + r.Count }

// Glyph is one positioned glyph in shaped coordinates (spec §3, §6).
type Glyph struct {
	GlyphID  uint32
	XOffset  fixed.Int26_6
	YOffset  fixed.Int26_6
	Advance  fixed.Int26_6
}

// Cluster is the smallest addressable text unit (spec §3). Cluster byte
// ranges tile the source monotonically within a run and never straddle a
// ResolvedStyleRun boundary.
type Cluster struct {
	Range         ByteRange
	Glyphs        IndexRange // into Layout.glyphs; may be empty (Count == 0)
	Advance       fixed.Int26_6
	LineBreak     bool // a soft line-break opportunity exists before the next cluster
	Mandatory     bool // this cluster terminates the line unconditionally (explicit break)
	Whitespace    bool
	Newline       bool
	Emoji         bool
	MissingGlyph  bool
	StyleIndex    int // index into Layout.styles
	InlineBox     int // index into Layout.boxes, or -1 if this is a text cluster
}

// InlineBox is an opaque rectangle anchored at a byte offset that
// participates in line breaking but not shaping (spec §3).
type InlineBox struct {
	ByteOffset     int
	Width          fixed.Int26_6
	Height         fixed.Int26_6
	BaselineOffset fixed.Int26_6
}

// Run is a contiguous sequence of clusters sharing font, size, script,
// bidi level, and locale (spec §3).
type Run struct {
	Range      ByteRange
	Clusters   IndexRange // into Layout.clusters
	Font       FontInstance
	Size       fixed.Int26_6
	Script     Script
	Level      BidiLevel
	Locale     string
	Variations []VariationValue
	Ascent     fixed.Int26_6
	Descent    fixed.Int26_6
	LineGap    fixed.Int26_6
	StyleIndex int
}

// BreakReason classifies why a line ended (spec §3).
type BreakReason uint8

const (
	BreakNone BreakReason = iota
	BreakExplicit
	BreakWrapSoft
	BreakWrapEmergency
	BreakEndOfText
)

// Line is a range of runs in visual (post-reorder) order plus its
// geometry and metrics (spec §3).
type Line struct {
	Runs        IndexRange // logical-order range into Layout.runs: every run this line touches, even partially
	VisualOrder []int      // permutation of [0, Runs.Count) giving left-to-right run order

	// Clusters is the half-open cluster-index range (into Layout.clusters)
	// this line actually covers. It may begin or end partway through the
	// first or last run in Runs: the Line Breaker addresses breaks at
	// cluster granularity, not run granularity, so a soft or emergency
	// break landing inside a run splits that run's clusters across two
	// lines without re-shaping or duplicating the Run entry itself.
	Clusters IndexRange

	Ascent  fixed.Int26_6
	Descent fixed.Int26_6
	Leading fixed.Int26_6
	// YOffset is the distance from the top of the Layout to this line's
	// top (ascent box top), accumulated across preceding lines.
	YOffset fixed.Int26_6

	// Width is the raw content advance, excluding trailing whitespace,
	// before alignment (spec §8 invariant 2).
	Width                     fixed.Int26_6
	TrailingWhitespaceAdvance fixed.Int26_6

	BreakReason BreakReason

	// Truncated reports whether this is the final allowed line under a
	// WrapOptions.MaxLines cap that cut off remaining content, and a
	// truncator was configured with Builder.SetTruncator; without a
	// truncator it stays false. When true, the truncator run
	// (Layout.TruncatorRun) is rendered immediately after Clusters (spec
	// §4.6 "truncation").
	Truncated bool

	// AlignOffset is added to every run's X when computing final
	// geometry; set by Align, left at zero until then (spec §4.8).
	AlignOffset fixed.Int26_6
	// JustifyPerSpace is added to the advance of every U+0020 cluster on
	// this line when computing final geometry, used to implement
	// whitespace-stretch justification without re-shaping (spec §4.8).
	JustifyPerSpace fixed.Int26_6
}

// Baseline returns the line's baseline Y relative to the top of the
// Layout: top-left origin, Y increasing downward (spec §6).
func (l Line) Baseline() fixed.Int26_6 { return l.YOffset + l.Ascent }

// Layout is the immutable, append-only store built by Builder and
// consumed by the Line Breaker, Alignment, and Cursor components (spec
// §3). Once built, Layout is logically immutable to readers; break_lines
// and align replace only the Lines slice.
type Layout struct {
	text []byte

	styles []ResolvedStyleRun
	bidi   BidiInfo

	boxes    []InlineBox
	runs     []Run
	clusters []Cluster
	glyphs   []Glyph

	lines []Line

	scale float32

	// truncatorRun/truncatorClusters/truncatorGlyphs hold the single
	// pre-shaped run substituted for content cut off by a MaxLines cap
	// (spec §4.6 "truncation"), populated once by Builder.Build when
	// Builder.SetTruncator was called. Byte ranges in truncatorClusters
	// address the truncator string, not Text() — they live in their own
	// coordinate space and must not be used to index into lt.text.
	truncatorRun      Run
	truncatorClusters []Cluster
	truncatorGlyphs   []Glyph
	truncatorWidth    fixed.Int26_6
}

// Text returns the immutable source buffer.
func (lt *Layout) Text() []byte { return lt.text }

// Styles returns the resolved style runs the layout was built from.
func (lt *Layout) Styles() []ResolvedStyleRun { return lt.styles }

// Bidi returns the paragraph bidi analysis the layout was built from.
func (lt *Layout) Bidi() BidiInfo { return lt.bidi }

// AllRuns returns all shaped runs, in logical (pre-reorder) order.
func (lt *Layout) AllRuns() []Run { return lt.runs }

// AllClusters returns all clusters, in logical order.
func (lt *Layout) AllClusters() []Cluster { return lt.clusters }

// AllGlyphs returns all glyphs.
func (lt *Layout) AllGlyphs() []Glyph { return lt.glyphs }

// Lines returns the current committed lines, in top-to-bottom order.
func (lt *Layout) Lines() []Line { return lt.lines }

// LineRuns returns the runs of line i in visual (left-to-right) order.
func (lt *Layout) LineRuns(i int) []Run {
	ln := lt.lines[i]
	out := make([]Run, ln.Runs.Count)
	for vi, logical := range ln.VisualOrder {
		out[vi] = lt.runs[ln.Runs.Offset+logical]
	}
	return out
}

// RunClusters returns the clusters belonging to r, in logical (byte
// ascending) order; this order is preserved regardless of r's bidi level
// per spec §8 invariant 10 — the shaper, not the core, is responsible for
// intra-run glyph placement for RTL text.
func (lt *Layout) RunClusters(r Run) []Cluster {
	return lt.clusters[r.Clusters.Offset:r.Clusters.End()]
}

// ClusterGlyphs returns the glyphs belonging to c.
func (lt *Layout) ClusterGlyphs(c Cluster) []Glyph {
	return lt.glyphs[c.Glyphs.Offset:c.Glyphs.End()]
}

// runIndexForCluster returns the index into lt.runs of the run owning
// cluster index ci. Runs tile lt.clusters contiguously in build order, so
// a binary search over each run's Clusters.Offset suffices.
func (lt *Layout) runIndexForCluster(ci int) int {
	lo, hi := 0, len(lt.runs)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lt.runs[mid].Clusters.Offset <= ci {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// lineRunClusters returns the clusters of the logicalIdx'th run in ln.Runs
// that actually belong to ln, clipping the first and last run in the range
// to ln.Clusters when a break landed mid-run.
func (lt *Layout) lineRunClusters(ln Line, logicalIdx int) []Cluster {
	r := lt.runs[ln.Runs.Offset+logicalIdx]
	full := lt.RunClusters(r)
	lo, hi := 0, len(full)
	if logicalIdx == 0 {
		if d := ln.Clusters.Offset - r.Clusters.Offset; d > lo {
			lo = d
		}
	}
	if logicalIdx == ln.Runs.Count-1 {
		if d := ln.Clusters.End() - r.Clusters.Offset; d < hi {
			hi = d
		}
	}
	return full[lo:hi]
}

// TruncatorRun reports the run used to render content cut off by a
// MaxLines cap, and whether Builder.SetTruncator configured one.
func (lt *Layout) TruncatorRun() (Run, bool) {
	return lt.truncatorRun, lt.truncatorRun.Clusters.Count > 0
}

// TruncatorClusters returns the truncator's own clusters. Their Range
// fields address the truncator string, not Text().
func (lt *Layout) TruncatorClusters() []Cluster { return lt.truncatorClusters }

// TruncatorGlyphs returns the glyphs belonging to a truncator cluster.
// Unlike ClusterGlyphs, indices here are into the truncator's own glyph
// slice, not AllGlyphs.
func (lt *Layout) TruncatorGlyphs(c Cluster) []Glyph {
	return lt.truncatorGlyphs[c.Glyphs.Offset:c.Glyphs.End()]
}

// CalculateContentWidths returns (min, max): min is the width of the
// widest single cluster under a BreakAll/Anywhere word-break policy
// (every cluster is independently measurable), or under a Normal policy
// the widest unbreakable run of non-whitespace clusters between any UAX
// #14 break opportunity (c.LineBreak) — not just whitespace, so CJK and
// other run-internal break opportunities bound min-content width too.
// max is the widest run of content between mandatory breaks. Neither
// computation mutates line state (spec §4.6).
func (lt *Layout) CalculateContentWidths() (min, max fixed.Int26_6) {
	var curMax fixed.Int26_6
	var curMin fixed.Int26_6
	flushMax := func() {
		if curMax > max {
			max = curMax
		}
		curMax = 0
	}
	flushMin := func() {
		if curMin > min {
			min = curMin
		}
		curMin = 0
	}
	for _, c := range lt.clusters {
		curMax += c.Advance

		style := lt.styles[c.StyleIndex].Style
		switch {
		case style.WordBreak == WordBreakBreakAll || style.OverflowWrap == OverflowWrapAnywhere:
			if c.Advance > min {
				min = c.Advance
			}
			curMin = 0
		case c.Whitespace:
			flushMin()
		default:
			curMin += c.Advance
			if curMin > min {
				min = curMin
			}
			if c.LineBreak {
				flushMin()
			}
		}

		if c.Mandatory {
			flushMax()
			flushMin()
		}
	}
	flushMax()
	flushMin()
	return min, max
}
