// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// FontInstance identifies a concrete, sized font as resolved by a
// FontProvider. The core never looks inside it; it is only ever passed
// back to the FontProvider or Shaper that produced it.
type FontInstance struct {
	// Handle is an opaque identifier assigned by the FontProvider
	// implementation (e.g. an index into its own face table).
	Handle uintptr
}

// IsZero reports whether fi is the zero value, used by the core to detect
// "no font available" without a sentinel error.
func (fi FontInstance) IsZero() bool { return fi.Handle == 0 }

// FontMetrics describes the scaled metrics of a FontInstance at a
// particular size, per spec §6.
type FontMetrics struct {
	Ascent        fixed.Int26_6
	Descent       fixed.Int26_6
	Leading       fixed.Int26_6
	XHeight       fixed.Int26_6
	CapHeight     fixed.Int26_6
	UnderlineSize fixed.Int26_6
	UnderlineOff  fixed.Int26_6
	StrikeSize    fixed.Int26_6
	StrikeOff     fixed.Int26_6
}

// FontProvider is the capability the core consumes for font enumeration,
// fallback, and coverage queries (spec §1, §6). Implementations are
// expected to be internally synchronized if shared across goroutines.
type FontProvider interface {
	// SelectFamily resolves a font stack plus weight/width/style into a
	// single concrete FontInstance, applying the provider's own
	// closest-match policy when no entry matches exactly.
	SelectFamily(stack FontStack, weight FontWeight, width FontWidth, style FontStyle) FontInstance

	// Coverage reports whether the given FontInstance has a glyph for cp.
	Coverage(fi FontInstance, cp rune) bool

	// FallbackChain returns, in priority order, fonts to try for a script
	// and locale when the primary stack does not cover a cluster.
	FallbackChain(script Script, locale string) []FontInstance

	// Metrics returns the scaled metrics for fi at the given size and
	// variation coordinates.
	Metrics(fi FontInstance, size fixed.Int26_6, coords []VariationValue) FontMetrics
}

// ShapedGlyph is one glyph as returned directly by a Shaper, in logical
// (pre-bidi-reorder) order, with cluster attribution.
type ShapedGlyph struct {
	GlyphID     uint32
	XOffset     fixed.Int26_6
	YOffset     fixed.Int26_6
	XAdvance    fixed.Int26_6
	ClusterByte int // byte offset of the cluster this glyph belongs to, relative to the shaped slice
}

// ShapedCluster carries the per-cluster flags a Shaper is expected to
// surface alongside glyphs (spec §4.5).
type ShapedCluster struct {
	ByteOffset int // relative to the shaped slice
	ByteLen    int
	Whitespace bool
	Newline    bool
	Emoji      bool
}

// ShapeRequest bundles the inputs to a single call to Shaper.Shape.
type ShapeRequest struct {
	Font       FontInstance
	Size       fixed.Int26_6
	Coords     []VariationValue
	Features   []FeatureValue
	Script     Script
	Level      BidiLevel
	Text       []byte // the run's text slice only (already itemized)
	Locale     string
}

// ShapeResult is what a Shaper returns for one run.
type ShapeResult struct {
	Glyphs   []ShapedGlyph
	Clusters []ShapedCluster
}

// Shaper is the capability the core consumes to shape one same-script,
// same-font, same-level run (spec §1, §6).
type Shaper interface {
	Shape(req ShapeRequest) (ShapeResult, error)
}

// Script identifies a Unicode script, e.g. as produced by UnicodeData.Script.
// It is an opaque small integer whose meaning is defined by whichever
// UnicodeData implementation produced it; the core only compares scripts
// for equality when deciding run boundaries.
type Script int32

// BidiClass mirrors the coarse set of bidirectional categories the core
// needs from UnicodeData (spec §6); a full implementation would return
// the UAX #9 bidi class, but the core only distinguishes these buckets.
type BidiClass uint8

const (
	BidiOther BidiClass = iota
	BidiStrongLTR
	BidiStrongRTL
	BidiStrongAL
	BidiNeutral
)

// UnicodeData is the capability the core consumes for Unicode property and
// segmentation queries (spec §1, §6). Offsets passed to and returned from
// its methods are byte offsets into the provided text on codepoint
// boundaries.
type UnicodeData interface {
	Script(cp rune) Script
	// LineBreakOpportunities returns a bitvector of len(text)+1 bits, one
	// per byte offset including the end of text, set at byte offsets where
	// a soft line-break opportunity exists immediately before that byte.
	LineBreakOpportunities(text []byte) []bool
	// WordBoundaries returns a bitvector of len(text)+1 bits, one per byte
	// offset including the end of text, set at byte offsets where a word
	// boundary exists immediately before that byte.
	WordBoundaries(text []byte) []bool
	// GraphemeBoundaries returns a bitvector of len(text)+1 bits, one per
	// byte offset including the end of text, set at byte offsets where a
	// grapheme cluster boundary exists immediately before that byte.
	GraphemeBoundaries(text []byte) []bool
	IsEmojiPresentation(cp rune) bool
	BidiClassOf(cp rune) BidiClass
}
