// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/image/math/fixed"

// FontFamily is one entry of a FontStack: either a concrete family name or
// a generic fallback keyword (e.g. "serif", "sans-serif", "monospace").
type FontFamily string

// FontStack is an ordered list of families plus generic fallbacks, queried
// left to right by the Itemizer (spec §4.4).
type FontStack []FontFamily

// FontWeight is a CSS-style weight in the range 1..=1000.
type FontWeight int

const WeightNormal FontWeight = 400
const WeightBold FontWeight = 700

// FontWidth is the CSS font-stretch axis.
type FontWidth uint8

const (
	WidthUltraCondensed FontWidth = iota
	WidthExtraCondensed
	WidthCondensed
	WidthSemiCondensed
	WidthNormal
	WidthSemiExpanded
	WidthExpanded
	WidthExtraExpanded
	WidthUltraExpanded
)

// FontStyle is the CSS font-style axis (slant).
type FontStyle uint8

const (
	StyleNormal FontStyle = iota
	StyleItalic
	StyleOblique
)

// VariationTag and FeatureTag are raw 4-byte OpenType tags. The core never
// interprets them; it only carries them through to the Shaper capability.
type VariationTag [4]byte
type FeatureTag [4]byte

type VariationValue struct {
	Tag   VariationTag
	Value float32
}

type FeatureValue struct {
	Tag   FeatureTag
	Value uint32
}

// LineHeightKind selects how LineHeight.Value is interpreted (spec §4.7).
type LineHeightKind uint8

const (
	LineHeightAbsolute LineHeightKind = iota
	LineHeightFontSizeRelative
	LineHeightMetricsRelative
)

type LineHeight struct {
	Kind LineHeightKind
	// Value is a fixed-point line box height for Absolute, or a scale
	// factor for the two relative kinds.
	Value fixed.Int26_6
}

// Decoration describes an underline or strikethrough.
type Decoration struct {
	Present bool
	Size    fixed.Int26_6
	Offset  fixed.Int26_6
	Brush   Brush
}

// Brush is an opaque paint token supplied by the caller; the core stores
// and returns it but never interprets it (spec §9 "Polymorphism over
// paint").
type Brush any

// WordBreak is the CSS word-break policy.
type WordBreak uint8

const (
	WordBreakNormal WordBreak = iota
	WordBreakBreakAll
	WordBreakKeepAll
)

// OverflowWrap controls emergency-break behavior in the Line Breaker.
type OverflowWrap uint8

const (
	OverflowWrapNormal OverflowWrap = iota
	OverflowWrapAnywhere
	OverflowWrapBreakWord
)

// TextWrapMode toggles soft wrapping entirely.
type TextWrapMode uint8

const (
	TextWrapWrap TextWrapMode = iota
	TextWrapNoWrap
)

// ResolvedStyle is the fully-populated style record produced by the Style
// Resolver (C2) for a run of text (spec §4.1).
type ResolvedStyle struct {
	FontStack      FontStack
	FontSize       fixed.Int26_6
	FontWeight     FontWeight
	FontWidth      FontWidth
	FontStyle      FontStyle
	Variations     []VariationValue
	Features       []FeatureValue
	LetterSpacing  fixed.Int26_6
	WordSpacing    fixed.Int26_6
	LineHeight     LineHeight
	Underline      Decoration
	Strikethrough  Decoration
	Brush          Brush
	Locale         string
	WordBreak      WordBreak
	OverflowWrap   OverflowWrap
	TextWrap       TextWrapMode
}

// DefaultResolvedStyle returns the base style every Builder starts from
// unless overridden (spec §4.1 "ResolvedStyle has a default() value").
func DefaultResolvedStyle() ResolvedStyle {
	return ResolvedStyle{
		FontStack:    FontStack{"sans-serif"},
		FontSize:     fixed.I(16),
		FontWeight:   WeightNormal,
		FontWidth:    WidthNormal,
		FontStyle:    StyleNormal,
		LineHeight:   LineHeight{Kind: LineHeightMetricsRelative, Value: fixed.I(1)},
		Locale:       "en",
		WordBreak:    WordBreakNormal,
		OverflowWrap: OverflowWrapNormal,
		TextWrap:     TextWrapWrap,
	}
}

// Equal reports whether r and o have identical resolved properties. Slice
// fields are compared elementwise since ResolvedStyle is not comparable
// with ==.
func (r ResolvedStyle) Equal(o ResolvedStyle) bool {
	if r.FontSize != o.FontSize || r.FontWeight != o.FontWeight || r.FontWidth != o.FontWidth ||
		r.FontStyle != o.FontStyle || r.LetterSpacing != o.LetterSpacing || r.WordSpacing != o.WordSpacing ||
		r.LineHeight != o.LineHeight || r.Underline != o.Underline || r.Strikethrough != o.Strikethrough ||
		r.Brush != o.Brush || r.Locale != o.Locale || r.WordBreak != o.WordBreak ||
		r.OverflowWrap != o.OverflowWrap || r.TextWrap != o.TextWrap {
		return false
	}
	if len(r.FontStack) != len(o.FontStack) {
		return false
	}
	for i := range r.FontStack {
		if r.FontStack[i] != o.FontStack[i] {
			return false
		}
	}
	if len(r.Variations) != len(o.Variations) {
		return false
	}
	for i := range r.Variations {
		if r.Variations[i] != o.Variations[i] {
			return false
		}
	}
	if len(r.Features) != len(o.Features) {
		return false
	}
	for i := range r.Features {
		if r.Features[i] != o.Features[i] {
			return false
		}
	}
	return true
}

// PartialStyle carries only the properties a caller wants to override for
// a span; nil/zero-length fields are "unset" and left untouched by Merge
// (spec §4.1 "merging a partial style ... replaces only the set
// properties").
type PartialStyle struct {
	FontStack     FontStack
	FontSize      *fixed.Int26_6
	FontWeight    *FontWeight
	FontWidth     *FontWidth
	FontStyle     *FontStyle
	Variations    []VariationValue
	Features      []FeatureValue
	LetterSpacing *fixed.Int26_6
	WordSpacing   *fixed.Int26_6
	LineHeight    *LineHeight
	Underline     *Decoration
	Strikethrough *Decoration
	Brush         *Brush
	Locale        *string
	WordBreak     *WordBreak
	OverflowWrap  *OverflowWrap
	TextWrap      *TextWrapMode
}

// Merge applies the set fields of p onto a copy of base and returns the
// result. Unset fields of p leave base's value untouched.
func Merge(base ResolvedStyle, p PartialStyle) ResolvedStyle {
	out := base
	if p.FontStack != nil {
		out.FontStack = p.FontStack
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.FontWeight != nil {
		out.FontWeight = *p.FontWeight
	}
	if p.FontWidth != nil {
		out.FontWidth = *p.FontWidth
	}
	if p.FontStyle != nil {
		out.FontStyle = *p.FontStyle
	}
	if p.Variations != nil {
		out.Variations = p.Variations
	}
	if p.Features != nil {
		out.Features = p.Features
	}
	if p.LetterSpacing != nil {
		out.LetterSpacing = *p.LetterSpacing
	}
	if p.WordSpacing != nil {
		out.WordSpacing = *p.WordSpacing
	}
	if p.LineHeight != nil {
		out.LineHeight = *p.LineHeight
	}
	if p.Underline != nil {
		out.Underline = *p.Underline
	}
	if p.Strikethrough != nil {
		out.Strikethrough = *p.Strikethrough
	}
	if p.Brush != nil {
		out.Brush = *p.Brush
	}
	if p.Locale != nil {
		out.Locale = *p.Locale
	}
	if p.WordBreak != nil {
		out.WordBreak = *p.WordBreak
	}
	if p.OverflowWrap != nil {
		out.OverflowWrap = *p.OverflowWrap
	}
	if p.TextWrap != nil {
		out.TextWrap = *p.TextWrap
	}
	return out
}
