// SPDX-License-Identifier: Unlicense OR MIT

// Package textdata provides the default UnicodeData implementation,
// backed by github.com/gioui/uax's UAX #14 line-wrap segmenter for break
// opportunities, a whitespace word breaker for word boundaries, and
// golang.org/x/text/unicode/bidi for coarse bidi classification.
package textdata

import (
	"unicode"

	"golang.org/x/text/unicode/bidi"

	"github.com/gioui/uax/segment"
	"github.com/gioui/uax/uax14"

	"github.com/textkit/richlayout"
)

// Adapter implements richlayout.UnicodeData.
type Adapter struct {
	scripts map[*unicode.RangeTable]richlayout.Script
	order   []*unicode.RangeTable
}

// scriptTables lists the script range tables this adapter distinguishes,
// in priority order (a rune may be present in more than one table; the
// first match wins). This is a coarse script list sufficient for the
// Itemizer's run-splitting purposes (spec §4.4); it is not a full UAX #24
// implementation.
var scriptTables = []*unicode.RangeTable{
	unicode.Latin,
	unicode.Cyrillic,
	unicode.Greek,
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
	unicode.Devanagari,
	unicode.Thai,
}

// New constructs an Adapter, assigning each script table in scriptTables a
// stable, distinct richlayout.Script id.
func New() *Adapter {
	a := &Adapter{scripts: make(map[*unicode.RangeTable]richlayout.Script, len(scriptTables))}
	for i, t := range scriptTables {
		a.scripts[t] = richlayout.Script(i + 1)
	}
	a.order = scriptTables
	return a
}

// Script implements richlayout.UnicodeData. Codepoints outside every
// known table (punctuation, digits, whitespace) return the zero Script,
// which the Itemizer treats as "common" and never uses as a boundary on
// its own (see itemize.go's treatment of curScript == 0).
func (a *Adapter) Script(cp rune) richlayout.Script {
	for _, t := range a.order {
		if unicode.Is(t, cp) {
			return a.scripts[t]
		}
	}
	return 0
}

// LineBreakOpportunities implements richlayout.UnicodeData using UAX #14
// via a gioui/uax Segmenter (grounded in uax14's own documented usage:
// segment.NewSegmenter(uax14.NewLineWrap())).
func (a *Adapter) LineBreakOpportunities(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	if len(text) == 0 {
		return bits
	}
	runes := []rune(string(text))
	seg := segment.NewSegmenter(uax14.NewLineWrap())
	seg.InitFromSlice(runes)
	byteOffset := 0
	for seg.Next() {
		byteOffset += len(seg.Bytes())
		if byteOffset <= len(text) {
			bits[byteOffset] = true
		}
	}
	return bits
}

// WordBoundaries implements richlayout.UnicodeData using gioui/uax's
// whitespace-delimited SimpleWordBreaker.
func (a *Adapter) WordBoundaries(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	if len(text) == 0 {
		return bits
	}
	runes := []rune(string(text))
	seg := segment.NewSegmenter(segment.NewSimpleWordBreaker())
	seg.InitFromSlice(runes)
	byteOffset := 0
	for seg.Next() {
		byteOffset += len(seg.Bytes())
		if byteOffset <= len(text) {
			bits[byteOffset] = true
		}
	}
	return bits
}

// GraphemeBoundaries implements richlayout.UnicodeData. gioui/uax does not
// ship a UAX #29 grapheme-cluster breaker (only word and line breakers),
// so this falls back to a stdlib-only heuristic: break before every rune
// that is not a combining mark (unicode.Mn, unicode.Me), a variation
// selector (U+FE0E, U+FE0F), or a ZWJ (U+200D). This over-segments a
// handful of rarer cluster forms (regional-indicator flag pairs, ZWJ
// emoji sequences are split into several clusters) but is correct for
// the common case and is the basis the missing-glyph fallback and cursor
// movement rely on; see DESIGN.md.
func (a *Adapter) GraphemeBoundaries(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	bits[0] = true
	i := 0
	for _, r := range string(text) {
		if i > 0 && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Me, r) && r != 0xFE0E && r != 0xFE0F && r != 0x200D {
			bits[i] = true
		}
		i += runeLen(r)
	}
	return bits
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// IsEmojiPresentation checks the default-emoji-presentation blocks
// relevant to common text; a full implementation would consult the
// Unicode emoji data tables, which are not vendored by any example in the
// retrieved pack, so this adapter recognizes two block ranges as a
// stdlib-only approximation (see DESIGN.md): U+1F300..U+1FAFF
// (Miscellaneous Symbols and Pictographs through Symbols and Pictographs
// Extended-A) and U+2600..U+27BF (Miscellaneous Symbols and Dingbats).
func (a *Adapter) IsEmojiPresentation(cp rune) bool {
	switch {
	case cp >= 0x1F300 && cp <= 0x1FAFF:
		return true
	case cp >= 0x2600 && cp <= 0x27BF:
		return true
	default:
		return false
	}
}

// BidiClassOf implements richlayout.UnicodeData by analyzing cp as a
// one-rune golang.org/x/text/unicode/bidi Paragraph and mapping the
// direction of its first ordered run to a coarse BidiClass.
func (a *Adapter) BidiClassOf(cp rune) richlayout.BidiClass {
	p := &bidi.Paragraph{}
	p.SetString(string(cp))
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return richlayout.BidiOther
	}
	switch ordering.Run(0).Direction() {
	case bidi.LeftToRight:
		return richlayout.BidiStrongLTR
	case bidi.RightToLeft:
		return richlayout.BidiStrongRTL
	default:
		return richlayout.BidiNeutral
	}
}

var _ richlayout.UnicodeData = (*Adapter)(nil)
