package richlayout

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/math/fixed"
)

// fakeFonts is a minimal richlayout.FontProvider for tests: every family
// resolves to the same instance, every instance covers every rune, and
// metrics are a fixed monospace-ish shape derived from size.
type fakeFonts struct{}

func (fakeFonts) SelectFamily(FontStack, FontWeight, FontWidth, FontStyle) FontInstance {
	return FontInstance{Handle: 1}
}
func (fakeFonts) Coverage(FontInstance, rune) bool { return true }
func (fakeFonts) FallbackChain(Script, string) []FontInstance {
	return []FontInstance{{Handle: 1}}
}
func (fakeFonts) Metrics(fi FontInstance, size fixed.Int26_6, _ []VariationValue) FontMetrics {
	return FontMetrics{
		Ascent:  size * 4 / 5,
		Descent: size / 5,
		Leading: size / 10,
	}
}

// fakeShaper shapes monospaced: one cluster per rune, advance equal to the
// style's font size (half of it for U+0020), no positioning offsets.
type fakeShaper struct{}

func (fakeShaper) Shape(req ShapeRequest) (ShapeResult, error) {
	var res ShapeResult
	off := 0
	for off < len(req.Text) {
		r, n := utf8.DecodeRune(req.Text[off:])
		advance := req.Size
		if r == ' ' {
			advance = req.Size / 2
		}
		res.Glyphs = append(res.Glyphs, ShapedGlyph{GlyphID: uint32(r), XAdvance: advance, ClusterByte: off})
		res.Clusters = append(res.Clusters, ShapedCluster{
			ByteOffset: off,
			ByteLen:    n,
			Whitespace: r == ' ' || r == '\t',
		})
		off += n
	}
	return res, nil
}

// fakeUnicodeData treats ASCII space/tab as break-and-word boundaries and
// every byte offset as a grapheme boundary; good enough for tests that
// only use ASCII input.
type fakeUnicodeData struct{}

func (fakeUnicodeData) Script(cp rune) Script {
	switch {
	case unicode.Is(unicode.Arabic, cp), unicode.Is(unicode.Hebrew, cp):
		return 2
	default:
		return 1
	}
}

func (fakeUnicodeData) LineBreakOpportunities(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	for i, c := range text {
		if c == ' ' || c == '\t' {
			bits[i+1] = true
		}
	}
	return bits
}

func (fakeUnicodeData) WordBoundaries(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	bits[0] = true
	prevSpace := true
	for i, c := range text {
		isSpace := c == ' ' || c == '\t'
		if isSpace != prevSpace {
			bits[i] = true
		}
		prevSpace = isSpace
	}
	bits[len(text)] = true
	return bits
}

func (fakeUnicodeData) GraphemeBoundaries(text []byte) []bool {
	bits := make([]bool, len(text)+1)
	for i := range bits {
		bits[i] = true
	}
	return bits
}

func (fakeUnicodeData) IsEmojiPresentation(rune) bool { return false }

func (fakeUnicodeData) BidiClassOf(cp rune) BidiClass {
	switch {
	case unicode.Is(unicode.Arabic, cp), unicode.Is(unicode.Hebrew, cp):
		return BidiStrongAL
	case unicode.IsLetter(cp) || unicode.IsDigit(cp):
		return BidiStrongLTR
	default:
		return BidiNeutral
	}
}
