package richlayout

import (
	"testing"

	"golang.org/x/image/math/fixed"
)

func itemizeSimple(t *testing.T, text string) []Item {
	t.Helper()
	styles := []ResolvedStyleRun{{Range: ByteRange{0, len(text)}, Style: DefaultResolvedStyle()}}
	bi, err := AnalyzeBidi([]byte(text), DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	return Itemize([]byte(text), styles, bi, nil, fakeUnicodeData{}, fakeFonts{})
}

func TestItemizeSingleUniformRunIsOneItem(t *testing.T) {
	items := itemizeSimple(t, "hello")
	if len(items) != 1 || items[0].Kind != ItemText {
		t.Fatalf("want 1 ItemText, got %+v", items)
	}
	if items[0].Range != (ByteRange{0, 5}) {
		t.Errorf("range = %+v, want [0,5)", items[0].Range)
	}
}

func TestItemizeSplitsOnExplicitBreak(t *testing.T) {
	items := itemizeSimple(t, "ab\ncd")
	if len(items) != 3 {
		t.Fatalf("want 3 items (text, break, text), got %d: %+v", len(items), items)
	}
	if items[0].Kind != ItemText || items[0].Range != (ByteRange{0, 2}) {
		t.Errorf("first item wrong: %+v", items[0])
	}
	if items[1].Kind != ItemMandatoryBreak || items[1].Range != (ByteRange{2, 3}) {
		t.Errorf("break item wrong: %+v", items[1])
	}
	if items[2].Kind != ItemText || items[2].Range != (ByteRange{3, 5}) {
		t.Errorf("third item wrong: %+v", items[2])
	}
}

func TestItemizeSplitsOnCRLF(t *testing.T) {
	items := itemizeSimple(t, "a\r\nb")
	if len(items) != 3 || items[1].Range != (ByteRange{1, 3}) {
		t.Fatalf("want CRLF consumed as one 2-byte break item, got %+v", items)
	}
}

func TestItemizeSplitsOnStyleBoundary(t *testing.T) {
	text := "abcdef"
	bold := WeightBold
	base := DefaultResolvedStyle()
	styles := ResolveStyles(base, NewSpans(Span{Range: ByteRange{3, 6}, Style: PartialStyle{FontWeight: &bold}}), len(text))
	bi, err := AnalyzeBidi([]byte(text), DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	items := Itemize([]byte(text), styles, bi, nil, fakeUnicodeData{}, fakeFonts{})
	if len(items) != 2 {
		t.Fatalf("want 2 items split at the style boundary, got %d: %+v", len(items), items)
	}
	if items[0].Range != (ByteRange{0, 3}) || items[1].Range != (ByteRange{3, 6}) {
		t.Errorf("items split at wrong boundary: %+v", items)
	}
}

func TestItemizeSplitsOnInlineBox(t *testing.T) {
	text := "abcd"
	styles := []ResolvedStyleRun{{Range: ByteRange{0, len(text)}, Style: DefaultResolvedStyle()}}
	bi, err := AnalyzeBidi([]byte(text), DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	boxes := []InlineBox{{ByteOffset: 2}}
	items := Itemize([]byte(text), styles, bi, boxes, fakeUnicodeData{}, fakeFonts{})
	if len(items) != 3 {
		t.Fatalf("want text/box/text, got %d: %+v", len(items), items)
	}
	if items[1].Kind != ItemInlineBox || items[1].BoxIndex != 0 {
		t.Errorf("box item wrong: %+v", items[1])
	}
}

func TestSelectFontForClusterFallsBackToMissingGlyph(t *testing.T) {
	noCoverage := uncoveredFonts{}
	fi := selectFontForCluster(DefaultResolvedStyle(), []byte("x"), 1, fakeUnicodeData{}, noCoverage)
	if !fi.IsZero() {
		t.Errorf("want zero FontInstance when nothing covers the cluster, got %+v", fi)
	}
}

// uncoveredFonts reports no coverage for any rune, forcing the
// missing-glyph fallback path.
type uncoveredFonts struct{}

func (uncoveredFonts) SelectFamily(FontStack, FontWeight, FontWidth, FontStyle) FontInstance {
	return FontInstance{Handle: 1}
}
func (uncoveredFonts) Coverage(FontInstance, rune) bool            { return false }
func (uncoveredFonts) FallbackChain(Script, string) []FontInstance { return nil }
func (uncoveredFonts) Metrics(FontInstance, fixed.Int26_6, []VariationValue) FontMetrics {
	return FontMetrics{}
}
