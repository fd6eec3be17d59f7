package richlayout

import (
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestShapeTextItemProducesOneClusterPerRune(t *testing.T) {
	lt := buildLayout(t, "hi")
	if len(lt.AllClusters()) != 2 {
		t.Fatalf("want 2 clusters, got %d", len(lt.AllClusters()))
	}
	if len(lt.AllGlyphs()) != 2 {
		t.Fatalf("want 2 glyphs, got %d", len(lt.AllGlyphs()))
	}
}

func TestAppendMandatoryBreakRunUsesRealFontMetrics(t *testing.T) {
	lt := buildLayout(t, "a\nb")
	var breakRun *Run
	for i, r := range lt.AllRuns() {
		if r.Range.Len() == 1 && lt.Text()[r.Range.Start] == '\n' {
			breakRun = &lt.AllRuns()[i]
		}
	}
	if breakRun == nil {
		t.Fatal("no run found for the mandatory break")
	}
	if breakRun.Ascent == 0 && breakRun.Descent == 0 {
		t.Error("mandatory-break run should carry real font metrics, not zero")
	}
}

func TestLineMetricsForAbsolute(t *testing.T) {
	style := DefaultResolvedStyle()
	style.LineHeight = LineHeight{Kind: LineHeightAbsolute, Value: fixed.I(20)}
	m := lineMetricsFor(style, FontMetrics{Ascent: fixed.I(8), Descent: fixed.I(2), Leading: fixed.I(1)})
	if m.Ascent+m.Descent != fixed.I(20) {
		t.Errorf("absolute line height should total %v, got %v", fixed.I(20), m.Ascent+m.Descent)
	}
}

func TestLineMetricsForFontSizeRelative(t *testing.T) {
	style := DefaultResolvedStyle()
	style.FontSize = fixed.I(10)
	style.LineHeight = LineHeight{Kind: LineHeightFontSizeRelative, Value: fixed.I(2)}
	m := lineMetricsFor(style, FontMetrics{Ascent: fixed.I(8), Descent: fixed.I(2)})
	if m.Ascent+m.Descent != fixed.I(20) {
		t.Errorf("2x a 10px font should total 20px line height, got %v", m.Ascent+m.Descent)
	}
}

func TestLineMetricsForMetricsRelativeIsIdentityAtOne(t *testing.T) {
	style := DefaultResolvedStyle()
	style.LineHeight = LineHeight{Kind: LineHeightMetricsRelative, Value: fixed.I(1)}
	in := FontMetrics{Ascent: fixed.I(9), Descent: fixed.I(3), Leading: fixed.I(2)}
	m := lineMetricsFor(style, in)
	if m != in {
		t.Errorf("1x metrics-relative should be identity, got %+v want %+v", m, in)
	}
}

func TestApplySpacingInflatesLetterAndWordSpacing(t *testing.T) {
	lt := buildLayout(t, "ab cd")
	b2 := NewBuilder("ab cd", DefaultResolvedStyle(), 1, RangeReject, fakeFonts{}, fakeShaper{}, fakeUnicodeData{})
	letterSp := fixed.I(2)
	wordSp := fixed.I(5)
	b2.PushDefault(PartialStyle{LetterSpacing: &letterSp, WordSpacing: &wordSp})
	spaced, err := b2.Build()
	if err != nil {
		t.Fatal(err)
	}
	plainAdvance := clusterAdvanceSum(lt)
	spacedAdvance := clusterAdvanceSum(spaced)
	if spacedAdvance <= plainAdvance {
		t.Errorf("spacing should increase total advance: plain=%v spaced=%v", plainAdvance, spacedAdvance)
	}
}

func clusterAdvanceSum(lt *Layout) fixed.Int26_6 {
	var sum fixed.Int26_6
	for _, c := range lt.AllClusters() {
		sum += c.Advance
	}
	return sum
}
