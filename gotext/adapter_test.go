package gotext

import (
	"testing"

	meta "github.com/go-text/typesetting/opentype/api/metadata"

	"github.com/textkit/richlayout"
)

func TestToAspectMapsItalicAndOblique(t *testing.T) {
	for _, style := range []richlayout.FontStyle{richlayout.StyleItalic, richlayout.StyleOblique} {
		a := toAspect(richlayout.WeightNormal, richlayout.WidthNormal, style)
		if a.Style != meta.StyleItalic {
			t.Errorf("style %v should map to meta.StyleItalic, got %v", style, a.Style)
		}
	}
	a := toAspect(richlayout.WeightNormal, richlayout.WidthNormal, richlayout.StyleNormal)
	if a.Style != meta.StyleNormal {
		t.Errorf("StyleNormal should map to meta.StyleNormal, got %v", a.Style)
	}
}

func TestToAspectMapsWeightDirectly(t *testing.T) {
	a := toAspect(richlayout.WeightBold, richlayout.WidthNormal, richlayout.StyleNormal)
	if float32(a.Weight) != float32(richlayout.WeightBold) {
		t.Errorf("weight not carried through: got %v want %v", a.Weight, richlayout.WeightBold)
	}
}

func TestToAspectMapsStretchBuckets(t *testing.T) {
	cases := []struct {
		width richlayout.FontWidth
		want  meta.Stretch
	}{
		{richlayout.WidthUltraCondensed, meta.StretchUltraCondensed},
		{richlayout.WidthNormal, meta.StretchNormal},
		{richlayout.WidthUltraExpanded, meta.StretchUltraExpanded},
	}
	for _, c := range cases {
		a := toAspect(richlayout.WeightNormal, c.width, richlayout.StyleNormal)
		if a.Stretch != c.want {
			t.Errorf("width %v: got stretch %v, want %v", c.width, a.Stretch, c.want)
		}
	}
}

func TestIsAllSpace(t *testing.T) {
	if !isAllSpace([]byte("   \t")) {
		t.Error("want true for spaces and tabs only")
	}
	if isAllSpace([]byte("a b")) {
		t.Error("want false when non-space bytes are present")
	}
	if isAllSpace(nil) {
		t.Error("want false for empty input")
	}
}

func TestUtf8RuneLen(t *testing.T) {
	cases := map[rune]int{'a': 1, 'é': 2, '世': 3, '\U0001F600': 4}
	for r, want := range cases {
		if got := utf8RuneLen(r); got != want {
			t.Errorf("utf8RuneLen(%q) = %d, want %d", r, got, want)
		}
	}
}
