package richlayout

import (
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestMergeLeavesUnsetFieldsUntouched(t *testing.T) {
	base := DefaultResolvedStyle()
	size := fixed.I(24)
	merged := Merge(base, PartialStyle{FontSize: &size})
	if merged.FontSize != size {
		t.Errorf("FontSize not applied: %v", merged.FontSize)
	}
	if merged.FontWeight != base.FontWeight {
		t.Errorf("unset FontWeight should be untouched, got %v want %v", merged.FontWeight, base.FontWeight)
	}
}

func TestEqualComparesFontStackElementwise(t *testing.T) {
	a := DefaultResolvedStyle()
	b := DefaultResolvedStyle()
	b.FontStack = FontStack{"sans-serif"}
	if !a.Equal(b) {
		t.Error("want equal styles with identical single-element stacks")
	}
	b.FontStack = FontStack{"serif"}
	if a.Equal(b) {
		t.Error("want unequal styles with differing stacks")
	}
}

func TestEqualComparesVariationsAndFeatures(t *testing.T) {
	a := DefaultResolvedStyle()
	b := DefaultResolvedStyle()
	a.Variations = []VariationValue{{Tag: VariationTag{'w', 'g', 'h', 't'}, Value: 700}}
	if a.Equal(b) {
		t.Error("want unequal when one side carries a variation the other doesn't")
	}
	b.Variations = []VariationValue{{Tag: VariationTag{'w', 'g', 'h', 't'}, Value: 700}}
	if !a.Equal(b) {
		t.Error("want equal once variations match")
	}
}

func TestDefaultResolvedStyleDefaults(t *testing.T) {
	d := DefaultResolvedStyle()
	if d.FontWeight != WeightNormal || d.FontStyle != StyleNormal || d.TextWrap != TextWrapWrap {
		t.Errorf("unexpected defaults: %+v", d)
	}
}
