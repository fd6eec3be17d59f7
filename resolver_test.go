package richlayout

import "testing"

func TestResolveStylesLastWriterWins(t *testing.T) {
	base := DefaultResolvedStyle()
	bold := FontWeight(700)
	italic := StyleItalic
	spans := NewSpans(
		Span{Range: ByteRange{0, 10}, Style: PartialStyle{FontWeight: &bold}},
		Span{Range: ByteRange{4, 10}, Style: PartialStyle{FontStyle: &italic}},
	)
	runs := ResolveStyles(base, spans, 10)
	if len(runs) != 2 {
		t.Fatalf("want 2 disjoint runs, got %d: %+v", len(runs), runs)
	}
	if runs[0].Range != (ByteRange{0, 4}) || runs[0].Style.FontStyle != StyleNormal {
		t.Errorf("first run wrong: %+v", runs[0])
	}
	if runs[1].Range != (ByteRange{4, 10}) || runs[1].Style.FontWeight != 700 || runs[1].Style.FontStyle != StyleItalic {
		t.Errorf("second run wrong: %+v", runs[1])
	}
}

func TestResolveStylesCoalescesIdenticalAdjacent(t *testing.T) {
	base := DefaultResolvedStyle()
	bold := FontWeight(700)
	spans := NewSpans(
		Span{Range: ByteRange{0, 5}, Style: PartialStyle{FontWeight: &bold}},
		Span{Range: ByteRange{5, 10}, Style: PartialStyle{FontWeight: &bold}},
	)
	runs := ResolveStyles(base, spans, 10)
	if len(runs) != 1 {
		t.Fatalf("want coalesced single run, got %d: %+v", len(runs), runs)
	}
	if runs[0].Range != (ByteRange{0, 10}) {
		t.Errorf("coalesced range wrong: %+v", runs[0].Range)
	}
}

func TestResolveStylesEmptyText(t *testing.T) {
	if runs := ResolveStyles(DefaultResolvedStyle(), nil, 0); runs != nil {
		t.Errorf("want nil runs for empty text, got %+v", runs)
	}
}

func TestResolveStylesLaterPushWinsOnEqualRange(t *testing.T) {
	base := DefaultResolvedStyle()
	w1, w2 := FontWeight(400), FontWeight(900)
	spans := NewSpans(
		Span{Range: ByteRange{0, 5}, Style: PartialStyle{FontWeight: &w1}},
		Span{Range: ByteRange{0, 5}, Style: PartialStyle{FontWeight: &w2}},
	)
	runs := ResolveStyles(base, spans, 5)
	if len(runs) != 1 || runs[0].Style.FontWeight != 900 {
		t.Fatalf("want last-writer-wins weight 900, got %+v", runs)
	}
}

func TestStyleTreeBuilderMatchesRangedEquivalent(t *testing.T) {
	bold := FontWeight(700)
	italic := StyleItalic

	tb := NewStyleTreeBuilder()
	h1 := tb.Push(0, PartialStyle{FontWeight: &bold})
	h2 := tb.Push(4, PartialStyle{FontStyle: &italic})
	tb.Pop(h2, 10)
	tb.Pop(h1, 10)
	treeRuns := ResolveStyles(DefaultResolvedStyle(), tb.Flatten(10), 10)

	rangedRuns := ResolveStyles(DefaultResolvedStyle(), NewSpans(
		Span{Range: ByteRange{0, 10}, Style: PartialStyle{FontWeight: &bold}},
		Span{Range: ByteRange{4, 10}, Style: PartialStyle{FontStyle: &italic}},
	), 10)

	if len(treeRuns) != len(rangedRuns) {
		t.Fatalf("tree vs ranged run count mismatch: %d vs %d", len(treeRuns), len(rangedRuns))
	}
	for i := range treeRuns {
		if treeRuns[i].Range != rangedRuns[i].Range || !treeRuns[i].Style.Equal(rangedRuns[i].Style) {
			t.Errorf("run %d differs: tree=%+v ranged=%+v", i, treeRuns[i], rangedRuns[i])
		}
	}
}

func TestStyleTreeBuilderClosesUnpoppedSpansAtFlatten(t *testing.T) {
	bold := FontWeight(700)
	tb := NewStyleTreeBuilder()
	tb.Push(2, PartialStyle{FontWeight: &bold})
	spans := tb.Flatten(8)
	if len(spans) != 1 || spans[0].Range != (ByteRange{2, 8}) {
		t.Fatalf("want span closed at textLen, got %+v", spans)
	}
}
