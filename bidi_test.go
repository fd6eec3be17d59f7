package richlayout

import "testing"

func TestAnalyzeBidiAllLTR(t *testing.T) {
	info, err := AnalyzeBidi([]byte("hello world"), DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	if info.BaseLevel != LevelLTR {
		t.Fatalf("want LTR base level, got %v", info.BaseLevel)
	}
	for b := 0; b < 11; b++ {
		if lvl := info.LevelAt(b); lvl != LevelLTR {
			t.Errorf("LevelAt(%d) = %v, want LevelLTR", b, lvl)
		}
	}
}

func TestAnalyzeBidiForcedRTLBase(t *testing.T) {
	info, err := AnalyzeBidi([]byte("abc"), DirectionForceRTL)
	if err != nil {
		t.Fatal(err)
	}
	if info.BaseLevel != LevelRTL {
		t.Fatalf("want forced RTL base level, got %v", info.BaseLevel)
	}
}

func TestAnalyzeBidiEmptyText(t *testing.T) {
	info, err := AnalyzeBidi(nil, DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	if info.BaseLevel != LevelLTR || len(info.Runs) != 0 {
		t.Fatalf("want empty-text default, got %+v", info)
	}
}

func TestAnalyzeBidiMixedDirectionRunsOpposeBaseLevel(t *testing.T) {
	// Hebrew word embedded in an LTR sentence.
	info, err := AnalyzeBidi([]byte("left אבג right"), DirectionAuto)
	if err != nil {
		t.Fatal(err)
	}
	if info.BaseLevel != LevelLTR {
		t.Fatalf("want LTR base level, got %v", info.BaseLevel)
	}
	foundOdd := false
	for _, r := range info.Runs {
		if r.Level == info.BaseLevel^1 {
			foundOdd = true
		}
	}
	if !foundOdd {
		t.Errorf("want at least one run at base^1 for the embedded Hebrew span, got %+v", info.Runs)
	}
}
