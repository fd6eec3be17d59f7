// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "golang.org/x/text/unicode/bidi"

// BidiLevel mirrors UAX #9 embedding levels: even values are LTR, odd
// values are RTL (spec §3, §4.3). golang.org/x/text/unicode/bidi resolves
// full UAX #9 internally (neutrals, bracket pairs, isolates) but only
// surfaces a dominant Direction per visual run rather than raw per-rune
// embedding depth, so — exactly as gioui-gio/text/gotext.go's splitBidi
// does — this analyzer tracks a two-tier level: the paragraph base level,
// and base+1 for runs whose resolved direction opposes it. This is
// sufficient to satisfy the level-run-stable reordering invariant (spec
// §8 invariant 10) and the RTL-mixing scenario (spec §8 S3), though it
// does not reconstruct nested isolate depth beyond one tier; see
// DESIGN.md Open Questions.
type BidiLevel uint8

const (
	LevelLTR BidiLevel = 0
	LevelRTL BidiLevel = 1
)

type ParagraphDirection uint8

const (
	// DirectionAuto derives the base level from the first strong
	// character, per UAX #9 rule P2/P3.
	DirectionAuto ParagraphDirection = iota
	DirectionForceLTR
	DirectionForceRTL
)

// BidiRun is one maximal run of codepoints sharing a bidi level.
type BidiRun struct {
	Range ByteRange
	Level BidiLevel
}

// BidiInfo is the result of analyzing one paragraph of text (spec §4.3).
type BidiInfo struct {
	BaseLevel BidiLevel
	Runs      []BidiRun
}

// LevelAt returns the bidi level covering byte offset b.
func (bi BidiInfo) LevelAt(b int) BidiLevel {
	for _, r := range bi.Runs {
		if b >= r.Range.Start && b < r.Range.End {
			return r.Level
		}
	}
	return bi.BaseLevel
}

// AnalyzeBidi implements UAX #9 at the level sufficient for paragraph
// layout (spec §4.3), delegating the heavy lifting — neutral resolution,
// bracket pairs, isolates — to golang.org/x/text/unicode/bidi, exactly as
// the teacher's splitBidi does.
func AnalyzeBidi(text []byte, dir ParagraphDirection) (BidiInfo, error) {
	if len(text) == 0 {
		return BidiInfo{BaseLevel: directionToLevel(dir, LevelLTR)}, nil
	}
	var p bidi.Paragraph
	opt := bidi.DefaultDirection(forcedDirection(dir))
	if err := p.SetBytes(text, opt); err != nil {
		return BidiInfo{}, err
	}
	ordering, err := p.Order()
	if err != nil {
		return BidiInfo{}, err
	}
	baseLevel := LevelLTR
	if dir == DirectionForceRTL {
		baseLevel = LevelRTL
	} else if dir == DirectionAuto && ordering.Direction() == bidi.RightToLeft {
		baseLevel = LevelRTL
	}
	info := BidiInfo{BaseLevel: baseLevel}
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		start, end := run.Pos()
		level := baseLevel
		if runDirLevel(run.Direction()) != baseLevel {
			level = baseLevel + 1
		}
		info.Runs = append(info.Runs, BidiRun{Range: ByteRange{Start: start, End: end}, Level: level})
	}
	return info, nil
}

func forcedDirection(dir ParagraphDirection) bidi.Direction {
	switch dir {
	case DirectionForceRTL:
		return bidi.RightToLeft
	default:
		return bidi.LeftToRight
	}
}

func directionToLevel(dir ParagraphDirection, fallback BidiLevel) BidiLevel {
	switch dir {
	case DirectionForceRTL:
		return LevelRTL
	case DirectionForceLTR:
		return LevelLTR
	default:
		return fallback
	}
}

func runDirLevel(d bidi.Direction) BidiLevel {
	if d == bidi.RightToLeft {
		return LevelRTL
	}
	return LevelLTR
}
