// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/image/math/fixed"
)

// RangePolicy fixes, per Builder, how an invalid span or inline-box offset
// is handled (spec §7): either rejected with a RangeError, or clamped to
// the nearest codepoint boundary. The policy is chosen once at
// construction, never per call.
type RangePolicy uint8

const (
	RangeReject RangePolicy = iota
	RangeClamp
)

// RangeError reports that a span or inline-box offset was not on a
// codepoint boundary, or was out of bounds (spec §7).
type RangeError struct {
	Offset int
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("richlayout: invalid range at byte %d: %s", e.Offset, e.Reason)
}

// Builder accumulates spans and default styles; Build consumes it and
// produces a Layout (spec §3 "Ownership & lifecycle", §6).
type Builder struct {
	text      []byte
	base      ResolvedStyle
	spans     []Span
	seq       int
	boxes     []InlineBox
	scale     float32
	policy    RangePolicy
	truncator string

	fonts  FontProvider
	shaper Shaper
	udata  UnicodeData

	err error
}

// NewBuilder starts a Layout build for text under base, scaled by
// displayScale (spec §6 "new(text, base_style, display_scale)"). The
// FontProvider, Shaper, and UnicodeData capabilities are supplied here
// and used when Build runs; Push, PushDefault, and PushInlineBox only
// record spans, styles, and boxes.
func NewBuilder(text string, base ResolvedStyle, displayScale float32, policy RangePolicy, fonts FontProvider, shaper Shaper, udata UnicodeData) *Builder {
	return &Builder{
		text:   []byte(text),
		base:   base,
		scale:  displayScale,
		policy: policy,
		fonts:  fonts,
		shaper: shaper,
		udata:  udata,
	}
}

// PushDefault merges a property into the builder's base style, applying
// to the whole text unless overridden by a more specific Push (spec §6
// "push_default(property)").
func (b *Builder) PushDefault(p PartialStyle) {
	b.base = Merge(b.base, p)
}

// Push applies a partial style to [r.Start, r.End) (spec §6
// "push(property, range)"). The range must lie on codepoint boundaries
// and within the text; violations are handled per the Builder's fixed
// RangePolicy.
func (b *Builder) Push(p PartialStyle, r ByteRange) error {
	fixed, err := b.fixRange(r)
	if err != nil {
		return err
	}
	b.spans = append(b.spans, Span{Range: fixed, Style: p, order: b.seq})
	b.seq++
	return nil
}

// SetTruncator configures the text substituted for content a MaxLines cap
// cuts off (spec §4.6 "truncation"), grounded on gioui-gio/text/shaper.go's
// Parameters.Truncator. It is shaped once, with the builder's base style,
// when Build runs — BreakLines itself never touches the Shaper, so the
// truncator must be prepared up front. The empty string (the default)
// disables truncation support entirely: a MaxLines cap still cuts lines
// off, but no truncator run is appended.
func (b *Builder) SetTruncator(s string) {
	b.truncator = s
}

// PushInlineBox registers an opaque box anchored at offset (spec §6
// "push_inline_box(offset, w, h, baseline)").
func (b *Builder) PushInlineBox(offset int, w, h, baseline fixed.Int26_6) error {
	off, err := b.fixOffset(offset)
	if err != nil {
		return err
	}
	b.boxes = append(b.boxes, InlineBox{ByteOffset: off, Width: w, Height: h, BaselineOffset: baseline})
	return nil
}

func (b *Builder) fixRange(r ByteRange) (ByteRange, error) {
	start, err := b.fixOffset(r.Start)
	if err != nil {
		return r, err
	}
	end, err := b.fixOffset(r.End)
	if err != nil {
		return r, err
	}
	if start > end {
		start, end = end, start
	}
	return ByteRange{start, end}, nil
}

func (b *Builder) fixOffset(offset int) (int, error) {
	if offset >= 0 && offset <= len(b.text) && (offset == len(b.text) || utf8.RuneStart(b.text[offset])) {
		return offset, nil
	}
	switch b.policy {
	case RangeClamp:
		return clampToBoundary(b.text, offset), nil
	default:
		return offset, &RangeError{Offset: offset, Reason: "not a codepoint boundary or out of bounds"}
	}
}

func clampToBoundary(text []byte, offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(text) {
		return len(text)
	}
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}

// Build resolves styles, analyzes bidi, itemizes, and shapes the
// accumulated spans and boxes into an immutable Layout. A Builder is
// consumed by Build (spec §3).
func (b *Builder) Build() (*Layout, error) {
	n := len(b.text)
	styles := ResolveStyles(b.base, b.spans, n)
	if len(styles) == 0 {
		styles = []ResolvedStyleRun{{Range: ByteRange{0, n}, Style: b.base}}
	}

	bi, err := AnalyzeBidi(b.text, DirectionAuto)
	if err != nil {
		return nil, err
	}

	lt := &Layout{text: b.text, styles: styles, bidi: bi, boxes: b.boxes, scale: b.scale}

	items := Itemize(b.text, styles, bi, b.boxes, b.udata, b.fonts)
	driver := &shapeDriver{lt: lt, shaper: b.shaper, udata: b.udata, fonts: b.fonts}
	if err := driver.shapeItems(items); err != nil {
		return nil, err
	}
	if b.truncator != "" {
		driver.shapeTruncator(b.truncator, b.base)
	}
	return lt, nil
}
