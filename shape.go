// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import (
	"golang.org/x/exp/slices"
	"golang.org/x/image/math/fixed"
)

// BuildOptions carries the tunables a Builder needs beyond the spans
// themselves: the pixel scale to apply to font sizes (spec §6
// "new(text, base_style, display_scale)").
type BuildOptions struct {
	DisplayScale float32
}

// shapeDriver drives the Shaper capability over itemized runs,
// materializing clusters and glyphs into a Layout (spec §4.5 "Shaper
// Driver"). It is invoked by Builder.Build and is not part of the public
// API surface.
type shapeDriver struct {
	lt     *Layout
	shaper Shaper
	udata  UnicodeData
	fonts  FontProvider
}

func (d *shapeDriver) shapeItems(items []Item) error {
	text := d.lt.text
	lineBreaks := d.udata.LineBreakOpportunities(text)
	for _, it := range items {
		switch it.Kind {
		case ItemInlineBox:
			d.appendInlineBoxRun(it)
		case ItemMandatoryBreak:
			d.appendMandatoryBreakRun(it, lineBreaks)
		case ItemText:
			if err := d.shapeTextItem(it, lineBreaks); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *shapeDriver) appendInlineBoxRun(it Item) {
	box := d.lt.boxes[it.BoxIndex]
	clusterIdx := len(d.lt.clusters)
	d.lt.clusters = append(d.lt.clusters, Cluster{
		Range:      it.Range,
		Advance:    box.Width,
		StyleIndex: it.StyleIndex,
		InlineBox:  it.BoxIndex,
	})
	d.lt.runs = append(d.lt.runs, Run{
		Range:      it.Range,
		Clusters:   IndexRange{clusterIdx, 1},
		StyleIndex: it.StyleIndex,
		Ascent:     box.BaselineOffset,
		Descent:    box.Height - box.BaselineOffset,
	})
}

func (d *shapeDriver) appendMandatoryBreakRun(it Item, lineBreaks []bool) {
	clusterIdx := len(d.lt.clusters)
	d.lt.clusters = append(d.lt.clusters, Cluster{
		Range:      it.Range,
		Mandatory:  true,
		Newline:    true,
		Whitespace: true,
		InlineBox:  -1,
	})
	style := StyleAt(d.lt.styles, it.Range.Start)
	size := fixed.Int26_6(float32(style.FontSize) * d.lt.scale)
	fi := d.fonts.SelectFamily(style.FontStack, style.FontWeight, style.FontWidth, style.FontStyle)
	metrics := lineMetricsFor(style, d.fonts.Metrics(fi, size, style.Variations))
	d.lt.runs = append(d.lt.runs, Run{
		Range:      it.Range,
		Clusters:   IndexRange{clusterIdx, 1},
		StyleIndex: resolvedStyleIndexAt(d.lt.styles, it.Range.Start),
		Ascent:     metrics.Ascent,
		Descent:    metrics.Descent,
		LineGap:    metrics.Leading,
	})
}

func (d *shapeDriver) shapeTextItem(it Item, lineBreaks []bool) error {
	style := StyleAt(d.lt.styles, it.Range.Start)
	size := fixed.Int26_6(float32(style.FontSize) * d.lt.scale)

	missing := it.Font.IsZero()

	var result ShapeResult
	if !missing {
		req := ShapeRequest{
			Font:     it.Font,
			Size:     size,
			Coords:   style.Variations,
			Features: style.Features,
			Script:   it.Script,
			Level:    it.Level,
			Text:     d.lt.text[it.Range.Start:it.Range.End],
			Locale:   it.Locale,
		}
		var err error
		result, err = d.shaper.Shape(req)
		if err != nil {
			// Spec §7: shaper failure is treated as missing-glyph for the
			// offending cluster, never fatal.
			missing = true
		}
	}

	clusterStart := len(d.lt.clusters)
	if missing || len(result.Clusters) == 0 {
		d.appendMissingGlyphClusters(it, size)
	} else {
		d.appendShapedClusters(it, result, lineBreaks)
	}
	clusterCount := len(d.lt.clusters) - clusterStart

	metrics := lineMetricsFor(style, d.fonts.Metrics(it.Font, size, style.Variations))
	run := Run{
		Range:      it.Range,
		Clusters:   IndexRange{clusterStart, clusterCount},
		Font:       it.Font,
		Size:       size,
		Script:     it.Script,
		Level:      it.Level,
		Locale:     it.Locale,
		Variations: style.Variations,
		StyleIndex: it.StyleIndex,
	}
	run.Ascent, run.Descent, run.LineGap = metrics.Ascent, metrics.Descent, metrics.Leading
	d.lt.runs = append(d.lt.runs, run)
	return nil
}

// appendMissingGlyphClusters handles spec §7's "font totally missing" /
// shaper-failure case: emit one cluster per grapheme with a .notdef glyph
// id and the missing-glyph bit set, rather than failing layout.
func (d *shapeDriver) appendMissingGlyphClusters(it Item, size fixed.Int26_6) {
	text := d.lt.text[it.Range.Start:it.Range.End]
	graphemes := d.udata.GraphemeBoundaries(d.lt.text)
	offset := it.Range.Start
	for len(text) > 0 {
		end := nextGraphemeBoundary(graphemes, offset, it.Range.End) - offset
		if end <= 0 || end > len(text) {
			end = len(text)
		}
		glyphIdx := len(d.lt.glyphs)
		advance := size / 2
		d.lt.glyphs = append(d.lt.glyphs, Glyph{GlyphID: 0, Advance: advance})
		cr := ByteRange{offset, offset + end}
		d.lt.clusters = append(d.lt.clusters, Cluster{
			Range:        cr,
			Glyphs:       IndexRange{glyphIdx, 1},
			Advance:      advance,
			Whitespace:   isAllWhitespace(text[:end]),
			StyleIndex:   it.StyleIndex,
			MissingGlyph: true,
			InlineBox:    -1,
		})
		text = text[end:]
		offset = cr.End
	}
}

func (d *shapeDriver) appendShapedClusters(it Item, result ShapeResult, lineBreaks []bool) {
	base := it.Range.Start
	// Grow the glyph scratch slice once for the whole run rather than
	// letting append() reallocate repeatedly, mirroring gotext.go's
	// outScratchBuf growth before a shaping pass.
	d.lt.glyphs = slices.Grow(d.lt.glyphs, len(result.Glyphs))
	for _, sc := range result.Clusters {
		glyphIdx := len(d.lt.glyphs)
		var advance fixed.Int26_6
		for _, g := range result.Glyphs {
			if g.ClusterByte != sc.ByteOffset {
				continue
			}
			d.lt.glyphs = append(d.lt.glyphs, Glyph{
				GlyphID: g.GlyphID,
				XOffset: g.XOffset,
				YOffset: g.YOffset,
				Advance: g.XAdvance,
			})
			advance += g.XAdvance
		}
		cr := ByteRange{base + sc.ByteOffset, base + sc.ByteOffset + sc.ByteLen}
		lineBreak := false
		if cr.End < len(lineBreaks) {
			lineBreak = lineBreaks[cr.End]
		}
		d.lt.clusters = append(d.lt.clusters, Cluster{
			Range:      cr,
			Glyphs:     IndexRange{glyphIdx, len(d.lt.glyphs) - glyphIdx},
			Advance:    advance,
			LineBreak:  lineBreak,
			Whitespace: sc.Whitespace,
			Newline:    sc.Newline,
			Emoji:      sc.Emoji,
			StyleIndex: it.StyleIndex,
			InlineBox:  -1,
		})
	}
	d.applySpacing(it, itRange(it))
}

func itRange(it Item) ByteRange { return it.Range }

// applySpacing implements spec §4.5's letter-spacing and word-spacing
// post-shaping adjustment: inflate every cluster boundary's advance
// except the last cluster of each word (letter-spacing), and inflate the
// advance of single-U+0020 clusters (word-spacing).
func (d *shapeDriver) applySpacing(it Item, r ByteRange) {
	style := StyleAt(d.lt.styles, it.Range.Start)
	if style.LetterSpacing == 0 && style.WordSpacing == 0 {
		return
	}
	clusters := d.lt.clusters
	n := len(clusters)
	for i := n - 1; i >= 0 && clusters[i].Range.Start >= r.Start; i-- {
		c := &clusters[i]
		isLastOfWord := i == n-1 || clusters[i+1].Whitespace
		if style.LetterSpacing != 0 && !c.Whitespace && !isLastOfWord {
			c.Advance += style.LetterSpacing
		}
		if style.WordSpacing != 0 && c.Range.Len() == 1 && d.lt.text[c.Range.Start] == ' ' {
			c.Advance += style.WordSpacing
		}
	}
}

// shapeTruncator pre-shapes the text a MaxLines cap substitutes for
// clipped content (spec §4.6 "truncation"), once, at build time, using
// base's font. This is the one place the redesigned Line Breaker needs
// Shaper access: since BreakLines runs as a separate pass over an already
// shaped Layout and must stay idempotent (spec §8 invariant 7), the
// truncator can't be shaped lazily when truncation actually happens — it
// has to already exist, grounded on gioui-gio/text/gotext.go shaping its
// Truncator exactly once per call to Shape, not once per line.
func (d *shapeDriver) shapeTruncator(text string, base ResolvedStyle) {
	size := fixed.Int26_6(float32(base.FontSize) * d.lt.scale)
	fi := d.fonts.SelectFamily(base.FontStack, base.FontWeight, base.FontWidth, base.FontStyle)
	req := ShapeRequest{
		Font:     fi,
		Size:     size,
		Coords:   base.Variations,
		Features: base.Features,
		Level:    LevelLTR,
		Text:     []byte(text),
		Locale:   base.Locale,
	}
	result, err := d.shaper.Shape(req)
	if err != nil || len(result.Clusters) == 0 {
		return
	}

	var glyphs []Glyph
	var clusters []Cluster
	var width fixed.Int26_6
	for _, sc := range result.Clusters {
		glyphIdx := len(glyphs)
		var advance fixed.Int26_6
		for _, g := range result.Glyphs {
			if g.ClusterByte != sc.ByteOffset {
				continue
			}
			glyphs = append(glyphs, Glyph{GlyphID: g.GlyphID, XOffset: g.XOffset, YOffset: g.YOffset, Advance: g.XAdvance})
			advance += g.XAdvance
		}
		clusters = append(clusters, Cluster{
			Range:     ByteRange{sc.ByteOffset, sc.ByteOffset + sc.ByteLen},
			Glyphs:    IndexRange{glyphIdx, len(glyphs) - glyphIdx},
			Advance:   advance,
			InlineBox: -1,
		})
		width += advance
	}

	metrics := lineMetricsFor(base, d.fonts.Metrics(fi, size, base.Variations))
	d.lt.truncatorGlyphs = glyphs
	d.lt.truncatorClusters = clusters
	d.lt.truncatorWidth = width
	d.lt.truncatorRun = Run{
		Clusters:   IndexRange{0, len(clusters)},
		Font:       fi,
		Size:       size,
		Variations: base.Variations,
		StyleIndex: -1,
		Ascent:     metrics.Ascent,
		Descent:    metrics.Descent,
		LineGap:    metrics.Leading,
	}
}

func isAllWhitespace(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return len(b) > 0
}

// lineMetricsFor scales a font's ascent/descent/leading by the style's
// LineHeight per spec §4.7.
func lineMetricsFor(style ResolvedStyle, m FontMetrics) FontMetrics {
	switch style.LineHeight.Kind {
	case LineHeightAbsolute:
		total := style.LineHeight.Value
		sum := m.Ascent + m.Descent
		if sum == 0 {
			return FontMetrics{Ascent: total, Descent: 0, Leading: m.Leading}
		}
		return FontMetrics{
			Ascent:  fixed.Int26_6(int64(total) * int64(m.Ascent) / int64(sum)),
			Descent: total - fixed.Int26_6(int64(total)*int64(m.Ascent)/int64(sum)),
			Leading: m.Leading,
		}
	case LineHeightFontSizeRelative:
		total := fixed.Int26_6(int64(style.FontSize) * int64(style.LineHeight.Value) / 64)
		sum := m.Ascent + m.Descent
		if sum == 0 {
			return FontMetrics{Ascent: total, Leading: m.Leading}
		}
		return FontMetrics{
			Ascent:  fixed.Int26_6(int64(total) * int64(m.Ascent) / int64(sum)),
			Descent: total - fixed.Int26_6(int64(total)*int64(m.Ascent)/int64(sum)),
			Leading: m.Leading,
		}
	default: // LineHeightMetricsRelative
		f := int64(style.LineHeight.Value)
		return FontMetrics{
			Ascent:  fixed.Int26_6(int64(m.Ascent) * f / 64),
			Descent: fixed.Int26_6(int64(m.Descent) * f / 64),
			Leading: fixed.Int26_6(int64(m.Leading) * f / 64),
		}
	}
}
