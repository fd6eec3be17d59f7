// SPDX-License-Identifier: Unlicense OR MIT

// Package gotext provides the default FontProvider and Shaper
// implementations, backed by go-text/typesetting's font matching,
// system font scanning, and HarfBuzz shaping (grounded in
// gioui-gio/text/gotext.go's shaperImpl/faceOrderer/closestFont and
// splitByScript).
package gotext

import (
	"golang.org/x/image/math/fixed"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
	"github.com/go-text/typesetting/language"
	meta "github.com/go-text/typesetting/opentype/api/metadata"
	"github.com/go-text/typesetting/shaping"

	"github.com/textkit/richlayout"
)

// Adapter implements richlayout.FontProvider and richlayout.Shaper using a
// fontscan.FontMap for family/script matching and a
// shaping.HarfbuzzShaper for glyph shaping.
type Adapter struct {
	fm     *fontscan.FontMap
	shaper shaping.HarfbuzzShaper

	faces    []font.Face
	queries  []fontscan.Query // queries[i] is the query that resolved faces[i], for Coverage
	index    map[font.Face]richlayout.FontInstance
	byHandle map[richlayout.FontInstance]font.Face
}

// New builds an Adapter backed by the host's system fonts. cacheDir may be
// empty to let fontscan infer a platform-appropriate cache location;
// FontProvider and Shaper are external collaborators the core only
// consumes through interfaces, and this is their default implementation.
func New(cacheDir string) (*Adapter, error) {
	fm := fontscan.NewFontMap(nil)
	if err := fm.UseSystemFonts(cacheDir); err != nil {
		return nil, err
	}
	return &Adapter{
		fm:       fm,
		index:    make(map[font.Face]richlayout.FontInstance),
		byHandle: make(map[richlayout.FontInstance]font.Face),
	}, nil
}

func (a *Adapter) instanceFor(face font.Face, q fontscan.Query) richlayout.FontInstance {
	if face == nil {
		return richlayout.FontInstance{}
	}
	if fi, ok := a.index[face]; ok {
		return fi
	}
	fi := richlayout.FontInstance{Handle: uintptr(len(a.faces) + 1)}
	a.faces = append(a.faces, face)
	a.queries = append(a.queries, q)
	a.index[face] = fi
	a.byHandle[fi] = face
	return fi
}

func toAspect(weight richlayout.FontWeight, width richlayout.FontWidth, style richlayout.FontStyle) meta.Aspect {
	a := meta.Aspect{Weight: meta.Weight(weight)}
	switch style {
	case richlayout.StyleItalic, richlayout.StyleOblique:
		a.Style = meta.StyleItalic
	default:
		a.Style = meta.StyleNormal
	}
	switch {
	case width <= richlayout.WidthUltraCondensed:
		a.Stretch = meta.StretchUltraCondensed
	case width <= richlayout.WidthExtraCondensed:
		a.Stretch = meta.StretchExtraCondensed
	case width <= richlayout.WidthCondensed:
		a.Stretch = meta.StretchCondensed
	case width <= richlayout.WidthSemiCondensed:
		a.Stretch = meta.StretchSemiCondensed
	case width <= richlayout.WidthNormal:
		a.Stretch = meta.StretchNormal
	case width <= richlayout.WidthSemiExpanded:
		a.Stretch = meta.StretchSemiExpanded
	case width <= richlayout.WidthExpanded:
		a.Stretch = meta.StretchExpanded
	case width <= richlayout.WidthExtraExpanded:
		a.Stretch = meta.StretchExtraExpanded
	default:
		a.Stretch = meta.StretchUltraExpanded
	}
	return a
}

// probeRune anchors a family/aspect query to a concrete resolution;
// fontscan.FontMap.ResolveFace always takes a rune, even when the caller
// mostly cares about the family match rather than coverage of that
// particular rune.
const probeRune = 'a'

// SelectFamily implements richlayout.FontProvider.
func (a *Adapter) SelectFamily(stack richlayout.FontStack, weight richlayout.FontWeight, width richlayout.FontWidth, style richlayout.FontStyle) richlayout.FontInstance {
	families := make([]string, len(stack))
	for i, f := range stack {
		families[i] = string(f)
	}
	q := fontscan.Query{Families: families, Aspect: toAspect(weight, width, style)}
	a.fm.SetQuery(q)
	face := a.fm.ResolveFace(probeRune)
	return a.instanceFor(face, q)
}

// Coverage implements richlayout.FontProvider by re-resolving cp under the
// same query that produced fi and checking whether the top candidate is
// still fi: ResolveFace skips candidates that lack glyph coverage for the
// requested rune, so a different result means fi does not cover cp.
func (a *Adapter) Coverage(fi richlayout.FontInstance, cp rune) bool {
	face, ok := a.byHandle[fi]
	if !ok {
		return false
	}
	a.fm.SetQuery(a.queries[fi.Handle-1])
	return a.fm.ResolveFace(cp) == face
}

// FallbackChain implements richlayout.FontProvider. fontscan.Query has no
// script dimension, so this resolves a single generic-family candidate via
// a representative probe codepoint — the emoji locale convention
// established in the itemizer's per-cluster font selection, or a plain
// Latin probe otherwise — rather than a true per-script ranked chain (see
// DESIGN.md).
func (a *Adapter) FallbackChain(script richlayout.Script, locale string) []richlayout.FontInstance {
	q := fontscan.Query{Aspect: meta.Aspect{Style: meta.StyleNormal, Weight: meta.WeightNormal, Stretch: meta.StretchNormal}}
	a.fm.SetQuery(q)
	probe := rune(probeRune)
	if locale == "emoji" {
		probe = '\U0001F600'
	}
	face := a.fm.ResolveFace(probe)
	fi := a.instanceFor(face, q)
	if fi.IsZero() {
		return nil
	}
	return []richlayout.FontInstance{fi}
}

// Metrics implements richlayout.FontProvider by shaping a single space
// character at size and reading the resulting run's line bounds, exactly
// as gioui-gio/text/gotext.go's toLine derives per-run ascent/descent/gap
// from shaping.Output rather than querying a separate metrics API.
func (a *Adapter) Metrics(fi richlayout.FontInstance, size fixed.Int26_6, coords []richlayout.VariationValue) richlayout.FontMetrics {
	face, ok := a.byHandle[fi]
	if !ok {
		return richlayout.FontMetrics{}
	}
	input := shaping.Input{
		Text:     []rune{' '},
		RunStart: 0,
		RunEnd:   1,
		Face:     face,
		Size:     size,
		Script:   language.Latin,
		Language: language.NewLanguage("en"),
	}
	out := a.shaper.Shape(input)
	ascent := out.LineBounds.Ascent
	descent := -out.LineBounds.Descent
	gap := out.LineBounds.Gap
	return richlayout.FontMetrics{
		Ascent:        ascent,
		Descent:       descent,
		Leading:       gap,
		XHeight:       ascent / 2,
		CapHeight:     ascent * 7 / 10,
		UnderlineSize: size / 16,
		UnderlineOff:  -size / 10,
		StrikeSize:    size / 16,
		StrikeOff:     ascent / 3,
	}
}

func directionFor(level richlayout.BidiLevel) di.Direction {
	if level%2 == 1 {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// Shape implements richlayout.Shaper by delegating to HarfBuzz and
// translating its rune-indexed clusters into the byte-indexed form the
// core consumes. The script passed to the shaping input is looked up
// directly from the run's own text via language.LookupScript, mirroring
// gotext.go's splitByScript, rather than trying to invert the opaque
// richlayout.Script the itemizer used to decide run boundaries.
func (a *Adapter) Shape(req richlayout.ShapeRequest) (richlayout.ShapeResult, error) {
	face, ok := a.byHandle[req.Font]
	if !ok {
		return richlayout.ShapeResult{}, nil
	}
	runes := []rune(string(req.Text))
	if len(runes) == 0 {
		return richlayout.ShapeResult{}, nil
	}
	byteOffsetOf := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		byteOffsetOf[i] = b
		b += utf8RuneLen(r)
	}
	byteOffsetOf[len(runes)] = b

	script := language.LookupScript(runes[0])
	if script == language.Common {
		script = language.Latin
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Face:      face,
		Size:      req.Size,
		Script:    script,
		Language:  language.NewLanguage(req.Locale),
		Direction: directionFor(req.Level),
	}
	out := a.shaper.Shape(input)

	result := richlayout.ShapeResult{
		Glyphs: make([]richlayout.ShapedGlyph, 0, len(out.Glyphs)),
	}

	clusterStart := -1
	clusterRune := 0
	flush := func(endRune int) {
		if clusterStart < 0 {
			return
		}
		byteStart := byteOffsetOf[clusterStart]
		byteEnd := byteOffsetOf[endRune]
		result.Clusters = append(result.Clusters, richlayout.ShapedCluster{
			ByteOffset: byteStart,
			ByteLen:    byteEnd - byteStart,
			Whitespace: isAllSpace(req.Text[byteStart:byteEnd]),
		})
	}
	for _, g := range out.Glyphs {
		if clusterStart != g.ClusterIndex {
			flush(clusterRune)
			clusterStart = g.ClusterIndex
		}
		clusterRune = g.ClusterIndex + g.RuneCount
		result.Glyphs = append(result.Glyphs, richlayout.ShapedGlyph{
			GlyphID:     g.GlyphID,
			XOffset:     g.XOffset,
			YOffset:     g.YOffset,
			XAdvance:    g.XAdvance,
			ClusterByte: byteOffsetOf[g.ClusterIndex],
		})
	}
	flush(clusterRune)

	return result, nil
}

func utf8RuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

func isAllSpace(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}
