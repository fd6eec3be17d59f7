// SPDX-License-Identifier: Unlicense OR MIT

package richlayout

import "unicode/utf8"

// ItemKind classifies one itemized run (spec §4.4).
type ItemKind uint8

const (
	ItemText ItemKind = iota
	ItemInlineBox
	ItemMandatoryBreak
)

// Item is a maximal run homogeneous in (script, level, style, locale),
// already assigned a font, or a forced split introduced by an inline box
// or an explicit line break (spec §4.4).
type Item struct {
	Range      ByteRange
	Kind       ItemKind
	Script     Script
	Level      BidiLevel
	StyleIndex int
	Locale     string
	Font       FontInstance // zero value if no font covers this run (missing-glyph, spec §7)
	BoxIndex   int          // valid when Kind == ItemInlineBox
}

// isExplicitBreak reports whether r is one of the mandatory line-break
// codepoints named in spec §4.4, and returns the byte length to consume
// (2 for CRLF, 1 otherwise).
func isExplicitBreak(text []byte, i int) (n int, ok bool) {
	r, size := utf8.DecodeRune(text[i:])
	switch r {
	case '\n':
		return size, true
	case '\r':
		if i+size < len(text) {
			if r2, size2 := utf8.DecodeRune(text[i+size:]); r2 == '\n' {
				return size + size2, true
			}
		}
		return size, true
	case '', ' ', ' ': // NEL, LS, PS
		return size, true
	}
	return 0, false
}

// Itemize splits text into maximal runs per spec §4.4. styles must cover
// [0, len(text)) as produced by ResolveStyles; bi is the paragraph bidi
// analysis; boxes must be sorted ascending by ByteOffset.
func Itemize(text []byte, styles []ResolvedStyleRun, bi BidiInfo, boxes []InlineBox, udata UnicodeData, fonts FontProvider) []Item {
	var items []Item
	boxIdx := 0
	graphemes := udata.GraphemeBoundaries(text)

	i := 0
	for i < len(text) {
		for boxIdx < len(boxes) && boxes[boxIdx].ByteOffset == i {
			items = append(items, Item{Range: ByteRange{i, i}, Kind: ItemInlineBox, BoxIndex: boxIdx})
			boxIdx++
		}
		if i >= len(text) {
			break
		}
		if n, ok := isExplicitBreak(text, i); ok {
			items = append(items, Item{Range: ByteRange{i, i + n}, Kind: ItemMandatoryBreak})
			i += n
			continue
		}

		styleIdx := resolvedStyleIndexAt(styles, i)
		style := styles[styleIdx].Style
		level := bi.LevelAt(i)

		// Extend the run while script, level, and style stay uniform, and
		// track font selection cluster-by-cluster within it.
		runStart := i
		var currentFont FontInstance
		fontSet := false
		script := udata.Script(firstRune(text[i:]))
		for i < len(text) {
			if n, _ := isExplicitBreak(text, i); n > 0 {
				break
			}
			if boxIdx < len(boxes) && boxes[boxIdx].ByteOffset == i {
				break
			}
			curStyleIdx := resolvedStyleIndexAt(styles, i)
			if curStyleIdx != styleIdx {
				break
			}
			if bi.LevelAt(i) != level {
				break
			}
			r := firstRune(text[i:])
			curScript := udata.Script(r)
			if curScript != script && curScript != 0 && script != 0 {
				break
			}

			clusterEnd := nextGraphemeBoundary(graphemes, i, len(text))
			cluster := text[i:clusterEnd]
			font := selectFontForCluster(style, cluster, script, udata, fonts)
			if fontSet && font != currentFont {
				break
			}
			currentFont = font
			fontSet = true
			i = clusterEnd
		}
		items = append(items, Item{
			Range:      ByteRange{runStart, i},
			Kind:       ItemText,
			Script:     script,
			Level:      level,
			StyleIndex: styleIdx,
			Locale:     style.Locale,
			Font:       currentFont,
		})
	}
	return items
}

func firstRune(b []byte) rune {
	r, _ := utf8.DecodeRune(b)
	return r
}

func resolvedStyleIndexAt(styles []ResolvedStyleRun, b int) int {
	for idx, s := range styles {
		if b >= s.Range.Start && b < s.Range.End {
			return idx
		}
	}
	return len(styles) - 1
}

func nextGraphemeBoundary(bits []bool, from, textLen int) int {
	for j := from + 1; j < textLen; j++ {
		if j < len(bits) && bits[j] {
			return j
		}
	}
	return textLen
}

// selectFontForCluster implements spec §4.4's per-cluster font fallback:
// try the style's font stack first, then the provider's fallback chain
// seeded with (script, locale), with an emoji family preferred when the
// cluster is flagged emoji-presentation.
func selectFontForCluster(style ResolvedStyle, cluster []byte, script Script, udata UnicodeData, fonts FontProvider) FontInstance {
	primary := fonts.SelectFamily(style.FontStack, style.FontWeight, style.FontWidth, style.FontStyle)
	if clusterCovered(primary, cluster, fonts) {
		return primary
	}
	r := firstRune(cluster)
	chain := fonts.FallbackChain(script, style.Locale)
	if udata.IsEmojiPresentation(r) {
		if emoji := fonts.FallbackChain(0, "emoji"); len(emoji) > 0 {
			chain = append(emoji, chain...)
		}
	}
	for _, cand := range chain {
		if clusterCovered(cand, cluster, fonts) {
			return cand
		}
	}
	// No font covers this cluster: spec §4.4/§7 permit substituting the
	// last-resort font (here, the zero FontInstance signaling
	// missing-glyph to the Shaper Driver) rather than failing layout.
	return FontInstance{}
}

func clusterCovered(fi FontInstance, cluster []byte, fonts FontProvider) bool {
	if fi.IsZero() {
		return false
	}
	for len(cluster) > 0 {
		r, size := utf8.DecodeRune(cluster)
		if !fonts.Coverage(fi, r) {
			return false
		}
		cluster = cluster[size:]
	}
	return true
}
