package otfsvg

import "sort"

// GlyphModel is one entry in the glyph grid shown to the caller:
// the code point that maps to it, the glyph id itself, and a display
// string suitable for a glyph picker label. Not mutated after Load
// (spec.md §3).
type GlyphModel struct {
	CodePoint     rune
	GlyphID       uint16
	DisplayString string
}

// filteredCodePoints are control and whitespace code points that are
// never exposed as editable glyphs (spec.md §6).
var filteredCodePoints = map[rune]bool{
	0x0020: true, // space
	0x202F: true, // narrow no-break space
	0x205F: true, // medium mathematical space
	0x3000: true, // ideographic space
	0xFEFF: true, // zero width no-break space / BOM
}

func isFilteredCodePoint(r rune) bool {
	if filteredCodePoints[r] {
		return true
	}
	switch {
	case 0x0000 <= r && r <= 0x001F:
		return true
	case 0x007F <= r && r <= 0x00A0:
		return true
	case 0x2000 <= r && r <= 0x200F:
		return true
	}
	return false
}

// buildGlyphModels enumerates cmap, drops filtered code points, and
// deduplicates by glyph id alone (the first code point encountered
// for a glyph id wins), per spec.md §3.
func buildGlyphModels(cmap *cmapTable) []GlyphModel {
	pairs := cmap.enumerate()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].CodePoint < pairs[j].CodePoint })

	seen := make(map[uint16]bool, len(pairs))
	models := make([]GlyphModel, 0, len(pairs))
	for _, p := range pairs {
		if isFilteredCodePoint(p.CodePoint) || seen[p.GlyphID] {
			continue
		}
		seen[p.GlyphID] = true
		models = append(models, GlyphModel{
			CodePoint:     p.CodePoint,
			GlyphID:       p.GlyphID,
			DisplayString: string(p.CodePoint),
		})
	}
	return models
}
