package otfsvg

import (
	"testing"

	"github.com/tdewolff/test"
)

// fakeCmapSubtable lets tests build a cmapTable from an arbitrary set
// of pairs without going through the binary decoders.
type fakeCmapSubtable struct {
	pairs []cmapPair
}

func (s *fakeCmapSubtable) enumerate() []cmapPair { return s.pairs }

func TestIsFilteredCodePoint(t *testing.T) {
	test.That(t, isFilteredCodePoint(' '))
	test.That(t, isFilteredCodePoint(0x00A0)) // no-break space
	test.That(t, isFilteredCodePoint(0x2003)) // em space
	test.That(t, isFilteredCodePoint(0xFEFF)) // BOM
	test.That(t, isFilteredCodePoint(0x000A)) // control
	test.That(t, !isFilteredCodePoint('A'))
	test.That(t, !isFilteredCodePoint('0'))
}

func TestBuildGlyphModelsFiltersAndDedups(t *testing.T) {
	cmap := &cmapTable{Subtables: []cmapSubtable{&fakeCmapSubtable{pairs: []cmapPair{
		{CodePoint: 'B', GlyphID: 2},
		{CodePoint: ' ', GlyphID: 1},  // filtered
		{CodePoint: 'A', GlyphID: 3},
		{CodePoint: 'a', GlyphID: 3}, // duplicate glyph id, first (by sorted code point) wins
	}}}}

	models := buildGlyphModels(cmap)
	test.T(t, len(models), 2)
	test.T(t, models[0].CodePoint, rune('A'))
	test.T(t, models[0].GlyphID, uint16(3))
	test.T(t, models[0].DisplayString, "A")
	test.T(t, models[1].CodePoint, rune('B'))
	test.T(t, models[1].GlyphID, uint16(2))
}
