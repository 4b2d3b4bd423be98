package otfsvg

import (
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/test"
)

// buildCmapTable wraps one subtable's bytes in a minimal cmap table
// with a single encoding record (platform 3, encoding 1).
func buildCmapTable(subtable []byte) []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0) // version
	w.WriteUint16(1) // numTables
	w.WriteUint16(3) // platformID
	w.WriteUint16(1) // encodingID
	w.WriteUint32(12)
	w.WriteBytes(subtable)
	return w.Bytes()
}

func buildFormat0Subtable(mappings map[byte]uint8) []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0)   // format
	w.WriteUint16(262) // length
	w.WriteUint16(0)   // language
	var arr [256]byte
	for code, glyph := range mappings {
		arr[code] = glyph
	}
	w.WriteBytes(arr[:])
	return w.Bytes()
}

func buildFormat4Subtable() []byte {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(4) // format
	w.WriteUint16(0) // length (unchecked)
	w.WriteUint16(0) // language
	w.WriteUint16(4) // segCountX2 (2 segments)
	w.WriteUint16(0) // searchRange
	w.WriteUint16(0) // entrySelector
	w.WriteUint16(0) // rangeShift
	// endCode
	w.WriteUint16(66)
	w.WriteUint16(0xFFFF)
	w.WriteUint16(0) // reservedPad
	// startCode
	w.WriteUint16(65)
	w.WriteUint16(0xFFFF)
	// idDelta: 'A'(65) -> glyph 3, so delta = 3-65 = -62
	w.WriteInt16(-62)
	w.WriteInt16(1)
	// idRangeOffset
	w.WriteUint16(0)
	w.WriteUint16(0)
	return w.Bytes()
}

func TestDecodeCmapFormat0(t *testing.T) {
	b := buildCmapTable(buildFormat0Subtable(map[byte]uint8{67: 5}))
	cmap, err := decodeCmap(b, 0)
	test.Error(t, err)
	test.T(t, len(cmap.Subtables), 1)
	test.That(t, cmap.Contains(5))
	test.That(t, !cmap.Contains(6))

	pairs := cmap.enumerate()
	test.T(t, len(pairs), 1)
	test.T(t, pairs[0].CodePoint, rune(67))
	test.T(t, pairs[0].GlyphID, uint16(5))
}

func TestDecodeCmapFormat0RejectsOutOfBoundsGlyph(t *testing.T) {
	b := buildCmapTable(buildFormat0Subtable(map[byte]uint8{67: 5}))
	cmap, err := decodeCmap(b, 5) // max referenced glyph is 5, not < 5
	test.Error(t, err)
	test.T(t, len(cmap.Subtables), 0)
}

func TestDecodeCmapFormat4(t *testing.T) {
	b := buildCmapTable(buildFormat4Subtable())
	cmap, err := decodeCmap(b, 0)
	test.Error(t, err)
	test.T(t, len(cmap.Subtables), 1)
	test.That(t, cmap.Contains(3))
	test.That(t, cmap.Contains(4))
	test.That(t, !cmap.Contains(0))

	pairs := cmap.enumerate()
	test.T(t, len(pairs), 2)

	seen := map[rune]uint16{}
	for _, p := range pairs {
		seen[p.CodePoint] = p.GlyphID
	}
	test.T(t, seen['A'], uint16(3))
	test.T(t, seen['B'], uint16(4))
}

func TestDecodeCmapSkipsUnknownFormat(t *testing.T) {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(2) // format 2: high-byte mapping, not decoded
	w.WriteBytes(make([]byte, 32))
	b := buildCmapTable(w.Bytes())

	cmap, err := decodeCmap(b, 0)
	test.Error(t, err)
	test.T(t, len(cmap.Subtables), 0)
}

func TestDecodeCmapRejectsTooShort(t *testing.T) {
	_, err := decodeCmap([]byte{0, 0}, 0)
	test.That(t, err != nil)
}

func TestDecodeCmapRejectsBadVersion(t *testing.T) {
	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(1)
	w.WriteUint16(0)
	_, err := decodeCmap(w.Bytes(), 0)
	test.That(t, err != nil)
}
