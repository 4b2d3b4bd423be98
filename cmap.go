package otfsvg

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2"
)

// MaxCmapSegments bounds the number of segments/groups accepted from a
// single cmap subtable, guarding against pathological inputs.
const MaxCmapSegments = 20000

// cmapPair is one decoded (code point, glyph id) mapping.
type cmapPair struct {
	CodePoint rune
	GlyphID   uint16
}

// cmapFormat0 is the 256-entry direct byte-encoding subtable.
type cmapFormat0 struct {
	GlyphIDArray [256]uint8
}

func (s *cmapFormat0) enumerate() []cmapPair {
	pairs := make([]cmapPair, 0, 256)
	for code, glyphID := range s.GlyphIDArray {
		if glyphID != 0 {
			pairs = append(pairs, cmapPair{rune(code), uint16(glyphID)})
		}
	}
	return pairs
}

// cmapFormat4 is the segmented BMP subtable.
type cmapFormat4 struct {
	StartCode     []uint16
	EndCode       []uint16
	IdDelta       []int16
	IdRangeOffset []uint16
	GlyphIDArray  []uint16
}

func (s *cmapFormat4) enumerate() []cmapPair {
	var pairs []cmapPair
	n := len(s.StartCode)
	for i := 0; i < n; i++ {
		for code := uint32(s.StartCode[i]); code <= uint32(s.EndCode[i]); code++ {
			if code == 0xFFFF && s.StartCode[i] == 0xFFFF && s.EndCode[i] == 0xFFFF {
				// reserved terminator segment maps to .notdef only
				break
			}
			var glyphID uint16
			if s.IdRangeOffset[i] == 0 {
				glyphID = uint16(int32(s.IdDelta[i]) + int32(code))
			} else {
				index := int(s.IdRangeOffset[i]/2) + int(uint16(code)-s.StartCode[i]) - (n - i)
				if index < 0 || len(s.GlyphIDArray) <= index {
					continue
				}
				glyphID = s.GlyphIDArray[index]
			}
			if glyphID != 0 {
				pairs = append(pairs, cmapPair{rune(code), glyphID})
			}
		}
	}
	return pairs
}

// cmapFormat6 is the trimmed-table mapping.
type cmapFormat6 struct {
	FirstCode    uint16
	GlyphIDArray []uint16
}

func (s *cmapFormat6) enumerate() []cmapPair {
	pairs := make([]cmapPair, 0, len(s.GlyphIDArray))
	for i, glyphID := range s.GlyphIDArray {
		if glyphID != 0 {
			pairs = append(pairs, cmapPair{rune(uint32(s.FirstCode) + uint32(i)), glyphID})
		}
	}
	return pairs
}

// cmapFormat12 is the segmented coverage mapping with 32-bit code points.
type cmapFormat12 struct {
	StartCharCode []uint32
	EndCharCode   []uint32
	StartGlyphID  []uint32
}

func (s *cmapFormat12) enumerate() []cmapPair {
	var pairs []cmapPair
	for i := range s.StartCharCode {
		for code := s.StartCharCode[i]; code <= s.EndCharCode[i]; code++ {
			glyphID := s.StartGlyphID[i] + (code - s.StartCharCode[i])
			if glyphID != 0 && glyphID <= math.MaxUint16 {
				pairs = append(pairs, cmapPair{rune(code), uint16(glyphID)})
			}
		}
	}
	return pairs
}

type cmapSubtable interface {
	enumerate() []cmapPair
}

// cmapTable holds every decoded subtable of formats 0, 4, 6, and 12.
// Subtables of any other format are silently skipped, per spec.md §4.3.
type cmapTable struct {
	Subtables []cmapSubtable
}

// Contains reports whether glyphID is reachable from any decoded
// subtable, i.e. whether some code point maps to it.
func (t *cmapTable) Contains(glyphID uint16) bool {
	for _, sub := range t.Subtables {
		for _, pair := range sub.enumerate() {
			if pair.GlyphID == glyphID {
				return true
			}
		}
	}
	return false
}

// enumerate returns every (codePoint, glyphID) pair across all decoded
// subtables, in subtable order. Duplicates (by rune, or across
// subtables) are left for the caller to deduplicate by whichever key
// it cares about — GlyphModel dedups by glyph id alone (spec.md §3).
func (t *cmapTable) enumerate() []cmapPair {
	var pairs []cmapPair
	for _, sub := range t.Subtables {
		pairs = append(pairs, sub.enumerate()...)
	}
	return pairs
}

// decodeCmap walks the cmap table and decodes every subtable of
// format 0, 4, 6, or 12. numGlyphs, if non-zero, bounds glyph ids read
// from the subtable (as the teacher's sfnt_cmap.go does via maxp);
// pass 0 to skip that bound (maxp is not a required table here).
func decodeCmap(b []byte, numGlyphs uint16) (*cmapTable, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: cmap table too short", ErrMalformedFont)
	}

	cmap := &cmapTable{}
	r := parse.NewBinaryReader(b)
	if r.ReadUint16() != 0 {
		return nil, fmt.Errorf("%w: cmap bad version", ErrMalformedFont)
	}
	numTables := r.ReadUint16()
	if uint32(len(b)) < 4+8*uint32(numTables) {
		return nil, fmt.Errorf("%w: cmap encoding record array runs past end of table", ErrMalformedFont)
	}

	seenOffsets := map[uint32]bool{}
	for j := 0; j < int(numTables); j++ {
		_ = r.ReadUint16() // platformID
		_ = r.ReadUint16() // encodingID
		offset := r.ReadUint32()
		if uint32(len(b))-2 < offset || seenOffsets[offset] {
			continue
		}
		seenOffsets[offset] = true

		rs := parse.NewBinaryReader(b[offset:])
		format := rs.ReadUint16()
		switch format {
		case 0:
			if rs.Len() < 260 {
				continue
			}
			_ = rs.ReadUint16() // length
			_ = rs.ReadUint16() // language
			subtable := &cmapFormat0{}
			copy(subtable.GlyphIDArray[:], rs.ReadBytes(256))
			if boundsOK(subtable.GlyphIDArrayBound(), numGlyphs) {
				cmap.Subtables = append(cmap.Subtables, subtable)
			}
		case 4:
			if subtable, ok := decodeCmapFormat4(rs, numGlyphs); ok {
				cmap.Subtables = append(cmap.Subtables, subtable)
			}
		case 6:
			if subtable, ok := decodeCmapFormat6(rs, numGlyphs); ok {
				cmap.Subtables = append(cmap.Subtables, subtable)
			}
		case 12:
			if subtable, ok := decodeCmapFormat12(rs, numGlyphs); ok {
				cmap.Subtables = append(cmap.Subtables, subtable)
			}
		default:
			// formats other than 0, 4, 6, 12 are silently skipped.
		}
	}
	return cmap, nil
}

// GlyphIDArrayBound returns the largest glyph id a format 0 subtable references.
func (s *cmapFormat0) GlyphIDArrayBound() uint16 {
	var max uint16
	for _, id := range s.GlyphIDArray {
		if uint16(id) > max {
			max = uint16(id)
		}
	}
	return max
}

func boundsOK(maxSeen, numGlyphs uint16) bool {
	return numGlyphs == 0 || maxSeen < numGlyphs
}

func decodeCmapFormat4(rs *parse.BinaryReader, numGlyphs uint16) (*cmapFormat4, bool) {
	if rs.Len() < 12 {
		return nil, false
	}
	_ = rs.ReadUint16() // length
	_ = rs.ReadUint16() // language
	segCountX2 := rs.ReadUint16()
	if segCountX2 == 0 || segCountX2%2 != 0 {
		return nil, false
	}
	segCount := segCountX2 / 2
	if MaxCmapSegments < segCount {
		return nil, false
	}
	_ = rs.ReadUint16() // searchRange
	_ = rs.ReadUint16() // entrySelector
	_ = rs.ReadUint16() // rangeShift

	if rs.Len() < 2+8*uint32(segCount) {
		return nil, false
	}
	s := &cmapFormat4{}
	s.EndCode = make([]uint16, segCount)
	for i := range s.EndCode {
		s.EndCode[i] = rs.ReadUint16()
	}
	if rs.ReadUint16() != 0 { // reservedPad
		return nil, false
	}
	s.StartCode = make([]uint16, segCount)
	for i := range s.StartCode {
		s.StartCode[i] = rs.ReadUint16()
	}
	s.IdDelta = make([]int16, segCount)
	for i := range s.IdDelta {
		s.IdDelta[i] = rs.ReadInt16()
	}

	glyphIdArrayLen := rs.Len() / 2
	if rs.Len()%2 != 0 || glyphIdArrayLen < uint32(segCount) {
		return nil, false
	}
	s.IdRangeOffset = make([]uint16, segCount)
	for i := range s.IdRangeOffset {
		s.IdRangeOffset[i] = rs.ReadUint16()
	}
	glyphIdArrayLen = rs.Len() / 2
	s.GlyphIDArray = make([]uint16, glyphIdArrayLen)
	for i := range s.GlyphIDArray {
		glyphID := rs.ReadUint16()
		if numGlyphs != 0 && numGlyphs <= glyphID {
			return nil, false
		}
		s.GlyphIDArray[i] = glyphID
	}
	return s, true
}

func decodeCmapFormat6(rs *parse.BinaryReader, numGlyphs uint16) (*cmapFormat6, bool) {
	if rs.Len() < 8 {
		return nil, false
	}
	_ = rs.ReadUint16() // length
	_ = rs.ReadUint16() // language
	s := &cmapFormat6{}
	s.FirstCode = rs.ReadUint16()
	entryCount := rs.ReadUint16()
	if rs.Len() < 2*uint32(entryCount) {
		return nil, false
	}
	s.GlyphIDArray = make([]uint16, entryCount)
	for i := range s.GlyphIDArray {
		glyphID := rs.ReadUint16()
		if numGlyphs != 0 && numGlyphs <= glyphID {
			return nil, false
		}
		s.GlyphIDArray[i] = glyphID
	}
	return s, true
}

func decodeCmapFormat12(rs *parse.BinaryReader, numGlyphs uint16) (*cmapFormat12, bool) {
	if rs.Len() < 14 {
		return nil, false
	}
	_ = rs.ReadUint16() // reserved
	_ = rs.ReadUint32() // length
	_ = rs.ReadUint32() // language
	numGroups := rs.ReadUint32()
	if MaxCmapSegments < numGroups || rs.Len() < 12*numGroups {
		return nil, false
	}
	s := &cmapFormat12{}
	s.StartCharCode = make([]uint32, numGroups)
	s.EndCharCode = make([]uint32, numGroups)
	s.StartGlyphID = make([]uint32, numGroups)
	for i := 0; i < int(numGroups); i++ {
		start := rs.ReadUint32()
		end := rs.ReadUint32()
		startGlyphID := rs.ReadUint32()
		if end < start {
			return nil, false
		}
		if numGlyphs != 0 {
			span := end - start
			if uint32(numGlyphs) <= span || uint32(numGlyphs)-span <= startGlyphID {
				return nil, false
			}
		}
		s.StartCharCode[i] = start
		s.EndCharCode[i] = end
		s.StartGlyphID[i] = startGlyphID
	}
	return s, true
}
