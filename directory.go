package otfsvg

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/tdewolff/parse/v2"
)

// OffsetTable is the 12-byte sfnt header.
type OffsetTable struct {
	SfntVersion   string
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// searchHints computes searchRange, entrySelector, and rangeShift for
// numTables per the formula in spec.md §3.
func searchHints(numTables uint16) (searchRange, entrySelector, rangeShift uint16) {
	if numTables == 0 {
		return 0, 0, 0
	}
	entrySelector = uint16(math.Log2(float64(numTables)))
	searchRange = uint16(1) << (entrySelector + 4)
	rangeShift = numTables<<4 - searchRange
	return
}

// TableRecord is one directory entry. offsetOfOffset is the absolute
// byte position, in the font the record was parsed from, of this
// record's offset field — retained so a future incremental editor can
// rewrite it in place without re-parsing the directory (spec.md §9).
// parseDirectory fills it in; Load does not keep the parsed records,
// and Bytes() rebuilds the directory from scratch without consulting
// offsetOfOffset.
type TableRecord struct {
	Tag            string
	Checksum       uint32
	Offset         uint32
	Length         uint32
	offsetOfOffset uint32
}

// parseDirectory decodes the offset table and table record array from
// the start of b. It returns the offset table, the records in file
// order, and the table bytes keyed by tag (padding excluded).
func parseDirectory(b []byte) (OffsetTable, []TableRecord, map[string][]byte, error) {
	if len(b) < 12 {
		return OffsetTable{}, nil, nil, fmt.Errorf("%w: file too short for offset table", ErrMalformedFont)
	} else if uint(math.MaxUint32) < uint(len(b)) {
		return OffsetTable{}, nil, nil, fmt.Errorf("%w: file exceeds maximum size", ErrMalformedFont)
	} else if MaxMemory != 0 && MaxMemory < uint32(len(b)) {
		return OffsetTable{}, nil, nil, fmt.Errorf("%w: file of %d bytes exceeds the %d byte limit", ErrExceedsMemory, len(b), MaxMemory)
	}

	r := parse.NewBinaryReader(b)
	sfntVersion := r.ReadString(4)
	if sfntVersion != "OTTO" && sfntVersion != "true" && binary.BigEndian.Uint32([]byte(sfntVersion)) != 0x00010000 {
		return OffsetTable{}, nil, nil, fmt.Errorf("%w: bad sfnt version", ErrMalformedFont)
	}

	ot := OffsetTable{SfntVersion: sfntVersion}
	ot.NumTables = r.ReadUint16()
	ot.SearchRange = r.ReadUint16()
	ot.EntrySelector = r.ReadUint16()
	ot.RangeShift = r.ReadUint16()
	if r.Len() < 16*uint32(ot.NumTables) {
		return OffsetTable{}, nil, nil, fmt.Errorf("%w: directory runs past end of file", ErrMalformedFont)
	}

	records := make([]TableRecord, ot.NumTables)
	tables := make(map[string][]byte, ot.NumTables)
	for i := 0; i < int(ot.NumTables); i++ {
		rec := TableRecord{}
		rec.Tag = r.ReadString(4)
		rec.Checksum = r.ReadUint32()
		rec.offsetOfOffset = 12 + uint32(i)*16 + 8
		rec.Offset = r.ReadUint32()
		rec.Length = r.ReadUint32()

		pad := padLen(rec.Length)
		if uint32(len(b)) <= rec.Offset || uint32(len(b))-rec.Offset < rec.Length || uint32(len(b))-rec.Offset-rec.Length < pad {
			return OffsetTable{}, nil, nil, fmt.Errorf("%w: table %q offset/length runs past end of file", ErrMalformedFont, rec.Tag)
		}
		if i > 0 && records[i-1].Tag >= rec.Tag {
			return OffsetTable{}, nil, nil, fmt.Errorf("%w: table records not in sorted tag order", ErrMalformedFont)
		}

		records[i] = rec
		tables[rec.Tag] = b[rec.Offset : rec.Offset+rec.Length : rec.Offset+rec.Length]
	}
	return ot, records, tables, nil
}

// buildFont serializes tables (keyed by 4-byte tag) into a complete
// sfnt binary: sorted directory, recomputed search-range hints,
// checksums, and 4-byte padding between tables. If a "head" table is
// present its checkSumAdjustment (bytes 8:12) is zeroed before summing
// and then set to 0xB1B0AFBA minus the whole-file checksum, per the
// conformant behavior spec.md §9 calls for.
func buildFont(sfntVersion string, tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	numTables := uint16(len(tags))
	searchRange, entrySelector, rangeShift := searchHints(numTables)

	w := parse.NewBinaryWriter([]byte{})
	w.WriteString(sfntVersion)
	w.WriteUint16(numTables)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)
	w.WriteBytes(make([]byte, uint32(numTables)*16)) // table records, filled in below

	var headChecksumAdjustmentPos uint32
	hasHeadAdjustment := false
	offsets := make([]uint32, numTables)
	lengths := make([]uint32, numTables)
	for i, tag := range tags {
		offsets[i] = w.Len()
		table := tables[tag]
		if tag == "head" && 12 <= len(table) {
			headChecksumAdjustmentPos = w.Len() + 8
			hasHeadAdjustment = true
			w.WriteBytes(table[:8])
			w.WriteUint32(0)
			w.WriteBytes(table[12:])
		} else {
			w.WriteBytes(table)
		}
		lengths[i] = w.Len() - offsets[i]

		pad := padLen(lengths[i])
		for j := uint32(0); j < pad; j++ {
			w.WriteByte(0)
		}
	}

	buf := w.Bytes()
	for i, tag := range tags {
		pos := 12 + i*16
		copy(buf[pos:], []byte(tag))
		pad := padLen(lengths[i])
		checksum := calcChecksum(buf[offsets[i] : offsets[i]+lengths[i]+pad])
		binary.BigEndian.PutUint32(buf[pos+4:], checksum)
		binary.BigEndian.PutUint32(buf[pos+8:], offsets[i])
		binary.BigEndian.PutUint32(buf[pos+12:], lengths[i])
	}
	if hasHeadAdjustment {
		binary.BigEndian.PutUint32(buf[headChecksumAdjustmentPos:], 0xB1B0AFBA-calcChecksum(buf))
	}
	return buf
}
