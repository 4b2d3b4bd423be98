package otfsvg

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/tdewolff/parse/v2"
)

// svgDocIndexEntry is one SvgDocIndexEntry (spec.md §3): this engine
// always writes EndID == StartID, since it only ever associates one
// glyph id with one SVG document (spec.md §4.5.2's three Embed cases
// never create a multi-glyph range).
type svgDocIndexEntry struct {
	StartID uint16
	EndID   uint16
	Payload []byte
}

// svgTable is the decoded form of the optional SVG  table (spec.md
// §4.5.1). Entries are kept in a treemap ordered by StartID so
// Embed/Remove never need to re-sort a slice, and bytes() always
// serializes entries and payloads in ascending glyph-id order.
//
// This is a "rebuild, don't patch" representation, the same choice
// SPEC_FULL.md §2 makes for the font directory as a whole: Embed and
// Remove mutate the logical map, and bytes() recomputes every
// docOffset from scratch on demand. The byte-shifting arithmetic
// spec.md §4.5.2/§4.5.3 describes (shifting trailing bytes by ±diff,
// adjusting every other entry's docOffset) is the effect this
// produces, not a separate algorithm this code runs.
type svgTable struct {
	entries *treemap.Map // int(glyphID) -> *svgDocIndexEntry
}

func newEmptySVGTable() *svgTable {
	return &svgTable{entries: treemap.NewWithIntComparator()}
}

// decodeSVGTable parses an existing SVG  table per spec.md §4.5.1.
func decodeSVGTable(b []byte) (*svgTable, error) {
	if len(b) < 10 {
		return nil, fmt.Errorf("%w: SVG table too short", ErrMalformedFont)
	}
	r := parse.NewBinaryReader(b)
	version := r.ReadUint16()
	if version != 0 {
		return nil, fmt.Errorf("%w: unsupported SVG table version %d", ErrMalformedFont, version)
	}
	docIndexOffset := r.ReadUint32()
	_ = r.ReadUint32() // reserved

	if uint32(len(b)) <= docIndexOffset || uint32(len(b))-docIndexOffset < 2 {
		return nil, fmt.Errorf("%w: SVG document index offset runs past end of table", ErrMalformedFont)
	}
	ir := parse.NewBinaryReader(b[docIndexOffset:])
	numEntries := ir.ReadUint16()
	if ir.Len() < 12*uint32(numEntries) {
		return nil, fmt.Errorf("%w: SVG document index runs past end of table", ErrMalformedFont)
	}

	t := newEmptySVGTable()
	var prevStart uint16
	for i := 0; i < int(numEntries); i++ {
		startID := ir.ReadUint16()
		endID := ir.ReadUint16()
		docOffset := ir.ReadUint32()
		docLength := ir.ReadUint32()
		if endID < startID {
			return nil, fmt.Errorf("%w: SVG document index entry %d has endId < startId", ErrMalformedFont, i)
		}
		if i > 0 && startID < prevStart {
			return nil, fmt.Errorf("%w: SVG document index not sorted by startId", ErrMalformedFont)
		}
		prevStart = startID

		if uint32(len(b))-docIndexOffset < docOffset || uint32(len(b))-docIndexOffset-docOffset < docLength {
			return nil, fmt.Errorf("%w: SVG document index entry %d points past end of table", ErrMalformedFont, i)
		}
		payload := make([]byte, docLength)
		copy(payload, b[docIndexOffset+docOffset:docIndexOffset+docOffset+docLength])

		for id := startID; ; id++ {
			t.entries.Put(int(id), &svgDocIndexEntry{StartID: id, EndID: id, Payload: payload})
			if id == endID {
				break
			}
		}
	}
	return t, nil
}

// get returns the entry for glyphID, if any.
func (t *svgTable) get(glyphID uint16) (*svgDocIndexEntry, bool) {
	v, ok := t.entries.Get(int(glyphID))
	if !ok {
		return nil, false
	}
	return v.(*svgDocIndexEntry), true
}

// embed adds or replaces the document associated with glyphID. This
// collapses spec.md §4.5.2's Case A (replace) and Case B (insert)
// into one map write; bytes() recomputes offsets either way.
func (t *svgTable) embed(glyphID uint16, payload []byte) {
	t.entries.Put(int(glyphID), &svgDocIndexEntry{StartID: glyphID, EndID: glyphID, Payload: payload})
}

// remove deletes the document for glyphID. Returns false if absent,
// in which case the caller treats it as a no-op (spec.md §4.5.3).
func (t *svgTable) remove(glyphID uint16) bool {
	if _, ok := t.entries.Get(int(glyphID)); !ok {
		return false
	}
	t.entries.Remove(int(glyphID))
	return true
}

// list returns every entry in ascending StartID order.
func (t *svgTable) list() []*svgDocIndexEntry {
	entries := make([]*svgDocIndexEntry, 0, t.entries.Size())
	it := t.entries.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(*svgDocIndexEntry))
	}
	return entries
}

// bytes serializes the table per spec.md §4.5.1: a 10-byte main
// header (version 0, svgDocIndexOffset 10, reserved 0), the document
// index (numEntries plus one 12-byte record per entry), then every
// payload back to back in index order.
func (t *svgTable) bytes() []byte {
	entries := t.list()

	w := parse.NewBinaryWriter([]byte{})
	w.WriteUint16(0)  // version
	w.WriteUint32(10) // svgDocIndexOffset
	w.WriteUint32(0)  // reserved

	w.WriteUint16(uint16(len(entries)))
	docOffset := uint32(2 + 12*len(entries)) // relative to the document index start
	for _, e := range entries {
		w.WriteUint16(e.StartID)
		w.WriteUint16(e.EndID)
		w.WriteUint32(docOffset)
		w.WriteUint32(uint32(len(e.Payload)))
		docOffset += uint32(len(e.Payload))
	}
	for _, e := range entries {
		w.WriteBytes(e.Payload)
	}
	return w.Bytes()
}
