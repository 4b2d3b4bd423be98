package otfsvg

import (
	"fmt"
	"os"
	"path/filepath"
)

const svgTag = "SVG "

var gzipMagic = [2]byte{0x1F, 0x8B}

// FontImage is the font being edited, held as its table bytes keyed by
// tag plus the decoded cmap, family name, and glyph list; Bytes()
// reassembles the file from the tables on each call (spec.md §3). It
// is a value, not a singleton (spec.md §5): a caller owns one
// FontImage per font and never shares it across concurrent mutations.
type FontImage struct {
	sfntVersion string
	tables      map[string][]byte

	cmap       *cmapTable
	familyName string
	glyphs     []GlyphModel
}

// FamilyName returns the font's family name (nameID 1), decoded at Load.
func (f *FontImage) FamilyName() string {
	return f.familyName
}

// Glyphs returns the caller-facing glyph grid: every (code point,
// glyph id) pair cmap produced, minus filtered code points, deduped
// by glyph id (spec.md §3, §6).
func (f *FontImage) Glyphs() []GlyphModel {
	return f.glyphs
}

// Load parses an OpenType/TrueType font and decodes its directory,
// cmap, and name table, per spec.md §6.
func Load(b []byte) (*FontImage, error) {
	ot, _, tables, err := parseDirectory(b)
	if err != nil {
		return nil, err
	}

	nameBytes, ok := tables["name"]
	if !ok {
		return nil, fmt.Errorf("%w: missing name table", ErrMalformedFont)
	}
	familyName, err := decodeFamilyName(nameBytes)
	if err != nil {
		return nil, err
	}

	cmapBytes, ok := tables["cmap"]
	if !ok {
		return nil, fmt.Errorf("%w: missing cmap table", ErrMalformedFont)
	}
	var numGlyphs uint16
	if maxpBytes, ok := tables["maxp"]; ok && 6 <= len(maxpBytes) {
		numGlyphs = uint16(maxpBytes[4])<<8 | uint16(maxpBytes[5])
	}
	cmap, err := decodeCmap(cmapBytes, numGlyphs)
	if err != nil {
		return nil, err
	}
	if len(cmap.Subtables) == 0 {
		return nil, fmt.Errorf("%w: no cmap subtable of format 0, 4, 6, or 12", ErrUnsupportedCmap)
	}

	f := &FontImage{
		sfntVersion: ot.SfntVersion,
		tables:      tables,
		cmap:        cmap,
		familyName:  familyName,
		glyphs:      buildGlyphModels(cmap),
	}
	return f, nil
}

// Embed associates svgBytes with glyphID, replacing any existing
// document for that glyph (spec.md §4.5.2). The payload is rewritten
// per spec.md §4.6 before it is staged; if that rewrite — or any other
// precondition — fails, FontImage is left untouched (spec.md §7).
func (f *FontImage) Embed(glyphID uint16, svgBytes []byte) error {
	if !f.cmap.Contains(glyphID) {
		return fmt.Errorf("%w: glyph %d not present in cmap", ErrUnknownGlyph, glyphID)
	}
	if len(svgBytes) >= 2 && svgBytes[0] == gzipMagic[0] && svgBytes[1] == gzipMagic[1] {
		return fmt.Errorf("%w: gzip-compressed SVG payloads are not supported", ErrUnsupportedFormat)
	}

	rewritten, err := rewriteSVG(svgBytes, rewriteInbound, glyphID)
	if err != nil {
		return err
	}

	svg, err := f.loadOrCreateSVGTable()
	if err != nil {
		return err
	}
	svg.embed(glyphID, rewritten)
	f.tables[svgTag] = svg.bytes()
	return nil
}

// Remove deletes the SVG document associated with glyphID, if any. It
// is a silent no-op if the glyph has no document, or if there is no
// SVG  table at all (spec.md §4.5.3, §6).
func (f *FontImage) Remove(glyphID uint16) error {
	b, ok := f.tables[svgTag]
	if !ok {
		return nil
	}
	svg, err := decodeSVGTable(b)
	if err != nil {
		return err
	}
	if !svg.remove(glyphID) {
		return nil
	}
	if len(svg.list()) == 0 {
		delete(f.tables, svgTag)
	} else {
		f.tables[svgTag] = svg.bytes()
	}
	return nil
}

// Export writes one <startId>.svg file per SVG document index entry
// into outDir, overwriting any existing file, and returns the count
// written (spec.md §4.5.4). It returns ErrUnsupportedFormat without
// writing anything further if any entry's payload is gzip-compressed.
func (f *FontImage) Export(outDir string) (int, error) {
	b, ok := f.tables[svgTag]
	if !ok {
		return 0, nil
	}
	svg, err := decodeSVGTable(b)
	if err != nil {
		return 0, err
	}

	entries := svg.list()
	for _, e := range entries {
		if len(e.Payload) >= 2 && e.Payload[0] == gzipMagic[0] && e.Payload[1] == gzipMagic[1] {
			return 0, fmt.Errorf("%w: glyph %d's SVG payload is gzip-compressed", ErrUnsupportedFormat, e.StartID)
		}
	}

	count := 0
	for _, e := range entries {
		out, err := rewriteSVG(e.Payload, rewriteOutbound, e.StartID)
		if err != nil {
			return count, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%d.svg", e.StartID))
		if err := os.WriteFile(path, out, 0644); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Bytes returns the current byte blob, suitable for writing to a
// .otf/.ttf file (spec.md §6). The directory, search-range hints,
// table lengths, padding, and checksums are computed fresh from the
// current table bytes every call (spec.md §9).
func (f *FontImage) Bytes() []byte {
	return buildFont(f.sfntVersion, f.tables)
}

// loadOrCreateSVGTable decodes the existing SVG  table, or creates an
// empty one if absent (spec.md §4.5.2 Case C).
func (f *FontImage) loadOrCreateSVGTable() (*svgTable, error) {
	b, ok := f.tables[svgTag]
	if !ok {
		return newEmptySVGTable(), nil
	}
	return decodeSVGTable(b)
}
