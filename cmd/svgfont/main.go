package main

import (
	"github.com/tdewolff/argp"
)

func main() {
	cmd := argp.New("Embed, remove, and export SVG glyph images in OpenType/TrueType fonts")
	cmd.AddCmd(&List{}, "list", "List the font's editable glyphs")
	cmd.AddCmd(&Embed{}, "embed", "Embed an SVG document for one glyph")
	cmd.AddCmd(&EmbedBatch{}, "embed-batch", "Embed SVG documents for many glyphs from a manifest")
	cmd.AddCmd(&Remove{}, "remove", "Remove the SVG document for one glyph")
	cmd.AddCmd(&Export{}, "export", "Export every embedded SVG document to a directory")
	cmd.Parse()
}
