package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// batchManifest is the TOML shape embed-batch reads: one [[glyph]]
// table per glyph id, naming the SVG file to embed for it.
//
//	[[glyph]]
//	id = 36
//	svg = "glyphs/A.svg"
type batchManifest struct {
	Glyph []struct {
		ID  uint16 `toml:"id"`
		SVG string `toml:"svg"`
	} `toml:"glyph"`
}

type EmbedBatch struct {
	Manifest string `short:"m" name:"manifest" desc:"TOML manifest listing glyph id / SVG file pairs."`
	Output   string `short:"o" desc:"Output font file. Defaults to overwriting the input."`
	Input    string `index:"0" desc:"Input font file."`
}

func (cmd *EmbedBatch) Run() error {
	var manifest batchManifest
	if _, err := toml.DecodeFile(cmd.Manifest, &manifest); err != nil {
		return err
	}

	f, err := readFont(cmd.Input)
	if err != nil {
		return err
	}

	for _, g := range manifest.Glyph {
		svg, err := os.ReadFile(g.SVG)
		if err != nil {
			return err
		}
		if err := f.Embed(g.ID, svg); err != nil {
			return fmt.Errorf("glyph %d (%s): %w", g.ID, g.SVG, err)
		}
	}

	out := cmd.Output
	if out == "" {
		out = cmd.Input
	}
	fmt.Printf("embedded %d SVG document(s)\n", len(manifest.Glyph))
	return writeFont(out, f)
}
