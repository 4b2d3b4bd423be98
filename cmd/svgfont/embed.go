package main

import (
	"os"

	"github.com/tdewolff/prompt"
)

type Embed struct {
	GlyphID uint16 `short:"g" name:"glyph" desc:"Glyph ID to attach the SVG document to."`
	SVG     string `short:"s" name:"svg" desc:"SVG document file to embed."`
	Force   bool   `short:"f" desc:"Force overwriting the output file."`
	Output  string `short:"o" desc:"Output font file. Defaults to overwriting the input."`
	Input   string `index:"0" desc:"Input font file."`
}

func (cmd *Embed) Run() error {
	f, err := readFont(cmd.Input)
	if err != nil {
		return err
	}

	svg, err := os.ReadFile(cmd.SVG)
	if err != nil {
		return err
	}
	if err := f.Embed(cmd.GlyphID, svg); err != nil {
		return err
	}

	out := cmd.Output
	if out == "" {
		out = cmd.Input
	}
	if out != cmd.Input && !cmd.Force {
		if _, err := os.Stat(out); err == nil {
			if !prompt.YesNo(out+" already exists, overwrite?", false) {
				return nil
			}
		}
	}
	return writeFont(out, f)
}
