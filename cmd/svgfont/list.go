package main

import "fmt"

type List struct {
	Input string `index:"0" desc:"Input font file."`
}

func (cmd *List) Run() error {
	f, err := readFont(cmd.Input)
	if err != nil {
		return err
	}

	fmt.Printf("Family: %s\n\n", f.FamilyName())
	for _, g := range f.Glyphs() {
		fmt.Printf("  glyph %5d  U+%04X  %s\n", g.GlyphID, g.CodePoint, g.DisplayString)
	}
	return nil
}
