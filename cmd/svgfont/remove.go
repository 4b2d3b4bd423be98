package main

type Remove struct {
	GlyphID uint16 `short:"g" name:"glyph" desc:"Glyph ID to detach the SVG document from."`
	Output  string `short:"o" desc:"Output font file. Defaults to overwriting the input."`
	Input   string `index:"0" desc:"Input font file."`
}

func (cmd *Remove) Run() error {
	f, err := readFont(cmd.Input)
	if err != nil {
		return err
	}
	if err := f.Remove(cmd.GlyphID); err != nil {
		return err
	}

	out := cmd.Output
	if out == "" {
		out = cmd.Input
	}
	return writeFont(out, f)
}
