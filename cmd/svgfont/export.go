package main

import (
	"fmt"
	"os"
)

type Export struct {
	OutDir string `short:"d" name:"outdir" desc:"Directory to write <glyphId>.svg files into."`
	Input  string `index:"0" desc:"Input font file."`
}

func (cmd *Export) Run() error {
	if cmd.OutDir == "" {
		return fmt.Errorf("output directory not set")
	}
	if err := os.MkdirAll(cmd.OutDir, 0755); err != nil {
		return err
	}

	f, err := readFont(cmd.Input)
	if err != nil {
		return err
	}
	count, err := f.Export(cmd.OutDir)
	if err != nil {
		return err
	}
	fmt.Printf("exported %d SVG document(s) to %s\n", count, cmd.OutDir)
	return nil
}
