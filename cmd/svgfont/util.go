package main

import (
	"os"

	"github.com/otfsvg/otfsvg"
)

func readFont(path string) (*otfsvg.FontImage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return otfsvg.Load(b)
}

func writeFont(path string, f *otfsvg.FontImage) error {
	return os.WriteFile(path, f.Bytes(), 0644)
}
