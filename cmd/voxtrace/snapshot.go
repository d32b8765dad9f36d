package main

import (
	"image"
	"image/png"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

func writePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("creating snapshot file failed").
			WithTag("file", path).
			Wrap(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.New("encoding snapshot failed").
			WithTag("file", path).
			Wrap(err)
	}
	return nil
}
