// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
)

// Skin and Sky are reference colours either side of the skin-tone rule.
var (
	Skin = color.RGBA{R: 224, G: 172, B: 140, A: 255}
	Sky  = color.RGBA{R: 90, G: 160, B: 230, A: 255}
)

// Solid returns a w×h image filled with c.
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// Split returns a w×h image whose leftmost share of columns is left and the rest right.
func Split(w, h int, share float64, left, right color.Color) *image.RGBA {
	img := Solid(w, h, right)
	cut := int(float64(w) * share)
	for y := 0; y < h; y++ {
		for x := 0; x < cut; x++ {
			img.Set(x, y, left)
		}
	}
	return img
}

// PNG encodes img as PNG bytes.
func PNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEG encodes img as JPEG bytes.
func JPEG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// GIF encodes img as GIF bytes.
func GIF(img image.Image) []byte {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
