package narrative

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Emblem dimensions in pixels. Small enough to sit beside a territory name
// in the status panel.
const (
	EmblemWidth  = 24
	EmblemHeight = 16
)

var emblemPalette = []color.RGBA{
	{R: 170, G: 60, B: 55, A: 255},
	{R: 60, G: 110, B: 170, A: 255},
	{R: 200, G: 180, B: 80, A: 255},
	{R: 70, G: 140, B: 90, A: 255},
	{R: 230, G: 230, B: 225, A: 255},
	{R: 40, G: 40, B: 45, A: 255},
	{R: 190, G: 120, B: 50, A: 255},
}

// Emblem renders a deterministic flag-like banner for a territory name.
// Three horizontal bands, optionally overlaid with a vertical hoist stripe,
// all chosen by hashing the name. No real flag is reproduced.
func Emblem(name string) *image.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	seed := h.Sum32()

	n := uint32(len(emblemPalette))
	bands := [3]color.RGBA{
		emblemPalette[seed%n],
		emblemPalette[(seed/n)%n],
		emblemPalette[(seed/(n*n))%n],
	}
	hoist := seed%3 == 0
	hoistCol := emblemPalette[(seed/(n*n*n))%n]

	img := image.NewRGBA(image.Rect(0, 0, EmblemWidth, EmblemHeight))
	for y := 0; y < EmblemHeight; y++ {
		band := bands[y*3/EmblemHeight]
		for x := 0; x < EmblemWidth; x++ {
			c := band
			if hoist && x < EmblemWidth/4 {
				c = hoistCol
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// WriteEmblemPNG encodes the emblem for a name to w.
func WriteEmblemPNG(w io.Writer, name string) error {
	return png.Encode(w, Emblem(name))
}
