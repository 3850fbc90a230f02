package atlas

import (
	"image"
	"image/color"
	"image/draw"
)

// Palette used by Visualize.
var (
	VisualBackground = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	VisualShelf      = color.NRGBA{R: 0x30, G: 0x40, B: 0x58, A: 0xff}
	VisualFootprint  = color.NRGBA{R: 0x5a, G: 0x8c, B: 0x5a, A: 0xff}
	VisualBorder     = color.NRGBA{R: 0xe0, G: 0xe0, B: 0x60, A: 0xff}
)

// Visualize draws the layout of a: shelves as bands, footprints as filled
// boxes with a one-pixel outline. It does not read glyph pixels.
func Visualize(a *Atlas) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, a.Width(), a.Height()))
	draw.Draw(img, img.Bounds(), image.NewUniform(VisualBackground), image.Point{}, draw.Src)

	for _, s := range a.Shelves() {
		band := image.Rect(0, s.Y, a.Width(), s.Y+s.Height)
		draw.Draw(img, band, image.NewUniform(VisualShelf), image.Point{}, draw.Src)
	}
	for _, r := range a.Dump() {
		box := r.Image()
		draw.Draw(img, box, image.NewUniform(VisualFootprint), image.Point{}, draw.Src)
		outline(img, box, VisualBorder)
	}
	return img
}

func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
