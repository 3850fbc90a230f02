package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face rasterizes glyphs with golang.org/x/image/font/opentype at a fixed
// pixel size and full hinting.
type Face struct {
	font *opentype.Font
	face font.Face
	size float64
	buf  sfnt.Buffer

	ascent  int
	descent int
}

var _ Rasterizer = (*Face)(nil)

// NewFace parses TrueType or OpenType data and creates a face of size
// pixels per em.
func NewFace(ttf []byte, size float64) (*Face, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("raster: failed to create face: %w", err)
	}
	m := face.Metrics()
	return &Face{
		font:    f,
		face:    face,
		size:    size,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}, nil
}

// Size returns the face size in pixels per em.
func (f *Face) Size() float64 { return f.size }

// Close releases the underlying face.
func (f *Face) Close() error {
	return f.face.Close()
}

// Measure implements Rasterizer.
func (f *Face) Measure(r rune) (Metrics, error) {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil || idx == 0 {
		return Metrics{}, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}
	adv, ok := f.face.GlyphAdvance(r)
	if !ok {
		return Metrics{}, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}
	return Metrics{
		Width:   adv.Ceil(),
		Height:  f.ascent + f.descent,
		Ascent:  f.ascent,
		Advance: adv.Round(),
	}, nil
}

// Rasterize implements Rasterizer.
func (f *Face) Rasterize(r rune, dst []byte) error {
	m, err := f.Measure(r)
	if err != nil {
		return err
	}
	if len(dst) != m.BufferSize() {
		return fmt.Errorf("%w: got %d bytes, want %d for %U", ErrBufferSize, len(dst), m.BufferSize(), r)
	}
	clear(dst)
	if m.Empty() {
		return nil
	}

	d := font.Drawer{
		Dst: &image.Alpha{
			Pix:    dst,
			Stride: m.Width,
			Rect:   image.Rect(0, 0, m.Width, m.Height),
		},
		Src:  image.Opaque,
		Face: f.face,
		Dot:  fixed.P(0, f.ascent),
	}
	d.DrawString(string(r))
	return nil
}
