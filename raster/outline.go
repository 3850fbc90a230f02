package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"
)

// OutlineFace rasterizes glyph outlines read with go-text/typesetting.
// It does no hinting, so stems may land between pixels.
type OutlineFace struct {
	face  *font.Face
	size  float64
	scale float32 // pixels per font unit

	ascent  int
	descent int

	z *vector.Rasterizer
}

var _ Rasterizer = (*OutlineFace)(nil)

// NewOutlineFace parses TrueType or OpenType data and creates a face of
// size pixels per em.
func NewOutlineFace(ttf []byte, size float64) (*OutlineFace, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("raster: failed to parse font: %w", err)
	}
	upem := face.Upem()
	if upem == 0 {
		return nil, fmt.Errorf("raster: font reports zero units per em")
	}
	ext, ok := face.FontHExtents()
	if !ok {
		return nil, fmt.Errorf("raster: font has no horizontal extents")
	}

	scale := float32(size) / float32(upem)
	return &OutlineFace{
		face:    face,
		size:    size,
		scale:   scale,
		ascent:  int(math.Ceil(float64(ext.Ascender * scale))),
		descent: int(math.Ceil(float64(-ext.Descender * scale))),
	}, nil
}

// Size returns the face size in pixels per em.
func (f *OutlineFace) Size() float64 { return f.size }

func (f *OutlineFace) glyph(r rune) (font.GID, error) {
	gid, ok := f.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return 0, fmt.Errorf("%w: %U", ErrNoGlyph, r)
	}
	return gid, nil
}

// Measure implements Rasterizer.
func (f *OutlineFace) Measure(r rune) (Metrics, error) {
	gid, err := f.glyph(r)
	if err != nil {
		return Metrics{}, err
	}
	adv := float64(f.face.HorizontalAdvance(gid) * f.scale)
	return Metrics{
		Width:   int(math.Ceil(adv)),
		Height:  f.ascent + f.descent,
		Ascent:  f.ascent,
		Advance: int(math.Round(adv)),
	}, nil
}

// Rasterize implements Rasterizer.
func (f *OutlineFace) Rasterize(r rune, dst []byte) error {
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

	gid, _ := f.glyph(r)
	outline, ok := f.face.GlyphData(gid).(font.GlyphOutline)
	if !ok {
		// Bitmap and SVG glyphs have no outline to fill.
		return fmt.Errorf("%w: %U has no outline", ErrNoGlyph, r)
	}
	if len(outline.Segments) == 0 {
		return nil
	}

	if f.z == nil {
		f.z = vector.NewRasterizer(m.Width, m.Height)
	} else {
		f.z.Reset(m.Width, m.Height)
	}
	z := f.z
	z.DrawOp = draw.Src

	// Font units are y-up; the cell is y-down with the baseline at ascent.
	base := float32(f.ascent)
	pt := func(p opentype.SegmentPoint) (float32, float32) {
		return p.X * f.scale, base - p.Y*f.scale
	}

	open := false
	for _, s := range outline.Segments {
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			x, y := pt(s.Args[0])
			z.MoveTo(x, y)
			open = true
		case opentype.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			z.LineTo(x, y)
		case opentype.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case opentype.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			dx, dy := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}

	mask := &image.Alpha{
		Pix:    dst,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return nil
}
