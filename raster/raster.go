package raster

import (
	"errors"
	"math"
)

// Sentinel errors for the raster package.
var (
	// ErrNoGlyph is returned when a face has no glyph for a codepoint.
	// Callers skip such glyphs without inserting anything.
	ErrNoGlyph = errors.New("raster: no glyph for codepoint")

	// ErrBufferSize is returned when the destination buffer is not
	// exactly Width*Height bytes.
	ErrBufferSize = errors.New("raster: buffer size does not match glyph size")

	// ErrInvalidSize is returned for a non-positive or non-finite font size.
	ErrInvalidSize = errors.New("raster: invalid font size")
)

// Metrics describes the pixel cell of one glyph.
//
// The cell spans the whole line height of the face, so every glyph of a
// face has the same Height. The baseline is Ascent pixels below the top.
type Metrics struct {
	Width   int // ceil(advance)
	Height  int // ascent + descent
	Ascent  int
	Advance int // pen advance in whole pixels
}

// Empty reports whether the cell has no pixels, as for zero-width marks.
func (m Metrics) Empty() bool {
	return m.Width <= 0 || m.Height <= 0
}

// BufferSize returns the number of coverage bytes the glyph needs.
func (m Metrics) BufferSize() int {
	if m.Empty() {
		return 0
	}
	return m.Width * m.Height
}

// Rasterizer turns codepoints into 8-bit coverage bitmaps.
//
// Measure must be a pure function of the codepoint and the face's fixed
// configuration. A face whose configuration changes must be registered
// again, which flushes the atlas that used it.
type Rasterizer interface {
	// Measure reports the cell of r.
	Measure(r rune) (Metrics, error)

	// Rasterize writes Width*Height coverage bytes for r into dst, row
	// by row with a stride of Width. It never touches atlas state.
	Rasterize(r rune, dst []byte) error
}

func validSize(size float64) bool {
	return size > 0 && !math.IsInf(size, 0) && !math.IsNaN(size)
}
