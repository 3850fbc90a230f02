// Package raster rasterizes single glyphs into 8-bit coverage buffers
// for packing into an atlas.
//
// Two Rasterizer implementations are provided:
//
//   - Face renders through golang.org/x/image/font/opentype with
//     full hinting.
//   - OutlineFace reads outlines with github.com/go-text/typesetting and
//     fills them with golang.org/x/image/vector.
//
// Both report a fixed cell per glyph: the advance width by the face's
// line height, with the baseline at Metrics.Ascent.
//
//	face, err := raster.NewFace(goregular.TTF, 16)
//	if err != nil {
//	    return err
//	}
//	m, err := face.Measure('g')
//	buf := make([]byte, m.BufferSize())
//	err = face.Rasterize('g', buf)
//
// A Face is not safe for concurrent use; create one per goroutine.
package raster
