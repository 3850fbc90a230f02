// Package glyphatlas is a font glyph atlas: it packs glyph bitmaps into a
// single fixed-size canvas so a renderer can draw text from one texture.
//
// # Overview
//
// The work is split across sub-packages:
//
//   - atlas: the shelf allocator and the keyed glyph map with
//     Insert, Lookup, Flush and Dump
//   - raster: Rasterizer implementations that measure a glyph and fill
//     a coverage buffer, on golang.org/x/image or go-text outlines
//   - textatlas: the caller side, which rasterizes on a miss, blits into
//     an alpha canvas, handles a full atlas and builds quads
//   - snapshot: layout recording, encoding and replay
//
// This package only holds the shared logger.
//
// # Quick Start
//
//	a, _ := atlas.New(256, 256)
//	r, err := a.Insert('A', 0, 9, 12, 1)
//	if errors.Is(err, atlas.ErrAtlasFull) {
//	    a.Flush()
//	    r, err = a.Insert('A', 0, 9, 12, 1)
//	}
//	// r is where the 9x12 coverage for 'A' goes.
//
// # Logging
//
// Nothing is logged unless SetLogger installs a logger. See SetLogger for
// the levels in use.
package glyphatlas
