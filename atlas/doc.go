// Package atlas packs glyph rectangles into a single fixed-size canvas
// and caches where each glyph was placed.
//
// The package has three parts:
//
//   - ShelfAllocator: first-fit shelf packing. A rectangle goes on the
//     first shelf, in creation order, that is tall enough and has room
//     left; otherwise a new shelf exactly as tall as the rectangle is
//     opened below the last one.
//   - Atlas: maps a GlyphKey (codepoint, font) to its placement. Insert
//     is idempotent per key and pads every glyph with an edge border so
//     texture filtering does not bleed between neighbours.
//   - Flush and Dump: Flush reclaims the whole canvas at once, Dump lists
//     what is currently occupied.
//
// # Usage
//
//	a, err := atlas.New(512, 512)
//	if err != nil {
//	    return err
//	}
//	r, ok := a.Lookup('A', fontID, 1)
//	if !ok {
//	    m, _ := face.Measure('A')
//	    r, err = a.Insert('A', fontID, m.Width, m.Height, 1)
//	    if errors.Is(err, atlas.ErrAtlasFull) {
//	        a.Flush() // between frames only
//	    }
//	}
//
// Space is never reclaimed piecemeal: rects do not move and there is no
// per-glyph removal. Flush is the only eviction.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. An Atlas is owned
// by one render context; share it only behind an external lock.
package atlas
