// Package textatlas drives an atlas from text: it rasterizes glyphs on
// demand, copies their coverage into an alpha canvas, and builds quads
// that sample it.
//
// # Control flow
//
// Glyph looks the key up first. On a miss the glyph is measured and
// rasterized (or taken from the mask cache), inserted, and blitted into
// the canvas. Glyphs without coverage take no atlas space. When the atlas
// is full the configured FullPolicy decides between one flush-and-retry
// and reporting the Full error to the caller.
//
// # Uploading
//
// The canvas tracks the region changed since the last upload. Sync hands
// that region to an Uploader, typically a GPU texture update issued
// between frames:
//
//	c, _ := textatlas.New(textatlas.DefaultConfig())
//	face, _ := raster.NewFace(goregular.TTF, 16)
//	c.SetFont(0, face)
//
//	verts, _, err := c.AppendText(nil, "Hello", 0, mgl32.Vec2{10, 30})
//	if err != nil {
//	    return err
//	}
//	if err := c.Sync(texture); err != nil {
//	    return err
//	}
//	draw(verts)
//
// A flush invalidates every earlier quad. Callers that keep vertices
// across frames compare Generation before reusing them.
package textatlas
