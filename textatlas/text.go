package textatlas

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/raster"
)

// Vertex is one corner of a glyph quad. Pos is in pixels with y down;
// UV is normalized to the canvas.
type Vertex struct {
	Pos mgl32.Vec2
	UV  mgl32.Vec2
}

// VerticesPerGlyph is the number of vertices AppendText emits per
// visible glyph: two triangles.
const VerticesPerGlyph = 6

// UV returns the normalized texture rectangle of g in a w×h canvas as
// (u0, v0, u1, v1).
func (g Glyph) UV(w, h int) mgl32.Vec4 {
	fw, fh := float32(w), float32(h)
	return mgl32.Vec4{
		float32(g.Rect.X) / fw,
		float32(g.Rect.Y) / fh,
		float32(g.Rect.X+g.Rect.Width) / fw,
		float32(g.Rect.Y+g.Rect.Height) / fh,
	}
}

// AppendText appends quads for s drawn in font with the pen starting at
// origin on the baseline, and returns the extended slice and the final
// pen position. Glyphs advance by their metrics; there is no kerning.
//
// Glyphs missing from the face are skipped. Glyphs that do not fit even
// after a flush are skipped but still advance the pen.
//
// Every returned quad belongs to the same atlas generation. If the atlas
// is flushed part way through, the run is rebuilt once; if that happens
// again ErrRunTooLarge is returned and dst is left at its original
// length.
func (c *Cache) AppendText(dst []Vertex, s string, font int, origin mgl32.Vec2) ([]Vertex, mgl32.Vec2, error) {
	start := len(dst)
	for range 2 {
		out, pen, ok, err := c.appendRun(dst[:start], s, font, origin)
		if err != nil {
			return dst[:start], origin, err
		}
		if ok {
			return out, pen, nil
		}
		dst = out
	}
	return dst[:start], origin, ErrRunTooLarge
}

// appendRun builds one attempt. ok is false when the generation changed.
func (c *Cache) appendRun(dst []Vertex, s string, font int, origin mgl32.Vec2) ([]Vertex, mgl32.Vec2, bool, error) {
	gen := c.atlas.Generation()
	pen := origin
	for _, r := range s {
		g, err := c.Glyph(r, font)
		switch {
		case err == nil:
		case errors.Is(err, raster.ErrNoGlyph):
			continue
		case errors.Is(err, atlas.ErrAtlasFull):
			pen[0] += float32(g.Metrics.Advance)
			continue
		default:
			return dst, origin, false, err
		}
		if g.Generation != gen {
			return dst, origin, false, nil
		}
		if !g.Blank() {
			dst = c.appendQuad(dst, g, pen)
		}
		pen[0] += float32(g.Metrics.Advance)
	}
	return dst, pen, true, nil
}

func (c *Cache) appendQuad(dst []Vertex, g Glyph, pen mgl32.Vec2) []Vertex {
	uv := g.UV(c.cfg.Width, c.cfg.Height)
	x0 := pen.X()
	y0 := pen.Y() - float32(g.Metrics.Ascent)
	x1 := x0 + float32(g.Rect.Width)
	y1 := y0 + float32(g.Rect.Height)

	tl := Vertex{Pos: mgl32.Vec2{x0, y0}, UV: mgl32.Vec2{uv[0], uv[1]}}
	tr := Vertex{Pos: mgl32.Vec2{x1, y0}, UV: mgl32.Vec2{uv[2], uv[1]}}
	bl := Vertex{Pos: mgl32.Vec2{x0, y1}, UV: mgl32.Vec2{uv[0], uv[3]}}
	br := Vertex{Pos: mgl32.Vec2{x1, y1}, UV: mgl32.Vec2{uv[2], uv[3]}}
	return append(dst, tl, bl, br, tl, br, tr)
}
