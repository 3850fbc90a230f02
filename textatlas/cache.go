package textatlas

import (
	"errors"
	"fmt"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/raster"
)

// Uploader receives changed parts of the coverage canvas.
//
// pix holds the rectangle r row by row: row y starts at
// pix[(y-r.Min.Y)*stride] and is r.Dx() bytes long. pix aliases the
// canvas and is only valid for the duration of the call.
type Uploader interface {
	UploadAtlas(pix []byte, stride int, r image.Rectangle) error
}

// Glyph is a resolved glyph.
type Glyph struct {
	Key atlas.GlyphKey

	// Rect is the glyph box in the canvas. It is the zero Rect for
	// glyphs without coverage, such as spaces.
	Rect atlas.Rect

	Metrics raster.Metrics

	// Generation is the atlas generation Rect belongs to.
	Generation uint64
}

// Blank reports whether the glyph has no pixels in the atlas.
func (g Glyph) Blank() bool {
	return !g.Rect.IsValid()
}

// Stats holds Cache counters on top of the atlas counters.
type Stats struct {
	Atlas atlas.Stats

	Rasterized  uint64 // glyphs run through a rasterizer
	MaskReuse   uint64 // inserts served from the mask cache
	Blank       uint64 // glyphs found to have no coverage
	AutoFlushes uint64 // flushes done by FlushAndRetry
	Uploads     uint64 // successful Sync calls that sent pixels
}

// mask is rasterized coverage for one glyph.
type mask struct {
	metrics raster.Metrics
	pix     []byte
}

// glyphInfo is what is known about a key, independent of placement.
type glyphInfo struct {
	metrics raster.Metrics
	blank   bool
}

// Cache keeps glyph coverage for a set of fonts in one atlas canvas.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	cfg    Config
	atlas  *atlas.Atlas
	canvas *image.Alpha
	fonts  map[int]raster.Rasterizer

	// removed holds ids unregistered since the last flush whose glyphs
	// may still be placed.
	removed map[int]bool

	info  map[atlas.GlyphKey]glyphInfo
	masks *lru.Cache[atlas.GlyphKey, *mask] // nil when disabled

	dirty image.Rectangle
	stats Stats
}

// New creates a Cache with no fonts.
func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := atlas.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		cfg:     cfg,
		atlas:   a,
		canvas:  image.NewAlpha(image.Rect(0, 0, cfg.Width, cfg.Height)),
		fonts:   make(map[int]raster.Rasterizer),
		removed: make(map[int]bool),
		info:    make(map[atlas.GlyphKey]glyphInfo),
	}
	// The backend's copy starts out undefined.
	c.dirty = c.canvas.Bounds()
	if cfg.MaskCacheSize > 0 {
		c.masks, err = lru.New[atlas.GlyphKey, *mask](cfg.MaskCacheSize)
		if err != nil {
			return nil, fmt.Errorf("textatlas: mask cache: %w", err)
		}
	}
	return c, nil
}

// Config returns the configuration the cache was created with.
func (c *Cache) Config() Config { return c.cfg }

// Atlas returns the underlying atlas. Mutating it directly bypasses the
// canvas and leaves the two out of step.
func (c *Cache) Atlas() *atlas.Atlas { return c.atlas }

// Canvas returns the coverage canvas. Treat it as read-only.
func (c *Cache) Canvas() *image.Alpha { return c.canvas }

// Generation returns the atlas generation. It changes on every flush,
// after which all previously returned rects are invalid.
func (c *Cache) Generation() uint64 { return c.atlas.Generation() }

// SetFont registers r under id. Replacing an existing face, or one
// removed since the last flush, changes what the placed glyphs of that
// id look like, so the atlas is flushed.
func (c *Cache) SetFont(id int, r raster.Rasterizer) {
	if r == nil {
		c.RemoveFont(id)
		return
	}
	if _, ok := c.fonts[id]; ok || c.removed[id] {
		glyphatlas.Logger().Info("textatlas: font replaced, flushing", "font", id)
		c.forget(id)
		c.Flush()
	}
	c.fonts[id] = r
}

// RemoveFont unregisters id. Glyph reports ErrUnknownFont for it from
// then on; its placed glyphs keep their space until the next flush.
func (c *Cache) RemoveFont(id int) {
	if _, ok := c.fonts[id]; ok {
		c.removed[id] = true
	}
	delete(c.fonts, id)
	c.forget(id)
}

func (c *Cache) forget(id int) {
	for k := range c.info {
		if k.Font == id {
			delete(c.info, k)
		}
	}
	if c.masks == nil {
		return
	}
	for _, k := range c.masks.Keys() {
		if k.Font == id {
			c.masks.Remove(k)
		}
	}
}

// Glyph returns the atlas placement of codepoint in font, rasterizing
// and inserting it on a miss.
//
// A glyph the face does not have yields an error matching
// raster.ErrNoGlyph. When the atlas is full the error matches
// atlas.ErrAtlasFull and the returned Glyph still carries the metrics,
// so callers can advance past it.
func (c *Cache) Glyph(codepoint rune, font int) (Glyph, error) {
	key := atlas.GlyphKey{Codepoint: codepoint, Font: font}

	// Placements of a removed font linger until the next flush, but
	// their metrics are gone with the face.
	face, ok := c.fonts[font]
	if !ok {
		return Glyph{Key: key}, fmt.Errorf("%w: %d", ErrUnknownFont, font)
	}

	if r, ok := c.atlas.LookupKey(key, c.cfg.Edge); ok {
		return c.glyph(key, r), nil
	}
	if info, ok := c.info[key]; ok && info.blank {
		return c.glyph(key, atlas.Rect{}), nil
	}

	m, err := c.rasterize(key, face)
	if err != nil {
		return Glyph{Key: key}, err
	}
	if m == nil {
		return c.glyph(key, atlas.Rect{}), nil
	}

	r, err := c.atlas.InsertKey(key, m.metrics.Width, m.metrics.Height, c.cfg.Edge)
	if err != nil && c.retry(err) {
		glyphatlas.Logger().Info("textatlas: atlas full, flushing",
			"key", key, "glyphs", c.atlas.Len(), "generation", c.atlas.Generation())
		c.Flush()
		c.stats.AutoFlushes++
		r, err = c.atlas.InsertKey(key, m.metrics.Width, m.metrics.Height, c.cfg.Edge)
	}
	if err != nil {
		return Glyph{Key: key, Metrics: m.metrics, Generation: c.atlas.Generation()}, err
	}
	c.blit(r, m)
	return c.glyph(key, r), nil
}

// retry reports whether an insert error is worth a flush and a retry.
// Oversized requests never fit and a flush of an empty atlas frees
// nothing.
func (c *Cache) retry(err error) bool {
	return c.cfg.OnFull == FlushAndRetry &&
		errors.Is(err, atlas.ErrAtlasFull) &&
		!errors.Is(err, atlas.ErrOversized) &&
		c.atlas.Len() > 0
}

func (c *Cache) glyph(key atlas.GlyphKey, r atlas.Rect) Glyph {
	return Glyph{
		Key:        key,
		Rect:       r,
		Metrics:    c.info[key].metrics,
		Generation: c.atlas.Generation(),
	}
}

// rasterize returns coverage for key, or nil for a blank glyph.
func (c *Cache) rasterize(key atlas.GlyphKey, face raster.Rasterizer) (*mask, error) {
	if c.masks != nil {
		if m, ok := c.masks.Get(key); ok {
			c.stats.MaskReuse++
			return m, nil
		}
	}

	metrics, err := face.Measure(key.Codepoint)
	if err != nil {
		c.logRasterError(key, err)
		return nil, err
	}
	var pix []byte
	if !metrics.Empty() {
		pix = make([]byte, metrics.BufferSize())
		if err := face.Rasterize(key.Codepoint, pix); err != nil {
			c.logRasterError(key, err)
			return nil, err
		}
	}
	c.stats.Rasterized++

	if !hasCoverage(pix) {
		c.stats.Blank++
		c.info[key] = glyphInfo{metrics: metrics, blank: true}
		return nil, nil
	}
	m := &mask{metrics: metrics, pix: pix}
	c.info[key] = glyphInfo{metrics: metrics}
	if c.masks != nil {
		c.masks.Add(key, m)
	}
	return m, nil
}

func (c *Cache) logRasterError(key atlas.GlyphKey, err error) {
	if errors.Is(err, raster.ErrNoGlyph) {
		glyphatlas.Logger().Debug("textatlas: glyph missing from face", "key", key)
		return
	}
	glyphatlas.Logger().Warn("textatlas: rasterize failed", "key", key, "err", err)
}

func hasCoverage(pix []byte) bool {
	for _, v := range pix {
		if v != 0 {
			return true
		}
	}
	return false
}

// blit copies a mask into its glyph box and grows the dirty region by
// the whole footprint.
func (c *Cache) blit(r atlas.Rect, m *mask) {
	w := m.metrics.Width
	for y := range r.Height {
		off := c.canvas.PixOffset(r.X, r.Y+y)
		copy(c.canvas.Pix[off:off+r.Width], m.pix[y*w:(y+1)*w])
	}
	c.dirty = c.dirty.Union(r.Outset(c.cfg.Edge).Image())
}

// Flush empties the atlas and clears the canvas. Rects returned earlier
// are invalid afterwards; see atlas.Atlas.Flush.
func (c *Cache) Flush() {
	c.atlas.Flush()
	clear(c.removed)
	clear(c.canvas.Pix)
	c.dirty = c.canvas.Bounds()
}

// Dirty returns the region changed since the last successful Sync.
func (c *Cache) Dirty() (image.Rectangle, bool) {
	return c.dirty, !c.dirty.Empty()
}

// Sync hands the dirty region to u. On success the region is cleared
// and the atlas is marked clean; on failure it is kept for the next try.
func (c *Cache) Sync(u Uploader) error {
	if c.dirty.Empty() {
		return nil
	}
	sub := c.canvas.SubImage(c.dirty).(*image.Alpha)
	if err := u.UploadAtlas(sub.Pix, sub.Stride, c.dirty); err != nil {
		return fmt.Errorf("textatlas: upload %v: %w", c.dirty, err)
	}
	c.dirty = image.Rectangle{}
	c.atlas.MarkClean()
	c.stats.Uploads++
	return nil
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Atlas = c.atlas.Stats()
	return s
}
