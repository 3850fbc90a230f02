package atlas

import (
	"fmt"
	"math"

	"github.com/gogpu/glyphatlas"
)

// GlyphKey identifies one glyph variant in an atlas.
// Keys compare exactly; codepoints are not normalized.
type GlyphKey struct {
	Codepoint rune
	Font      int
}

func (k GlyphKey) String() string {
	return fmt.Sprintf("U+%04X/font %d", k.Codepoint, k.Font)
}

// Entry is one occupied footprint together with its key.
type Entry struct {
	Key GlyphKey

	// Footprint is the reserved rectangle, edge padding included.
	Footprint Rect
}

// Stats holds counters for an Atlas. They survive Flush.
type Stats struct {
	Lookups    uint64
	Hits       uint64
	Misses     uint64
	Inserts    uint64 // inserts that placed a new rect
	Duplicates uint64 // inserts answered from the mapping
	Full       uint64
	Flushes    uint64
}

// HitRate returns Hits/Lookups, or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	if s.Lookups == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups)
}

// Atlas places glyph rectangles into a fixed canvas and remembers where
// each glyph went.
//
// For every key the atlas stores the reserved footprint. Insert and
// Lookup return that footprint shrunk by the edge passed in, so callers
// must use the same edge for a key on every call; mixing edges yields
// undefined rectangles and is not detected.
//
// Rects stay valid until the next Flush. Atlas is not safe for
// concurrent use: it belongs to a single render context, and callers
// that share it must serialize every call.
type Atlas struct {
	alloc   *ShelfAllocator
	entries map[GlyphKey]Rect
	order   []GlyphKey

	generation uint64
	dirty      bool
	stats      Stats
}

// New creates an empty atlas for a width×height canvas.
func New(width, height int) (*Atlas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidSize, width, height)
	}
	return &Atlas{
		alloc:   NewShelfAllocator(width, height),
		entries: make(map[GlyphKey]Rect),
	}, nil
}

// Width returns the canvas width.
func (a *Atlas) Width() int { return a.alloc.Width() }

// Height returns the canvas height.
func (a *Atlas) Height() int { return a.alloc.Height() }

// Lookup returns the rect stored for (codepoint, font), shrunk by edge.
// The second result is false on a miss.
//
// Lookup never changes the layout, but it does update the lookup
// counters reported by Stats, so it is a write for locking purposes.
func (a *Atlas) Lookup(codepoint rune, font, edge int) (Rect, bool) {
	return a.LookupKey(GlyphKey{Codepoint: codepoint, Font: font}, edge)
}

// LookupKey is Lookup with a prebuilt key.
func (a *Atlas) LookupKey(key GlyphKey, edge int) (Rect, bool) {
	a.stats.Lookups++
	outer, ok := a.entries[key]
	if !ok {
		a.stats.Misses++
		return Rect{}, false
	}
	a.stats.Hits++
	return outer.Inset(edge), true
}

// Insert places a width×height glyph with edge pixels of unused border
// on each side and returns the glyph box.
//
// Inserting a key that is already mapped returns the existing rect and
// consumes no space. When the padded footprint does not fit, Insert
// returns a *FullError matching ErrAtlasFull and leaves the atlas as it
// was.
func (a *Atlas) Insert(codepoint rune, font, width, height, edge int) (Rect, error) {
	return a.InsertKey(GlyphKey{Codepoint: codepoint, Font: font}, width, height, edge)
}

// InsertKey is Insert with a prebuilt key.
func (a *Atlas) InsertKey(key GlyphKey, width, height, edge int) (Rect, error) {
	if width <= 0 || height <= 0 || edge < 0 {
		return Rect{}, fmt.Errorf("%w: %dx%d edge %d for %v", ErrInvalidSize, width, height, edge, key)
	}
	if outer, ok := a.entries[key]; ok {
		a.stats.Duplicates++
		return outer.Inset(edge), nil
	}

	w, h := padded(width, edge), padded(height, edge)
	if w > a.alloc.Width() || h > a.alloc.Height() {
		a.stats.Full++
		glyphatlas.Logger().Debug("atlas: oversized request",
			"key", key, "width", w, "height", h)
		return Rect{}, &FullError{Key: key, Width: w, Height: h, Oversized: true}
	}

	outer, ok := a.alloc.Allocate(w, h)
	if !ok {
		a.stats.Full++
		glyphatlas.Logger().Debug("atlas: full",
			"key", key, "width", w, "height", h,
			"shelves", a.alloc.ShelfCount(), "glyphs", len(a.order))
		return Rect{}, &FullError{Key: key, Width: w, Height: h}
	}

	a.entries[key] = outer
	a.order = append(a.order, key)
	a.dirty = true
	a.stats.Inserts++
	return outer.Inset(edge), nil
}

// padded returns n+2*edge, saturating at math.MaxInt so that huge
// requests still compare as larger than the canvas.
func padded(n, edge int) int {
	if edge > (math.MaxInt-n)/2 {
		return math.MaxInt
	}
	return n + 2*edge
}

// Flush forgets every glyph and every shelf. The canvas size is kept.
//
// All rects returned before the flush become invalid. Flush must run
// between batches: never while draws that reference earlier rects are
// still waiting to be submitted.
func (a *Atlas) Flush() {
	n := len(a.order)
	a.alloc.Reset()
	clear(a.entries)
	a.order = a.order[:0]
	a.generation++
	a.dirty = true
	a.stats.Flushes++
	glyphatlas.Logger().Debug("atlas: flushed", "glyphs", n, "generation", a.generation)
}

// Dump returns every occupied footprint in insertion order.
// It never mutates the atlas.
func (a *Atlas) Dump() []Rect {
	out := make([]Rect, len(a.order))
	for i, key := range a.order {
		out[i] = a.entries[key]
	}
	return out
}

// Entries returns every key with its footprint, in insertion order.
func (a *Atlas) Entries() []Entry {
	out := make([]Entry, len(a.order))
	for i, key := range a.order {
		out[i] = Entry{Key: key, Footprint: a.entries[key]}
	}
	return out
}

// Len returns the number of mapped glyphs.
func (a *Atlas) Len() int {
	return len(a.order)
}

// Shelves returns the allocator's shelves in creation order.
func (a *Atlas) Shelves() []Shelf {
	return a.alloc.Shelves()
}

// Utilization returns the fraction of the canvas covered by footprints.
func (a *Atlas) Utilization() float64 {
	return a.alloc.Utilization()
}

// Generation counts flushes. Rects obtained under an older generation
// are no longer valid.
func (a *Atlas) Generation() uint64 {
	return a.generation
}

// Dirty reports whether the layout changed since the last MarkClean.
func (a *Atlas) Dirty() bool {
	return a.dirty
}

// MarkClean records that the current layout has been uploaded.
func (a *Atlas) MarkClean() {
	a.dirty = false
}

// Stats returns a copy of the counters.
func (a *Atlas) Stats() Stats {
	return a.stats
}
