// Package snapshot records atlas layouts and checks them against the
// allocator.
//
// A snapshot is the canvas size, the generation, the shelves and every
// footprint in insertion order. Snapshots are stored as msgpack inside a
// zstd stream. Replay feeds the recorded footprints through a fresh
// allocator, which confirms that a layout produced elsewhere, such as by
// an older build or another process, is what this allocator would do.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/gogpu/glyphatlas/atlas"
)

// Version is the snapshot format version written by Encode.
const Version = 1

var (
	// ErrVersion is returned when decoding a snapshot of another format.
	ErrVersion = errors.New("snapshot: unsupported version")

	// ErrCorrupt is returned for a snapshot whose layout is impossible.
	ErrCorrupt = errors.New("snapshot: corrupt layout")
)

// Snapshot is a recorded atlas layout.
type Snapshot struct {
	Version    int         `msgpack:"v"`
	Width      int         `msgpack:"w"`
	Height     int         `msgpack:"h"`
	Generation uint64      `msgpack:"gen"`
	Shelves    []ShelfInfo `msgpack:"shelves"`
	Entries    []Entry     `msgpack:"entries"`
}

// ShelfInfo is one recorded shelf.
type ShelfInfo struct {
	Y      int `msgpack:"y"`
	Height int `msgpack:"h"`
	NextX  int `msgpack:"next"`
}

// Entry is one recorded footprint.
type Entry struct {
	Codepoint rune `msgpack:"c"`
	Font      int  `msgpack:"f"`
	X         int  `msgpack:"x"`
	Y         int  `msgpack:"y"`
	Width     int  `msgpack:"w"`
	Height    int  `msgpack:"h"`
}

// Key returns the glyph key of e.
func (e Entry) Key() atlas.GlyphKey {
	return atlas.GlyphKey{Codepoint: e.Codepoint, Font: e.Font}
}

// Footprint returns the recorded rectangle.
func (e Entry) Footprint() atlas.Rect {
	return atlas.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Take records the current layout of a.
func Take(a *atlas.Atlas) *Snapshot {
	s := &Snapshot{
		Version:    Version,
		Width:      a.Width(),
		Height:     a.Height(),
		Generation: a.Generation(),
	}
	for _, sh := range a.Shelves() {
		s.Shelves = append(s.Shelves, ShelfInfo{Y: sh.Y, Height: sh.Height, NextX: sh.NextX})
	}
	for _, e := range a.Entries() {
		f := e.Footprint
		s.Entries = append(s.Entries, Entry{
			Codepoint: e.Key.Codepoint,
			Font:      e.Key.Font,
			X:         f.X,
			Y:         f.Y,
			Width:     f.Width,
			Height:    f.Height,
		})
	}
	return s
}

// Validate checks that the layout is one a shelf allocator could have
// produced: footprints inside the canvas and pairwise disjoint, shelves
// stacked from the top without gaps and within the canvas.
func (s *Snapshot) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrCorrupt, s.Width, s.Height)
	}
	y := 0
	for i, sh := range s.Shelves {
		if sh.Y != y || sh.Height <= 0 || sh.NextX < 0 || sh.NextX > s.Width {
			return fmt.Errorf("%w: shelf %d %+v", ErrCorrupt, i, sh)
		}
		y += sh.Height
	}
	if y > s.Height {
		return fmt.Errorf("%w: shelves use %d of %d rows", ErrCorrupt, y, s.Height)
	}

	seen := make(map[atlas.GlyphKey]bool, len(s.Entries))
	for i, e := range s.Entries {
		r := e.Footprint()
		if !r.IsValid() || !r.Within(s.Width, s.Height) {
			return fmt.Errorf("%w: entry %d %v out of bounds", ErrCorrupt, i, r)
		}
		if seen[e.Key()] {
			return fmt.Errorf("%w: entry %d duplicates %v", ErrCorrupt, i, e.Key())
		}
		seen[e.Key()] = true
		for j := range i {
			if r.Overlaps(s.Entries[j].Footprint()) {
				return fmt.Errorf("%w: entries %d and %d overlap", ErrCorrupt, j, i)
			}
		}
	}
	return nil
}
